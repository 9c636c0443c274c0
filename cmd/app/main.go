package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/config"
	"github.com/chris/station-bookings/pkg/events"
	"github.com/chris/station-bookings/pkg/handlers"
	"github.com/chris/station-bookings/pkg/lock"
	"github.com/chris/station-bookings/pkg/middleware"
	"github.com/chris/station-bookings/pkg/pricing"
	"github.com/chris/station-bookings/pkg/storage"
	dydbstore "github.com/chris/station-bookings/pkg/storage/dynamodb"
	"github.com/chris/station-bookings/pkg/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store     storage.Storage
		publisher events.Publisher = events.NoOpPublisher{}
	)

	if cfg.UseDynamoDB() || cfg.EventsBackend == config.EventsSQS {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Error("unable to load SDK config", "error", err)
			os.Exit(1)
		}
		if cfg.UseDynamoDB() {
			store = dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables{
				StationDays:        cfg.StationDaysTable,
				Reservations:       cfg.ReservationsTable,
				Wallets:            cfg.WalletsTable,
				WalletTransactions: cfg.WalletTransactionsTable,
			})
		}
		if cfg.EventsBackend == config.EventsSQS {
			publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
		}
	}
	if store == nil {
		logger.Warn("DynamoDB tables not configured, using in-memory storage")
		store = memory.New()
	}

	if cfg.EventsBackend == config.EventsAMQP {
		amqpPublisher := events.NewAMQPPublisher(cfg.AMQPURL)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("unable to reach redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		locker = lock.NewRedisLocker(client, "station-bookings:lock:")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ledger := booking.New(store, pricing.NewEngine(cfg.Rates), booking.Options{
		Locker:     locker,
		Publisher:  publisher,
		Metrics:    booking.NewMetrics(registry),
		Logger:     logger,
		MaxRetries: cfg.MaxRetries,
	})

	var authenticate func(http.Handler) http.Handler
	if cfg.JWTSecret != "" {
		authenticate = middleware.BearerAuth([]byte(cfg.JWTSecret))
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handlers.NewRouter(ledger, logger, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), authenticate),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.HTTPPort, "events", cfg.EventsBackend, "dynamodb", cfg.UseDynamoDB())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
