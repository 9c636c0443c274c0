package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chris/station-bookings/pkg/pricing"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Event backends accepted by EVENTS_BACKEND.
const (
	EventsNone = "none"
	EventsSQS  = "sqs"
	EventsAMQP = "amqp"
)

// Config is the runtime configuration of the booking service.
type Config struct {
	HTTPPort string

	StationDaysTable        string
	ReservationsTable       string
	WalletsTable            string
	WalletTransactionsTable string

	EventsBackend string
	SQSQueueURL   string
	AMQPURL       string

	// RedisAddr enables the distributed lock when set.
	RedisAddr string
	// JWTSecret switches authentication from the X-User-Id header to HS256 bearer tokens.
	JWTSecret string

	MaxRetries int
	Rates      pricing.Rates
	LogLevel   slog.Level
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Variables already present in the environment win over the file.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment, applying defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPPort:                getenv("HTTP_PORT", "8080"),
		StationDaysTable:        os.Getenv("DYNAMODB_STATION_DAYS_TABLE_NAME"),
		ReservationsTable:       os.Getenv("DYNAMODB_RESERVATIONS_TABLE_NAME"),
		WalletsTable:            os.Getenv("DYNAMODB_WALLETS_TABLE_NAME"),
		WalletTransactionsTable: os.Getenv("DYNAMODB_WALLET_TRANSACTIONS_TABLE_NAME"),
		SQSQueueURL:             os.Getenv("SQS_QUEUE_URL"),
		AMQPURL:                 os.Getenv("AMQP_URL"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		Rates:                   pricing.DefaultRates(),
	}

	var errs []error

	cfg.EventsBackend = strings.ToLower(os.Getenv("EVENTS_BACKEND"))
	if cfg.EventsBackend == "" {
		cfg.EventsBackend = EventsNone
		if cfg.SQSQueueURL != "" {
			cfg.EventsBackend = EventsSQS
		}
	}
	switch cfg.EventsBackend {
	case EventsNone:
	case EventsSQS:
		if cfg.SQSQueueURL == "" {
			errs = append(errs, errors.New("SQS_QUEUE_URL must be set when EVENTS_BACKEND is sqs"))
		}
	case EventsAMQP:
		if cfg.AMQPURL == "" {
			errs = append(errs, errors.New("AMQP_URL must be set when EVENTS_BACKEND is amqp"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENTS_BACKEND %q", cfg.EventsBackend))
	}

	tables := []string{cfg.StationDaysTable, cfg.ReservationsTable, cfg.WalletsTable, cfg.WalletTransactionsTable}
	set := 0
	for _, table := range tables {
		if table != "" {
			set++
		}
	}
	if set != 0 && set != len(tables) {
		errs = append(errs, errors.New("one or more DynamoDB table name environment variables are not set"))
	}

	retries, err := strconv.Atoi(getenv("BOOKING_MAX_RETRIES", "3"))
	if err != nil {
		errs = append(errs, fmt.Errorf("BOOKING_MAX_RETRIES: %w", err))
	}
	cfg.MaxRetries = retries

	if raw := os.Getenv("PRICING_HOURLY_BASE_RATE"); raw != "" {
		if cfg.Rates.HourlyBase, err = nonNegativeDecimal(raw); err != nil {
			errs = append(errs, fmt.Errorf("PRICING_HOURLY_BASE_RATE: %w", err))
		}
	}
	if raw := os.Getenv("PRICING_EXTRA_CONTROLLER_RATE"); raw != "" {
		if cfg.Rates.ExtraController, err = nonNegativeDecimal(raw); err != nil {
			errs = append(errs, fmt.Errorf("PRICING_EXTRA_CONTROLLER_RATE: %w", err))
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// UseDynamoDB reports whether every DynamoDB table is configured.
// Without tables the service runs on the in-memory store.
func (c *Config) UseDynamoDB() bool {
	return c.StationDaysTable != "" && c.ReservationsTable != "" &&
		c.WalletsTable != "" && c.WalletTransactionsTable != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func nonNegativeDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("rate %s must not be negative", raw)
	}
	return d, nil
}
