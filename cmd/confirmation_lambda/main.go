package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/station-bookings/pkg/events"
	"github.com/chris/station-bookings/pkg/storage"
	dydbstore "github.com/chris/station-bookings/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
)

var store storage.ReservationReader
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// errMismatch marks an event that disagrees with storage. Retrying cannot fix it.
var errMismatch = errors.New("event does not match storage")

func setup() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	stationDaysTable := os.Getenv("DYNAMODB_STATION_DAYS_TABLE_NAME")
	reservationsTable := os.Getenv("DYNAMODB_RESERVATIONS_TABLE_NAME")
	if stationDaysTable == "" || reservationsTable == "" {
		logger.Error("DYNAMODB_STATION_DAYS_TABLE_NAME and DYNAMODB_RESERVATIONS_TABLE_NAME must be set")
		os.Exit(1)
	}

	store = dydbstore.New(dynamodb.NewFromConfig(cfg), dydbstore.Tables{
		StationDays:  stationDaysTable,
		Reservations: reservationsTable,
	})
}

// HandleRequest consumes booking.confirmed messages published by the API.
func HandleRequest(ctx context.Context, sqsEvent lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	return consume(ctx, store, logger, sqsEvent), nil
}

// consume checks every confirmed booking against the reservation it announces.
// Messages that fail on a storage error are reported back so SQS redelivers only those.
func consume(ctx context.Context, store storage.ReservationReader, logger *slog.Logger, sqsEvent lambdaevents.SQSEvent) lambdaevents.SQSEventResponse {
	var resp lambdaevents.SQSEventResponse
	for _, message := range sqsEvent.Records {
		log := logger.With("message_id", message.MessageId)

		var event events.BookingConfirmed
		if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
			// A malformed body will never parse; dropping it keeps the queue moving.
			log.Error("failed to unmarshal booking event", "error", err)
			continue
		}

		err := verify(ctx, store, &event)
		switch {
		case err == nil:
			log.Info("booking confirmed",
				"reservation_id", event.ReservationId,
				"user_id", event.UserId,
				"station", event.Station,
				"date", event.Date,
				"start_time", event.StartTime,
			)
		case errors.Is(err, errMismatch):
			log.Error("booking event rejected", "reservation_id", event.ReservationId, "error", err)
		default:
			log.Warn("booking event will be retried", "reservation_id", event.ReservationId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, lambdaevents.SQSBatchItemFailure{
				ItemIdentifier: message.MessageId,
			})
		}
	}
	return resp
}

// verify requires the reservation to exist with the announced slot and to hold an interval on its station day.
func verify(ctx context.Context, store storage.ReservationReader, event *events.BookingConfirmed) error {
	res, err := store.GetReservation(ctx, event.ReservationId)
	if errors.Is(err, storage.ErrReservationNotFound) {
		return fmt.Errorf("%w: reservation %s not found", errMismatch, event.ReservationId)
	}
	if err != nil {
		return err
	}
	if res.Station != event.Station || res.Date != event.Date || res.StartTime != event.StartTime || res.EndTime != event.EndTime {
		return fmt.Errorf("%w: reservation %s is station %d %s %s-%s", errMismatch, res.Id, res.Station, res.Date, res.StartTime, res.EndTime)
	}

	day, err := store.GetStationDay(ctx, res.Station, res.Date)
	if err != nil {
		return err
	}
	for _, iv := range day.Intervals {
		if iv.ReservationId == res.Id {
			if iv.Start != res.StartMinute || iv.End != res.EndMinute {
				return fmt.Errorf("%w: interval of %s does not match its reservation", errMismatch, res.Id)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: reservation %s missing from its station day", errMismatch, res.Id)
}

func main() {
	setup()
	lambda.Start(HandleRequest)
}
