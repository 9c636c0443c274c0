// Package events publishes domain events for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/chris/station-bookings/pkg/models"
)

// BookingConfirmedType tags BookingConfirmed messages on every transport.
const BookingConfirmedType = "booking.confirmed"

// BookingConfirmed is published after a reservation has been committed.
type BookingConfirmed struct {
	ReservationId   string               `json:"reservation_id"`
	UserId          string               `json:"user_id"`
	Station         models.Station       `json:"station"`
	Date            string               `json:"date"`
	StartTime       string               `json:"start_time"`
	EndTime         string               `json:"end_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Controllers     int                  `json:"controllers"`
	TotalPrice      models.Amount        `json:"total_price"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	ConfirmedAt     time.Time            `json:"confirmed_at"`
}

// NewBookingConfirmed builds the event for a committed reservation.
func NewBookingConfirmed(res *models.Reservation) *BookingConfirmed {
	return &BookingConfirmed{
		ReservationId:   res.Id,
		UserId:          res.UserId,
		Station:         res.Station,
		Date:            res.Date,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		DurationMinutes: res.DurationMinutes,
		Controllers:     res.Controllers,
		TotalPrice:      res.TotalPrice,
		PaymentMethod:   res.PaymentMethod,
		ConfirmedAt:     res.CreatedAt,
	}
}

// Publisher defines the interface for a component that announces confirmed bookings.
type Publisher interface {
	// PublishBookingConfirmed delivers the event. Callers treat failures as non-fatal.
	PublishBookingConfirmed(ctx context.Context, event *BookingConfirmed) error
}

// NoOpPublisher discards every event.
type NoOpPublisher struct{}

func (NoOpPublisher) PublishBookingConfirmed(context.Context, *BookingConfirmed) error {
	return nil
}

var _ Publisher = NoOpPublisher{}
