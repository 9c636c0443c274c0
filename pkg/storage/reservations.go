package storage

import (
	"context"

	"github.com/chris/station-bookings/pkg/models"
)

// ReservationReader defines the interface for reading reservation data.
type ReservationReader interface {
	// GetStationDay retrieves the occupied intervals of a station on a date.
	// A day without reservations is returned empty with version zero.
	GetStationDay(ctx context.Context, station models.Station, date string) (*models.StationDay, error)

	// GetReservation retrieves a reservation by its ID.
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)

	// ListReservationsByUser retrieves a user's reservations, newest first.
	ListReservationsByUser(ctx context.Context, userID string, limit int32) ([]models.Reservation, error)
}

// BookingWriter defines the interface for committing a booking.
type BookingWriter interface {
	// CommitBooking atomically appends the reservation to its station day, writes the
	// reservation and, for wallet payments, debits the wallet and appends the transaction.
	// Nothing is written unless every expected version still matches; otherwise
	// ErrContention is returned.
	CommitBooking(ctx context.Context, commit *models.BookingCommit) error
}

// ReservationStore combines the reader and writer interfaces.
type ReservationStore interface {
	ReservationReader
	BookingWriter
}
