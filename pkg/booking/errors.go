package booking

import (
	"errors"
	"fmt"

	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/storage"
)

var (
	// ErrInvalidRequest is returned when an input is outside the accepted ranges or malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSlotConflict is matched by every SlotConflictError.
	ErrSlotConflict = errors.New("slot conflict")

	// ErrInsufficientFunds is returned when a wallet cannot cover a booking.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrContention is returned when a commit kept losing to concurrent writers after all retries.
	ErrContention = storage.ErrContention
)

// SlotConflictError reports the station whose reservations overlap the request.
type SlotConflictError struct {
	Station   models.Station
	Date      string
	StartTime string
	EndTime   string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("station %d is already booked between %s and %s on %s", e.Station, e.StartTime, e.EndTime, e.Date)
}

func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
