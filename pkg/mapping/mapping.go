package mapping

import (
	"errors"
	"net/http"

	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// NewBooking is the request body of POST /bookings.
type NewBooking struct {
	Date            openapi_types.Date   `json:"date"`
	StartTime       string               `json:"start_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Station         models.Station       `json:"station"`
	Controllers     int                  `json:"controllers"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
}

// NewTopup is the request body of POST /wallet/topup.
type NewTopup struct {
	Amount models.Amount `json:"amount"`
}

// Availability lists the occupied intervals of a station's day.
type Availability struct {
	Station       models.Station        `json:"station"`
	Date          string                `json:"date"`
	OccupiedSlots []models.OccupiedSlot `json:"occupied_slots"`
}

// Balance is a user's current wallet balance.
type Balance struct {
	UserId  string        `json:"user_id"`
	Balance models.Amount `json:"balance"`
}

// ToDomainBookingRequest converts an API NewBooking for the given user into a ledger request.
// A missing date maps to "", which the ledger rejects.
func ToDomainBookingRequest(userID string, nb *NewBooking) booking.BookingRequest {
	var date string
	if !nb.Date.IsZero() {
		date = nb.Date.Format(openapi_types.DateFormat)
	}
	return booking.BookingRequest{
		UserId:          userID,
		Date:            date,
		StartTime:       nb.StartTime,
		DurationMinutes: nb.DurationMinutes,
		Station:         nb.Station,
		Controllers:     nb.Controllers,
		PaymentMethod:   nb.PaymentMethod,
	}
}

// ToApiAvailability wraps occupied slots for the response. Slots are never null.
func ToApiAvailability(station models.Station, date string, slots []models.OccupiedSlot) *Availability {
	if slots == nil {
		slots = []models.OccupiedSlot{}
	}
	return &Availability{Station: station, Date: date, OccupiedSlots: slots}
}

// ToApiBalance builds the balance response.
func ToApiBalance(userID string, balance models.Amount) *Balance {
	return &Balance{UserId: userID, Balance: balance}
}

// ErrorStatus maps a ledger error onto its HTTP status code.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSlotConflict):
		return http.StatusConflict
	case errors.Is(err, booking.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
