package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainBookingRequest(t *testing.T) {
	var nb NewBooking
	body := `{"date":"2025-03-01","start_time":"14:00","duration_minutes":60,"station":2,"controllers":3,"payment_method":"wallet"}`
	require.NoError(t, json.Unmarshal([]byte(body), &nb))

	req := ToDomainBookingRequest("user1", &nb)

	assert.Equal(t, booking.BookingRequest{
		UserId:          "user1",
		Date:            "2025-03-01",
		StartTime:       "14:00",
		DurationMinutes: 60,
		Station:         models.StationTwo,
		Controllers:     3,
		PaymentMethod:   models.PaymentWallet,
	}, req)
}

func TestToDomainBookingRequestMissingDate(t *testing.T) {
	var nb NewBooking
	require.NoError(t, json.Unmarshal([]byte(`{"start_time":"14:00","duration_minutes":60,"station":1}`), &nb))

	req := ToDomainBookingRequest("user1", &nb)

	assert.Empty(t, req.Date)
}

func TestToApiAvailabilityNeverNull(t *testing.T) {
	out, err := json.Marshal(ToApiAvailability(models.StationOne, "2025-03-01", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"station":1,"date":"2025-03-01","occupied_slots":[]}`, string(out))
}

func TestErrorStatus(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: bad station", booking.ErrInvalidRequest): http.StatusBadRequest,
		&booking.SlotConflictError{Station: models.StationOne}:   http.StatusConflict,
		booking.ErrInsufficientFunds:                             http.StatusUnprocessableEntity,
		fmt.Errorf("wrapped: %w", booking.ErrContention):         http.StatusServiceUnavailable,
		errors.New("boom"):                                       http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, ErrorStatus(err), err.Error())
	}
}
