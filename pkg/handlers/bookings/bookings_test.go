package bookings_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/handlers/bookings"
	"github.com/chris/station-bookings/pkg/handlers/bookings/mocks"
	"github.com/chris/station-bookings/pkg/middleware"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), "user1"))
}

func TestCreateBooking(t *testing.T) {
	body := `{"date":"2025-03-01","start_time":"14:00","duration_minutes":60,"station":1,"controllers":2,"payment_method":"wallet"}`
	expected := booking.BookingRequest{
		UserId:          "user1",
		Date:            "2025-03-01",
		StartTime:       "14:00",
		DurationMinutes: 60,
		Station:         models.StationOne,
		Controllers:     2,
		PaymentMethod:   models.PaymentWallet,
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CreateBooking", mock.Anything, expected).Return(&models.Reservation{Id: "r1", TotalPrice: 18900}, nil).Once()

		h := bookings.NewBookingsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body)))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var res models.Reservation
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, "r1", res.Id)
		mockService.AssertExpectations(t)
	})

	t.Run("Slot Conflict", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, &booking.SlotConflictError{Station: models.StationOne, Date: "2025-03-01", StartTime: "14:00", EndTime: "15:00"}).Once()

		h := bookings.NewBookingsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body)))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "station 1")
		mockService.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, booking.ErrInsufficientFunds).Once()

		h := bookings.NewBookingsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body)))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, errors.New("dynamodb down")).Once()

		h := bookings.NewBookingsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body)))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to create booking")
		mockService.AssertExpectations(t)
	})

	t.Run("Malformed Date", func(t *testing.T) {
		mockService := new(mocks.Service)

		h := bookings.NewBookingsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{"date":"March 1st"}`)))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("Missing Date", func(t *testing.T) {
		mockService := new(mocks.Service)

		h := bookings.NewBookingsHandler(mockService)
		noDate := `{"start_time":"14:00","duration_minutes":60,"station":1,"controllers":2,"payment_method":"wallet"}`
		req := authed(httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(noDate)))
		rr := httptest.NewRecorder()

		h.CreateBooking(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "date is required")
		mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})
}

func TestListMyBookings(t *testing.T) {
	mockService := new(mocks.Service)
	mockService.On("ListUserReservations", mock.Anything, "user1").Return(nil, nil).Once()

	h := bookings.NewBookingsHandler(mockService)
	rr := httptest.NewRecorder()

	h.ListMyBookings(rr, authed(httptest.NewRequest(http.MethodGet, "/bookings/mine", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	mockService.AssertExpectations(t)
}

func TestCheckAvailability(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CheckAvailability", mock.Anything, models.StationTwo, "2025-03-01").
			Return([]models.OccupiedSlot{{StartTime: "10:00", EndTime: "11:00"}}, nil).Once()

		h := bookings.NewBookingsHandler(mockService)
		rr := httptest.NewRecorder()

		h.CheckAvailability(rr, httptest.NewRequest(http.MethodGet, "/bookings/availability?station=2&date=2025-03-01", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"station":2,"date":"2025-03-01","occupied_slots":[{"start_time":"10:00","end_time":"11:00"}]}`, rr.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Bad Station", func(t *testing.T) {
		mockService := new(mocks.Service)

		h := bookings.NewBookingsHandler(mockService)
		rr := httptest.NewRecorder()

		h.CheckAvailability(rr, httptest.NewRequest(http.MethodGet, "/bookings/availability?station=one&date=2025-03-01", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCalculatePrice(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CalculatePrice", 120, 3).Return(pricing.Quote{BasePrice: 29800, ControllerCharges: 16000, TotalPrice: 45800}, nil).Once()

		h := bookings.NewBookingsHandler(mockService)
		rr := httptest.NewRecorder()

		h.CalculatePrice(rr, httptest.NewRequest(http.MethodGet, "/bookings/price?duration_minutes=120&controllers=3", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"base_price":298.00,"controller_charges":160.00,"total_price":458.00}`, rr.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid Duration", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CalculatePrice", 45, 1).Return(pricing.Quote{}, booking.ErrInvalidRequest).Once()

		h := bookings.NewBookingsHandler(mockService)
		rr := httptest.NewRecorder()

		h.CalculatePrice(rr, httptest.NewRequest(http.MethodGet, "/bookings/price?duration_minutes=45&controllers=1", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing Controllers", func(t *testing.T) {
		mockService := new(mocks.Service)

		h := bookings.NewBookingsHandler(mockService)
		rr := httptest.NewRecorder()

		h.CalculatePrice(rr, httptest.NewRequest(http.MethodGet, "/bookings/price?duration_minutes=60", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "controllers")
		mockService.AssertNotCalled(t, "CalculatePrice", mock.Anything, mock.Anything)
	})
}

var _ bookings.Service = (*mocks.Service)(nil)
