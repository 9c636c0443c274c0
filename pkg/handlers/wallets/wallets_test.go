package wallets_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/handlers/wallets"
	"github.com/chris/station-bookings/pkg/handlers/wallets/mocks"
	"github.com/chris/station-bookings/pkg/middleware"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), "user-c"))
}

func TestTopupWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		result := &booking.TopupResult{
			AmountPaid:      models.NewAmount(500),
			Bonus:           models.NewAmount(25),
			BonusPercentage: 5,
			FinalAmount:     models.NewAmount(525),
			NewBalance:      models.NewAmount(525),
		}
		mockService := new(mocks.Service)
		mockService.On("TopupWallet", mock.Anything, "user-c", models.NewAmount(500)).Return(result, nil).Once()

		h := wallets.NewWalletsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewBufferString(`{"amount": 500}`)))
		rr := httptest.NewRecorder()

		h.TopupWallet(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got booking.TopupResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, *result, got)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("TopupWallet", mock.Anything, "user-c", models.Amount(0)).
			Return(nil, errors.Join(booking.ErrInvalidRequest, errors.New("amount must be positive"))).Once()

		h := wallets.NewWalletsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewBufferString(`{"amount": 0}`)))
		rr := httptest.NewRecorder()

		h.TopupWallet(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		mockService := new(mocks.Service)

		h := wallets.NewWalletsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewBufferString(`{"amount": "lots"}`)))
		rr := httptest.NewRecorder()

		h.TopupWallet(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "TopupWallet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Amount Out Of Range", func(t *testing.T) {
		mockService := new(mocks.Service)

		h := wallets.NewWalletsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewBufferString(`{"amount": 90000000000000000}`)))
		rr := httptest.NewRecorder()

		h.TopupWallet(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "out of range")
		mockService.AssertNotCalled(t, "TopupWallet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Contention", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("TopupWallet", mock.Anything, "user-c", models.NewAmount(50)).Return(nil, booking.ErrContention).Once()

		h := wallets.NewWalletsHandler(mockService)
		req := authed(httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewBufferString(`{"amount": 50}`)))
		rr := httptest.NewRecorder()

		h.TopupWallet(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetBalance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("GetBalance", mock.Anything, "user-c").Return(models.Amount(12345), nil).Once()

		h := wallets.NewWalletsHandler(mockService)
		rr := httptest.NewRecorder()

		h.GetBalance(rr, authed(httptest.NewRequest(http.MethodGet, "/wallet/balance", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"user_id":"user-c","balance":123.45}`, rr.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("GetBalance", mock.Anything, "user-c").Return(models.Amount(0), errors.New("boom")).Once()

		h := wallets.NewWalletsHandler(mockService)
		rr := httptest.NewRecorder()

		h.GetBalance(rr, authed(httptest.NewRequest(http.MethodGet, "/wallet/balance", nil)))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}
