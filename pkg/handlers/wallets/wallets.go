package wallets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/mapping"
	"github.com/chris/station-bookings/pkg/middleware"
	"github.com/chris/station-bookings/pkg/models"
)

// Service is the part of the ledger the wallet handlers call.
type Service interface {
	TopupWallet(ctx context.Context, userID string, amount models.Amount) (*booking.TopupResult, error)
	GetBalance(ctx context.Context, userID string) (models.Amount, error)
}

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Service Service
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(service Service) *WalletsHandler {
	return &WalletsHandler{Service: service}
}

// TopupWallet credits the calling user's wallet.
func (h *WalletsHandler) TopupWallet(w http.ResponseWriter, r *http.Request) {
	var topup mapping.NewTopup
	if err := json.NewDecoder(r.Body).Decode(&topup); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.Service.TopupWallet(r.Context(), middleware.UserID(r.Context()), topup.Amount)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to top up wallet: %v", err), mapping.ErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetBalance returns the calling user's balance.
func (h *WalletsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	balance, err := h.Service.GetBalance(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve balance: %v", err), mapping.ErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiBalance(userID, balance)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
