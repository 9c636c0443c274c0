package ledger

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

// Service is the part of the ledger that reads wallet history.
type Service interface {
	ListTransactions(ctx context.Context, userID string) ([]models.WalletTransaction, error)
	Reconcile(ctx context.Context, userID string) (*booking.Reconciliation, error)
}

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Service Service
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(service Service) *LedgerHandler {
	return &LedgerHandler{Service: service}
}

// ListTransactions returns the calling user's most recent wallet transactions.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Service.ListTransactions(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), mapping.ErrorStatus(err))
		return
	}
	if txs == nil {
		txs = []models.WalletTransaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(txs); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetReconciliation compares the calling user's balance with their transaction log.
func (h *LedgerHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Reconcile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to reconcile wallet: %v", err), mapping.ErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
