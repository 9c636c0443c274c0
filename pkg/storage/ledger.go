package storage

import (
	"context"

	"github.com/chris/station-bookings/pkg/models"
)

// LedgerReader defines the interface for reading wallet ledger entries.
type LedgerReader interface {
	// ListWalletTransactions retrieves a user's transactions, newest first.
	// A limit of zero returns the complete history.
	ListWalletTransactions(ctx context.Context, userID string, limit int32) ([]models.WalletTransaction, error)
}

// ReconciliationStore is the read-only view used to audit wallets against their ledger.
type ReconciliationStore interface {
	LedgerReader

	// ListWallets retrieves every wallet in the storage.
	ListWallets(ctx context.Context) ([]models.Wallet, error)
}
