package storage

import (
	"context"

	"github.com/chris/station-bookings/pkg/models"
)

// WalletStore defines the interface for reading and crediting wallets.
type WalletStore interface {
	// GetWallet retrieves a user's wallet by their user ID.
	// It returns ErrWalletNotFound when the user has never topped up.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// CommitTopup atomically credits the wallet and appends the topup transaction.
	// It returns ErrContention when the wallet version no longer matches.
	CommitTopup(ctx context.Context, commit *models.TopupCommit) error
}
