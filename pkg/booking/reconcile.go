package booking

import (
	"context"
	"fmt"

	"github.com/chris/station-bookings/pkg/lock"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/storage"
)

// Reconciliation compares a wallet's balance with the sum of its transaction log.
type Reconciliation struct {
	UserId           string        `json:"user_id"`
	Balance          models.Amount `json:"balance"`
	TransactionSum   models.Amount `json:"transaction_sum"`
	TransactionCount int           `json:"transaction_count"`
	Balanced         bool          `json:"balanced"`
}

// ReconcileWallet sums the complete transaction log of wallet's owner.
func ReconcileWallet(ctx context.Context, reader storage.LedgerReader, wallet models.Wallet) (*Reconciliation, error) {
	txs, err := reader.ListWalletTransactions(ctx, wallet.UserId, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", wallet.UserId, err)
	}

	var sum models.Amount
	for _, tx := range txs {
		sum += tx.FinalAmount
	}

	return &Reconciliation{
		UserId:           wallet.UserId,
		Balance:          wallet.Balance,
		TransactionSum:   sum,
		TransactionCount: len(txs),
		Balanced:         sum == wallet.Balance,
	}, nil
}

// Reconcile checks one user's wallet against their transactions.
// The wallet lock is held so no commit lands between the two reads.
func (l *Ledger) Reconcile(ctx context.Context, userID string) (*Reconciliation, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}

	unlock, err := l.locker.Lock(ctx, lock.WalletKey(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContention, err)
	}
	defer unlock()

	wallet, err := l.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := ReconcileWallet(ctx, l.store, *wallet)
	if err != nil {
		return nil, err
	}
	if !rec.Balanced {
		l.logger.Error("Wallet does not reconcile with its transactions",
			"user_id", userID,
			"balance", rec.Balance.String(),
			"transaction_sum", rec.TransactionSum.String(),
		)
	}
	return rec, nil
}
