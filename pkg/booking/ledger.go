// Package booking implements the reservation ledger: conflict-free station bookings
// paid from a prepaid wallet whose balance always matches its transaction log.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/station-bookings/pkg/events"
	"github.com/chris/station-bookings/pkg/lock"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/pricing"
	"github.com/chris/station-bookings/pkg/storage"
	"github.com/google/uuid"
)

// HistoryLimit bounds the reservation and transaction listings.
const HistoryLimit = 100

const (
	defaultMaxRetries    = 3
	defaultRetryDelay    = 10 * time.Millisecond
	defaultRetryMaxDelay = 200 * time.Millisecond
)

// Options tunes a Ledger. Zero values fall back to in-process defaults.
// A negative MaxRetries disables retries.
type Options struct {
	Locker        lock.Locker
	Publisher     events.Publisher
	Metrics       *Metrics
	Logger        *slog.Logger
	MaxRetries    int
	RetryDelay    time.Duration
	RetryMaxDelay time.Duration
	Now           func() time.Time
}

// Ledger owns every mutation of reservations and wallets.
type Ledger struct {
	store     storage.ApiStore
	pricing   *pricing.Engine
	locker    lock.Locker
	publisher events.Publisher
	metrics   *Metrics
	logger    *slog.Logger

	maxRetries    int
	retryDelay    time.Duration
	retryMaxDelay time.Duration
	now           func() time.Time
}

// New creates a Ledger over the given store and pricing engine.
func New(store storage.ApiStore, engine *pricing.Engine, opts Options) *Ledger {
	l := &Ledger{
		store:         store,
		pricing:       engine,
		locker:        opts.Locker,
		publisher:     opts.Publisher,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		maxRetries:    opts.MaxRetries,
		retryDelay:    opts.RetryDelay,
		retryMaxDelay: opts.RetryMaxDelay,
		now:           opts.Now,
	}
	if l.locker == nil {
		l.locker = lock.NewKeyedMutex()
	}
	if l.publisher == nil {
		l.publisher = events.NoOpPublisher{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	switch {
	case l.maxRetries == 0:
		l.maxRetries = defaultMaxRetries
	case l.maxRetries < 0:
		l.maxRetries = 0
	}
	if l.retryDelay <= 0 {
		l.retryDelay = defaultRetryDelay
	}
	if l.retryMaxDelay <= l.retryDelay {
		l.retryMaxDelay = max(defaultRetryMaxDelay, 2*l.retryDelay)
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// wallet returns the user's wallet, or an empty one at version zero if they never topped up.
func (l *Ledger) wallet(ctx context.Context, userID string) (*models.Wallet, error) {
	w, err := l.store.GetWallet(ctx, userID)
	if errors.Is(err, storage.ErrWalletNotFound) {
		return &models.Wallet{UserId: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

// GetBalance returns the user's balance, zero when they have no wallet.
func (l *Ledger) GetBalance(ctx context.Context, userID string) (models.Amount, error) {
	if userID == "" {
		return 0, invalid("user id is required")
	}
	w, err := l.wallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// ListTransactions returns the user's most recent wallet transactions, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, userID string) ([]models.WalletTransaction, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	txs, err := l.store.ListWalletTransactions(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// ListUserReservations returns the user's most recent reservations, newest first.
func (l *Ledger) ListUserReservations(ctx context.Context, userID string) ([]models.Reservation, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	res, err := l.store.ListReservationsByUser(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return res, nil
}

func newID() string {
	return uuid.NewString()
}
