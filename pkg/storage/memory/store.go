// Package memory provides an in-process Storage used for local runs and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/storage"
)

// Store keeps every record in maps guarded by a single mutex.
// Commits check the same versions the DynamoDB store conditions on.
type Store struct {
	mu           sync.RWMutex
	stationDays  map[string]models.StationDay
	reservations map[string]models.Reservation
	wallets      map[string]models.Wallet
	transactions map[string]models.WalletTransaction
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		stationDays:  make(map[string]models.StationDay),
		reservations: make(map[string]models.Reservation),
		wallets:      make(map[string]models.Wallet),
		transactions: make(map[string]models.WalletTransaction),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) GetStationDay(_ context.Context, station models.Station, date string) (*models.StationDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := models.SlotKey(station, date)
	day, ok := s.stationDays[key]
	if !ok {
		return &models.StationDay{SlotKey: key, Station: station, Date: date}, nil
	}
	day.Intervals = append([]models.Interval(nil), day.Intervals...)
	return &day, nil
}

func (s *Store) GetReservation(_ context.Context, id string) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, storage.ErrReservationNotFound)
	}
	return &res, nil
}

func (s *Store) ListReservationsByUser(_ context.Context, userID string, limit int32) ([]models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Reservation
	for _, res := range s.reservations {
		if res.UserId == userID {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (s *Store) GetWallet(_ context.Context, userID string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[userID]
	if !ok {
		return nil, storage.ErrWalletNotFound
	}
	return &w, nil
}

func (s *Store) ListWallets(_ context.Context) ([]models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserId < out[j].UserId })
	return out, nil
}

func (s *Store) ListWalletTransactions(_ context.Context, userID string, limit int32) ([]models.WalletTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.WalletTransaction
	for _, tx := range s.transactions {
		if tx.UserId == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return truncate(out, limit), nil
}

// CommitBooking applies the booking only if every expected version still matches.
func (s *Store) CommitBooking(_ context.Context, commit *models.BookingCommit) error {
	if commit == nil || commit.Reservation == nil {
		return errors.New("booking commit requires a reservation")
	}
	res := *commit.Reservation

	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.stationDays[res.SlotKey]
	if day.Version != commit.ExpectedStationDayVersion {
		return fmt.Errorf("%w: station day %s at version %d, expected %d", storage.ErrContention, res.SlotKey, day.Version, commit.ExpectedStationDayVersion)
	}
	if _, exists := s.reservations[res.Id]; exists {
		return fmt.Errorf("%w: reservation %s already exists", storage.ErrContention, res.Id)
	}

	var wallet models.Wallet
	if tx := commit.Transaction; tx != nil {
		w, ok := s.wallets[tx.UserId]
		if !ok || w.Version != commit.ExpectedWalletVersion || w.Balance < res.TotalPrice {
			return fmt.Errorf("%w: wallet %s changed or cannot cover %s", storage.ErrContention, tx.UserId, res.TotalPrice)
		}
		if _, exists := s.transactions[tx.Id]; exists {
			return fmt.Errorf("%w: transaction %s already exists", storage.ErrContention, tx.Id)
		}
		wallet = w
	}

	// All checks passed; nothing below can fail.
	day.SlotKey = res.SlotKey
	day.Station = res.Station
	day.Date = res.Date
	day.Intervals = append(append([]models.Interval(nil), day.Intervals...), models.Interval{
		Start:         res.StartMinute,
		End:           res.EndMinute,
		ReservationId: res.Id,
	})
	day.Version++
	s.stationDays[res.SlotKey] = day
	s.reservations[res.Id] = res

	if tx := commit.Transaction; tx != nil {
		wallet.Balance -= res.TotalPrice
		wallet.Version++
		wallet.UpdatedAt = tx.Timestamp
		s.wallets[tx.UserId] = wallet
		s.transactions[tx.Id] = *tx
	}
	return nil
}

// CommitTopup credits the wallet, creating it when the expected version is zero.
func (s *Store) CommitTopup(_ context.Context, commit *models.TopupCommit) error {
	if commit == nil || commit.Transaction == nil {
		return errors.New("topup commit requires a transaction")
	}
	tx := *commit.Transaction

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[tx.UserId]
	if ok != (commit.ExpectedWalletVersion > 0) || w.Version != commit.ExpectedWalletVersion {
		return fmt.Errorf("%w: wallet %s at version %d, expected %d", storage.ErrContention, tx.UserId, w.Version, commit.ExpectedWalletVersion)
	}
	if _, exists := s.transactions[tx.Id]; exists {
		return fmt.Errorf("%w: transaction %s already exists", storage.ErrContention, tx.Id)
	}

	w.UserId = tx.UserId
	w.Balance += tx.FinalAmount
	w.Version++
	w.UpdatedAt = tx.Timestamp
	s.wallets[tx.UserId] = w
	s.transactions[tx.Id] = tx
	return nil
}

func truncate[T any](items []T, limit int32) []T {
	if limit > 0 && len(items) > int(limit) {
		return items[:limit]
	}
	return items
}
