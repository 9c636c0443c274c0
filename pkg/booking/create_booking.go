package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/station-bookings/pkg/events"
	"github.com/chris/station-bookings/pkg/lock"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/pricing"
)

// BookingRequest is a user's request to reserve a station.
type BookingRequest struct {
	UserId          string
	Date            string
	StartTime       string
	DurationMinutes int
	Station         models.Station
	Controllers     int
	PaymentMethod   models.PaymentMethod
}

// slot is a validated request resolved to minutes after midnight.
type slot struct {
	BookingRequest
	slotKey string
	start   int
	end     int
}

func (r BookingRequest) validate() (*slot, error) {
	if r.UserId == "" {
		return nil, invalid("user id is required")
	}
	if !r.Station.Valid() {
		return nil, invalid("station must be %d or %d", models.StationOne, models.StationTwo)
	}
	if err := pricing.Validate(r.DurationMinutes, r.Controllers); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.PaymentMethod != models.PaymentWallet && r.PaymentMethod != models.PaymentMock {
		return nil, invalid("payment method must be %q or %q", models.PaymentWallet, models.PaymentMock)
	}
	if err := validateDate(r.Date); err != nil {
		return nil, err
	}
	start, err := models.ParseClock(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	end := start + r.DurationMinutes
	if end > models.MinutesPerDay {
		return nil, invalid("booking from %s for %d minutes runs past midnight", r.StartTime, r.DurationMinutes)
	}
	return &slot{
		BookingRequest: r,
		slotKey:        models.SlotKey(r.Station, r.Date),
		start:          start,
		end:            end,
	}, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return invalid("date %q must be formatted as YYYY-MM-DD", date)
	}
	return nil
}

// CreateBooking reserves a station for the requested interval and, for wallet payments,
// debits the price in the same atomic commit.
func (l *Ledger) CreateBooking(ctx context.Context, req BookingRequest) (*models.Reservation, error) {
	s, err := req.validate()
	if err != nil {
		l.metrics.IncBooking(outcome(err))
		return nil, err
	}

	res, err := withRetry(ctx, l, "booking", func() (*models.Reservation, error) {
		return l.tryBooking(ctx, s)
	})
	l.metrics.IncBooking(outcome(err))
	if err != nil {
		return nil, err
	}

	l.logger.Info("Booking created",
		"reservation_id", res.Id,
		"user_id", res.UserId,
		"station", res.Station,
		"date", res.Date,
		"start_time", res.StartTime,
		"total_price", res.TotalPrice.String(),
		"payment_method", res.PaymentMethod,
	)

	if err := l.publisher.PublishBookingConfirmed(ctx, events.NewBookingConfirmed(res)); err != nil {
		l.logger.Error("Failed to publish booking confirmation", "reservation_id", res.Id, "error", err)
	}

	return res, nil
}

// tryBooking performs one locked read-check-commit attempt.
func (l *Ledger) tryBooking(ctx context.Context, s *slot) (*models.Reservation, error) {
	unlockDay, err := l.locker.Lock(ctx, lock.StationDayKey(s.slotKey))
	if err != nil {
		return nil, err
	}
	defer unlockDay()

	day, err := l.store.GetStationDay(ctx, s.Station, s.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to read station day: %w", err)
	}
	for _, iv := range day.Intervals {
		if iv.Overlaps(s.start, s.end) {
			return nil, &SlotConflictError{
				Station:   s.Station,
				Date:      s.Date,
				StartTime: models.FormatClock(iv.Start),
				EndTime:   models.FormatClock(iv.End),
			}
		}
	}

	quote := l.pricing.Price(s.DurationMinutes, s.Controllers)
	now := l.now().UTC()
	res := &models.Reservation{
		Id:                newID(),
		UserId:            s.UserId,
		SlotKey:           s.slotKey,
		Station:           s.Station,
		Date:              s.Date,
		StartTime:         models.FormatClock(s.start),
		EndTime:           models.FormatClock(s.end),
		StartMinute:       s.start,
		EndMinute:         s.end,
		DurationMinutes:   s.DurationMinutes,
		Controllers:       s.Controllers,
		BasePrice:         quote.BasePrice,
		ControllerCharges: quote.ControllerCharges,
		TotalPrice:        quote.TotalPrice,
		PaymentMethod:     s.PaymentMethod,
		PaymentStatus:     models.PaymentCompleted,
		CreatedAt:         now,
	}
	commit := &models.BookingCommit{
		Reservation:               res,
		ExpectedStationDayVersion: day.Version,
	}

	if s.PaymentMethod == models.PaymentWallet {
		unlockWallet, err := l.locker.Lock(ctx, lock.WalletKey(s.UserId))
		if err != nil {
			return nil, err
		}
		defer unlockWallet()

		wallet, err := l.wallet(ctx, s.UserId)
		if err != nil {
			return nil, err
		}
		if wallet.Balance < quote.TotalPrice {
			return nil, fmt.Errorf("%w: balance %s is below the price %s", ErrInsufficientFunds, wallet.Balance, quote.TotalPrice)
		}
		commit.ExpectedWalletVersion = wallet.Version
		commit.Transaction = &models.WalletTransaction{
			Id:            newID(),
			UserId:        s.UserId,
			Amount:        -quote.TotalPrice,
			FinalAmount:   -quote.TotalPrice,
			Kind:          models.KindBooking,
			ReservationId: res.Id,
			Timestamp:     now,
		}
	}

	if err := l.store.CommitBooking(ctx, commit); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}
	return res, nil
}
