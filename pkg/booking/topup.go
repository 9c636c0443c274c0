package booking

import (
	"context"
	"fmt"
	"math"

	"github.com/chris/station-bookings/pkg/lock"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/shopspring/decimal"
)

// Bonus tiers, highest first. Thresholds apply to the gross topup.
var bonusTiers = []struct {
	threshold models.Amount
	percent   int64
}{
	{threshold: models.NewAmount(1000), percent: 10},
	{threshold: models.NewAmount(500), percent: 5},
}

// TopupResult describes a completed topup.
type TopupResult struct {
	AmountPaid      models.Amount `json:"amount_paid"`
	Bonus           models.Amount `json:"bonus"`
	BonusPercentage int64         `json:"bonus_percentage"`
	FinalAmount     models.Amount `json:"final_amount"`
	NewBalance      models.Amount `json:"new_balance"`
}

// Bonus returns the bonus earned by a gross topup and the percentage applied.
func Bonus(amount models.Amount) (models.Amount, int64) {
	for _, tier := range bonusTiers {
		if amount >= tier.threshold {
			bonus := amount.Decimal().Mul(decimal.NewFromInt(tier.percent)).Div(decimal.NewFromInt(100))
			return models.AmountFromDecimal(bonus), tier.percent
		}
	}
	return 0, 0
}

// TopupWallet credits the gross amount plus its bonus and records a topup transaction.
func (l *Ledger) TopupWallet(ctx context.Context, userID string, amount models.Amount) (*TopupResult, error) {
	if userID == "" {
		err := invalid("user id is required")
		l.metrics.IncTopup(outcome(err))
		return nil, err
	}
	if amount <= 0 {
		err := invalid("topup amount must be positive, got %s", amount)
		l.metrics.IncTopup(outcome(err))
		return nil, err
	}
	if amount > models.MaxAmount {
		err := invalid("topup amount %s exceeds the maximum of %s", amount, models.MaxAmount)
		l.metrics.IncTopup(outcome(err))
		return nil, err
	}

	bonus, pct := Bonus(amount)
	result, err := withRetry(ctx, l, "topup", func() (*TopupResult, error) {
		return l.tryTopup(ctx, userID, amount, bonus, pct)
	})
	l.metrics.IncTopup(outcome(err))
	if err != nil {
		return nil, err
	}

	l.logger.Info("Wallet topped up",
		"user_id", userID,
		"amount", amount.String(),
		"bonus", bonus.String(),
		"new_balance", result.NewBalance.String(),
	)
	return result, nil
}

func (l *Ledger) tryTopup(ctx context.Context, userID string, amount, bonus models.Amount, pct int64) (*TopupResult, error) {
	unlock, err := l.locker.Lock(ctx, lock.WalletKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	wallet, err := l.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	final := amount + bonus
	if wallet.Balance > math.MaxInt64-final {
		return nil, invalid("topup of %s would overflow the balance of wallet %s", final, userID)
	}
	tx := &models.WalletTransaction{
		Id:          newID(),
		UserId:      userID,
		Amount:      amount,
		Bonus:       bonus,
		FinalAmount: final,
		Kind:        models.KindTopup,
		Timestamp:   l.now().UTC(),
	}
	if err := l.store.CommitTopup(ctx, &models.TopupCommit{Transaction: tx, ExpectedWalletVersion: wallet.Version}); err != nil {
		return nil, fmt.Errorf("failed to commit topup: %w", err)
	}

	return &TopupResult{
		AmountPaid:      amount,
		Bonus:           bonus,
		BonusPercentage: pct,
		FinalAmount:     final,
		NewBalance:      wallet.Balance + final,
	}, nil
}
