package models

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor units (hundredths of the unit of account).
type Amount int64

// MaxUnits bounds the magnitude of any amount accepted from a client.
const MaxUnits = 1_000_000_000_000

// MaxAmount is MaxUnits in minor units.
const MaxAmount = Amount(MaxUnits * 100)

// ErrAmountOutOfRange is returned when a decoded amount exceeds MaxUnits in magnitude.
var ErrAmountOutOfRange = errors.New("amount out of range")

var maxUnits = decimal.NewFromInt(MaxUnits)

// AmountFromDecimal rounds d half-up to two places and converts it to an Amount.
// Callers bound d to MaxUnits first.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Round(2).Shift(2).IntPart())
}

// NewAmount converts a whole number of units into an Amount.
func NewAmount(units int64) Amount {
	return Amount(units * 100)
}

// Decimal returns the amount in units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(data, `"`)
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", data, err)
	}
	if d.Abs().GreaterThan(maxUnits) {
		return fmt.Errorf("%w: %s exceeds %d", ErrAmountOutOfRange, raw, MaxUnits)
	}
	*a = AmountFromDecimal(d)
	return nil
}
