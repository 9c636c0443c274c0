// Package pricing computes the cost of a station reservation.
package pricing

import (
	"errors"
	"fmt"

	"github.com/chris/station-bookings/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	MinControllers = 1
	MaxControllers = 4
)

// AllowedDurations lists the bookable session lengths in minutes.
var AllowedDurations = []int{30, 60, 120, 180}

var (
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidControllers = fmt.Errorf("controllers must be between %d and %d", MinControllers, MaxControllers)
)

// Rates holds the hourly charges applied to a reservation.
type Rates struct {
	// HourlyBase is charged per hour per station regardless of controllers.
	HourlyBase decimal.Decimal
	// ExtraController is charged per hour for every controller beyond the first.
	ExtraController decimal.Decimal
}

// DefaultRates returns the standard tariff.
func DefaultRates() Rates {
	return Rates{
		HourlyBase:      decimal.NewFromInt(149),
		ExtraController: decimal.NewFromInt(40),
	}
}

// Quote is the cost breakdown of a reservation.
type Quote struct {
	BasePrice         models.Amount `json:"base_price"`
	ControllerCharges models.Amount `json:"controller_charges"`
	TotalPrice        models.Amount `json:"total_price"`
}

// Engine prices reservations with a fixed set of rates.
type Engine struct {
	rates Rates
}

// NewEngine creates a new Engine.
func NewEngine(rates Rates) *Engine {
	return &Engine{rates: rates}
}

// Validate checks duration and controller count against the bookable sets.
func Validate(durationMinutes, controllers int) error {
	if !validDuration(durationMinutes) {
		return ErrInvalidDuration
	}
	if controllers < MinControllers || controllers > MaxControllers {
		return ErrInvalidControllers
	}
	return nil
}

func validDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// Price computes the cost breakdown. Inputs must have passed Validate.
// Intermediate values are exact; each output is rounded half-up to cents.
func (e *Engine) Price(durationMinutes, controllers int) Quote {
	hours := decimal.NewFromInt(int64(durationMinutes)).Div(decimal.NewFromInt(60))
	base := e.rates.HourlyBase.Mul(hours)

	extra := int64(controllers - 1)
	if extra < 0 {
		extra = 0
	}
	charges := e.rates.ExtraController.Mul(decimal.NewFromInt(extra)).Mul(hours)

	return Quote{
		BasePrice:         models.AmountFromDecimal(base),
		ControllerCharges: models.AmountFromDecimal(charges),
		TotalPrice:        models.AmountFromDecimal(base.Add(charges)),
	}
}
