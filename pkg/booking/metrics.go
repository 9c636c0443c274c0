package booking

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ledger outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Bookings      *prometheus.CounterVec
	Topups        *prometheus.CounterVec
	CommitRetries *prometheus.CounterVec
}

// NewMetrics creates the ledger counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Bookings: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "station_bookings_total", Help: "Booking attempts by outcome."},
			[]string{"outcome"},
		),
		Topups: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "wallet_topups_total", Help: "Wallet topups by outcome."},
			[]string{"outcome"},
		),
		CommitRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ledger_commit_retries_total", Help: "Commits retried after contention."},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Bookings, m.Topups, m.CommitRetries)
	}
	return m
}

func (m *Metrics) IncBooking(outcome string) {
	if m == nil || m.Bookings == nil {
		return
	}

	m.Bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncTopup(outcome string) {
	if m == nil || m.Topups == nil {
		return
	}

	m.Topups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncRetry(operation string) {
	if m == nil || m.CommitRetries == nil {
		return
	}

	m.CommitRetries.WithLabelValues(operation).Inc()
}

// outcome labels a finished operation for the counters.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, ErrSlotConflict):
		return "conflict"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrContention):
		return "contention"
	default:
		return "error"
	}
}
