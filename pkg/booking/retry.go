package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/station-bookings/pkg/lock"
	"github.com/chris/station-bookings/pkg/storage"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// withRetry runs attempt again whenever its commit lost a version race.
// Every other error, including conflicts and insufficient funds, ends the loop.
func withRetry[T any](ctx context.Context, l *Ledger, op string, attempt func() (T, error)) (T, error) {
	policy := retrypolicy.NewBuilder[T]().
		HandleErrors(storage.ErrContention).
		WithMaxRetries(l.maxRetries).
		WithBackoff(l.retryDelay, l.retryMaxDelay).
		WithJitterFactor(0.1).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[T]) {
			l.metrics.IncRetry(op)
			l.logger.Debug("Retrying commit after contention", "operation", op, "attempt", e.Attempts(), "error", e.LastError())
		}).
		Build()

	result, err := failsafe.With[T](policy).WithContext(ctx).Get(attempt)
	if errors.Is(err, lock.ErrNotAcquired) {
		return result, fmt.Errorf("%w: %w", ErrContention, err)
	}
	return result, err
}
