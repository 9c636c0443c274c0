package storage

import "errors"

// ErrContention is returned when an atomic commit was rejected because a station day or
// wallet changed since it was read. The whole attempt may be retried.
var ErrContention = errors.New("storage contention")

// ErrWalletNotFound is returned when a user has never funded a wallet.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrReservationNotFound is returned when a reservation id is unknown.
var ErrReservationNotFound = errors.New("reservation not found")
