package storage

// ApiStore defines the complete set of operations needed by the booking ledger.
// It composes other interfaces to provide a clear boundary for the ledger's data access.
type ApiStore interface {
	ReservationStore
	WalletStore
	LedgerReader
}
