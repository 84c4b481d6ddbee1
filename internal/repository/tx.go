package repository

import "context"

// Repos bundles the repositories that participate in a single transaction.
type Repos struct {
	Accounts    AccountRepository
	Rides       RideRepository
	Settlements SettlementRepository
}

// TxRunner executes a function against transaction-scoped repositories.
// The callback's writes are committed together or not at all; returning an
// error rolls everything back. The ledger uses this so a ride insert and
// its balance debit can never be observed half-applied.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(Repos) error) error
}
