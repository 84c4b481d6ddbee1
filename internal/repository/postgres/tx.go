package postgres

import (
	"context"
	"database/sql"

	"settle/internal/repository"
)

// TxRunner runs callbacks inside a PostgreSQL transaction with
// transaction-scoped repositories.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithinTx begins a transaction, hands transaction-scoped repositories to
// fn, and commits if fn returns nil. Any error rolls the transaction back.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(repository.Repos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.Repos{
		Accounts:    NewAccountRepositoryWithTx(tx),
		Rides:       NewRideRepositoryWithTx(tx),
		Settlements: NewSettlementRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
