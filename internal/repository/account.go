package repository

import (
	"context"

	"settle/internal/domain"
)

// AccountRepository defines the persistence operations for accounts.
//
// Debit and Credit are the only balance mutation primitives. Both must be
// atomic relative to concurrent calls against the same account; callers
// other than the ride ledger must not use them.
type AccountRepository interface {
	// Create adds a new account.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by email address.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetAll retrieves all accounts.
	GetAll(ctx context.Context) ([]*domain.Account, error)

	// UpdateProfile updates the non-financial fields of an account
	// (name, phone, vehicle descriptors, online/verified flags, rating).
	// It never touches the balance.
	UpdateProfile(ctx context.Context, account *domain.Account) error

	// Debit subtracts amount from the account balance. It does not reject
	// an operation that would drive the balance negative.
	Debit(ctx context.Context, id string, amount float64) error

	// Credit adds amount to the account balance.
	Credit(ctx context.Context, id string, amount float64) error
}
