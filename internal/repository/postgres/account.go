package postgres

import (
	"context"
	"database/sql"
	"errors"

	"settle/internal/domain"
	"settle/internal/repository"
)

// AccountRepository is a PostgreSQL implementation of repository.AccountRepository.
type AccountRepository struct {
	q Querier
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{q: db}
}

// NewAccountRepositoryWithTx creates an account repository using a transaction.
func NewAccountRepositoryWithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `id, role, name, email, phone, balance, rating, vehicle, vehicle_class, online, verified, created_at`

// Create adds a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, role, name, email, phone, balance, rating, vehicle, vehicle_class, online, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var vehicle, vehicleClass sql.NullString
	var online, verified bool
	if account.Driver != nil {
		vehicle = nullString(account.Driver.Vehicle)
		vehicleClass = nullString(string(account.Driver.VehicleClass))
		online = account.Driver.Online
		verified = account.Driver.Verified
	}

	_, err := r.q.ExecContext(ctx, query,
		account.ID,
		account.Role,
		account.Name,
		account.Email,
		account.Phone,
		account.Balance,
		account.Rating,
		vehicle,
		vehicleClass,
		online,
		verified,
		account.CreatedAt,
	)
	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, email))
}

// GetAll retrieves all accounts.
func (r *AccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// UpdateProfile updates the non-financial fields of an account.
// The balance column is deliberately absent from the statement.
func (r *AccountRepository) UpdateProfile(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, phone = $2, rating = $3, vehicle = $4, vehicle_class = $5, online = $6, verified = $7
		WHERE id = $8
	`

	var vehicle, vehicleClass sql.NullString
	var online, verified bool
	if account.Driver != nil {
		vehicle = nullString(account.Driver.Vehicle)
		vehicleClass = nullString(string(account.Driver.VehicleClass))
		online = account.Driver.Online
		verified = account.Driver.Verified
	}

	result, err := r.q.ExecContext(ctx, query,
		account.Name,
		account.Phone,
		account.Rating,
		vehicle,
		vehicleClass,
		online,
		verified,
		account.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Debit subtracts amount from the account balance in a single statement so
// concurrent debits and credits against the same account never lose an
// update. Overdraft is permitted.
func (r *AccountRepository) Debit(ctx context.Context, id string, amount float64) error {
	return r.adjustBalance(ctx, id, -amount)
}

// Credit adds amount to the account balance.
func (r *AccountRepository) Credit(ctx context.Context, id string, amount float64) error {
	return r.adjustBalance(ctx, id, amount)
}

func (r *AccountRepository) adjustBalance(ctx context.Context, id string, delta float64) error {
	query := `UPDATE accounts SET balance = balance + $1 WHERE id = $2`
	result, err := r.q.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	account, err := scanAccountRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func scanAccountRow(s scanner) (*domain.Account, error) {
	var account domain.Account
	var vehicle, vehicleClass sql.NullString
	var online, verified bool

	err := s.Scan(
		&account.ID,
		&account.Role,
		&account.Name,
		&account.Email,
		&account.Phone,
		&account.Balance,
		&account.Rating,
		&vehicle,
		&vehicleClass,
		&online,
		&verified,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if account.Role == domain.RoleDriver {
		account.Driver = &domain.DriverProfile{
			Vehicle:      vehicle.String,
			VehicleClass: domain.VehicleClass(vehicleClass.String),
			Online:       online,
			Verified:     verified,
		}
	}
	return &account, nil
}
