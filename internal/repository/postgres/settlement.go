package postgres

import (
	"context"
	"database/sql"
	"errors"

	"settle/internal/domain"
	"settle/internal/repository"
)

// SettlementRepository is a PostgreSQL implementation of repository.SettlementRepository.
type SettlementRepository struct {
	q Querier
}

// NewSettlementRepository creates a new PostgreSQL settlement repository.
func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{q: db}
}

// NewSettlementRepositoryWithTx creates a settlement repository using a transaction.
func NewSettlementRepositoryWithTx(tx *sql.Tx) *SettlementRepository {
	return &SettlementRepository{q: tx}
}

// Create persists a new settlement.
func (r *SettlementRepository) Create(ctx context.Context, settlement *domain.Settlement) error {
	query := `
		INSERT INTO settlements (id, ride_id, driver_id, gross_fare, driver_share, commission, commission_pct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		settlement.ID,
		settlement.RideID,
		settlement.DriverID,
		settlement.GrossFare,
		settlement.DriverShare,
		settlement.Commission,
		settlement.CommissionPct,
		settlement.CreatedAt,
	)
	return err
}

// GetByRideID retrieves the settlement for a completed ride.
func (r *SettlementRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Settlement, error) {
	query := `
		SELECT id, ride_id, driver_id, gross_fare, driver_share, commission, commission_pct, created_at
		FROM settlements WHERE ride_id = $1
	`

	var s domain.Settlement
	err := r.q.QueryRowContext(ctx, query, rideID).Scan(
		&s.ID,
		&s.RideID,
		&s.DriverID,
		&s.GrossFare,
		&s.DriverShare,
		&s.Commission,
		&s.CommissionPct,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
