package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"settle/internal/domain"
	"settle/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, rider_id, driver_id, pickup, dropoff, distance_km, fare, vehicle_class, status, cancelled_at, cancel_reason, created_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, driver_id, pickup, dropoff, distance_km, fare, vehicle_class, status, cancelled_at, cancel_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.Pickup,
		ride.Dropoff,
		ride.DistanceKm,
		ride.Fare,
		ride.VehicleClass,
		ride.Status,
		nullTime(ride.CancelledAt),
		nullString(ride.CancelReason),
		ride.CreatedAt,
	)
	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRideRow(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetByAccount retrieves all rides where the account is the rider or the
// assigned driver, newest first.
func (r *RideRepository) GetByAccount(ctx context.Context, accountID string) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE rider_id = $1 OR driver_id = $1
		ORDER BY created_at DESC
	`
	return r.queryRides(ctx, query, accountID)
}

// GetPendingByVehicleClass retrieves all REQUESTED rides of a class.
func (r *RideRepository) GetPendingByVehicleClass(ctx context.Context, class domain.VehicleClass) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE status = $1 AND vehicle_class = $2
		ORDER BY created_at ASC
	`
	return r.queryRides(ctx, query, domain.RideStatusRequested, class)
}

// TransitionStatus moves a ride between statuses with a compare-and-swap on
// the current status. The guard in the WHERE clause is what makes double
// completion impossible even under concurrent callers.
func (r *RideRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RideStatus) (bool, error) {
	query := `UPDATE rides SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return r.applied(ctx, result, id)
}

// AssignDriver sets the driver and moves the ride from REQUESTED to ACCEPTED.
func (r *RideRepository) AssignDriver(ctx context.Context, id, driverID string) (bool, error) {
	query := `
		UPDATE rides SET status = $1, driver_id = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query, domain.RideStatusAccepted, driverID, id, domain.RideStatusRequested)
	if err != nil {
		return false, err
	}
	return r.applied(ctx, result, id)
}

// Cancel moves the ride to CANCELLED from the given status.
func (r *RideRepository) Cancel(ctx context.Context, id string, from domain.RideStatus, reason string) (bool, error) {
	query := `
		UPDATE rides SET status = $1, cancelled_at = $2, cancel_reason = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query, domain.RideStatusCancelled, time.Now(), nullString(reason), id, from)
	if err != nil {
		return false, err
	}
	return r.applied(ctx, result, id)
}

// applied distinguishes "guard did not match" from "ride does not exist"
// after a conditional update touched zero rows.
func (r *RideRepository) applied(ctx context.Context, result sql.Result, id string) (bool, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected > 0 {
		return true, nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rides WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRideRow(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func scanRideRow(s scanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, cancelReason sql.NullString
	var cancelledAt sql.NullTime

	err := s.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.Pickup,
		&ride.Dropoff,
		&ride.DistanceKm,
		&ride.Fare,
		&ride.VehicleClass,
		&ride.Status,
		&cancelledAt,
		&cancelReason,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}
	if cancelReason.Valid {
		ride.CancelReason = cancelReason.String
	}
	return &ride, nil
}
