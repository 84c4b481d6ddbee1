package repository

import (
	"context"

	"settle/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByAccount retrieves all rides where the account is the rider or
	// the assigned driver, ordered newest-first.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.Ride, error)

	// GetPendingByVehicleClass retrieves all REQUESTED rides of a class.
	GetPendingByVehicleClass(ctx context.Context, class domain.VehicleClass) ([]*domain.Ride, error)

	// TransitionStatus moves a ride from one status to another. It reports
	// whether the transition was applied; false means the ride was not in
	// the expected source status. Returns ErrNotFound for unknown ids.
	TransitionStatus(ctx context.Context, id string, from, to domain.RideStatus) (bool, error)

	// AssignDriver sets the driver and moves the ride from REQUESTED to
	// ACCEPTED with the same applied/not-applied semantics as
	// TransitionStatus.
	AssignDriver(ctx context.Context, id, driverID string) (bool, error)

	// Cancel moves the ride to CANCELLED from one of the cancellable
	// statuses, recording when and why.
	Cancel(ctx context.Context, id string, from domain.RideStatus, reason string) (bool, error)
}
