package repository

import (
	"context"

	"settle/internal/domain"
)

// SettlementRepository defines the persistence operations for settlements.
type SettlementRepository interface {
	// Create persists a new settlement.
	Create(ctx context.Context, settlement *domain.Settlement) error

	// GetByRideID retrieves the settlement for a completed ride.
	GetByRideID(ctx context.Context, rideID string) (*domain.Settlement, error)
}
