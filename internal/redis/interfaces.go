package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed ride locking.
type LockStoreInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// PresenceStoreInterface defines the interface for the online-driver index.
type PresenceStoreInterface interface {
	SetOnline(ctx context.Context, driverID, vehicleClass string) error
	SetOffline(ctx context.Context, driverID, vehicleClass string) error
	IsOnline(ctx context.Context, driverID, vehicleClass string) (bool, error)
	OnlineDrivers(ctx context.Context, vehicleClass string) ([]string, error)
	CountOnline(ctx context.Context, vehicleClass string) (int64, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ PresenceStoreInterface = (*PresenceStore)(nil)
)
