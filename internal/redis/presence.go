package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const presenceKeyPrefix = "drivers:online:"

// PresenceStore tracks which drivers are online, indexed by vehicle class.
// It backs the availability view consumed by external matching
// collaborators; the accounts table stays the source of truth.
type PresenceStore struct {
	client *redis.Client
}

// NewPresenceStore creates a new PresenceStore.
func NewPresenceStore(client *redis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

// SetOnline adds a driver to the online set for its vehicle class.
func (s *PresenceStore) SetOnline(ctx context.Context, driverID, vehicleClass string) error {
	return s.client.SAdd(ctx, presenceKeyPrefix+vehicleClass, driverID).Err()
}

// SetOffline removes a driver from the online set for its vehicle class.
func (s *PresenceStore) SetOffline(ctx context.Context, driverID, vehicleClass string) error {
	return s.client.SRem(ctx, presenceKeyPrefix+vehicleClass, driverID).Err()
}

// IsOnline checks whether a driver is in the online set for a class.
func (s *PresenceStore) IsOnline(ctx context.Context, driverID, vehicleClass string) (bool, error) {
	return s.client.SIsMember(ctx, presenceKeyPrefix+vehicleClass, driverID).Result()
}

// OnlineDrivers returns all online driver IDs for a vehicle class.
func (s *PresenceStore) OnlineDrivers(ctx context.Context, vehicleClass string) ([]string, error) {
	return s.client.SMembers(ctx, presenceKeyPrefix+vehicleClass).Result()
}

// CountOnline returns the number of online drivers for a vehicle class.
func (s *PresenceStore) CountOnline(ctx context.Context, vehicleClass string) (int64, error) {
	return s.client.SCard(ctx, presenceKeyPrefix+vehicleClass).Result()
}
