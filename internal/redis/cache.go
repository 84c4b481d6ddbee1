package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis. Handlers read through it on
// GET paths; the ledger invalidates entries on every balance or status
// mutation so stale financial state is never served longer than the TTL.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	AccountCacheTTL = 30 * time.Second // balances change on every settlement
	RideCacheTTL    = 10 * time.Second // ride status changes during assignment
)

// Key prefixes
const (
	accountCachePrefix = "cache:account:"
	rideCachePrefix    = "cache:ride:"
)

// CachedAccount represents a cached account entity.
type CachedAccount struct {
	ID      string  `json:"id"`
	Role    string  `json:"role"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Balance float64 `json:"balance"`
	Rating  float64 `json:"rating"`
}

// CachedRide represents a cached ride entity.
type CachedRide struct {
	ID           string  `json:"id"`
	RiderID      string  `json:"rider_id"`
	DriverID     string  `json:"driver_id"`
	Pickup       string  `json:"pickup"`
	Dropoff      string  `json:"dropoff"`
	DistanceKm   float64 `json:"distance_km"`
	Fare         float64 `json:"fare"`
	VehicleClass string  `json:"vehicle_class"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

// GetAccount retrieves an account from cache. A nil result is a cache miss.
func (s *CacheStore) GetAccount(ctx context.Context, accountID string) (*CachedAccount, error) {
	data, err := s.client.Get(ctx, accountCachePrefix+accountID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var account CachedAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// SetAccount stores an account in cache.
func (s *CacheStore) SetAccount(ctx context.Context, account *CachedAccount) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountCachePrefix+account.ID, data, AccountCacheTTL).Err()
}

// InvalidateAccount removes an account from cache.
func (s *CacheStore) InvalidateAccount(ctx context.Context, accountID string) error {
	return s.client.Del(ctx, accountCachePrefix+accountID).Err()
}

// GetRide retrieves a ride from cache. A nil result is a cache miss.
func (s *CacheStore) GetRide(ctx context.Context, rideID string) (*CachedRide, error) {
	data, err := s.client.Get(ctx, rideCachePrefix+rideID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var ride CachedRide
	if err := json.Unmarshal(data, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// SetRide stores a ride in cache.
func (s *CacheStore) SetRide(ctx context.Context, ride *CachedRide) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rideCachePrefix+ride.ID, data, RideCacheTTL).Err()
}

// InvalidateRide removes a ride from cache.
func (s *CacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, rideCachePrefix+rideID).Err()
}
