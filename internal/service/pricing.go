package service

import (
	"math"
	"sync"

	"settle/internal/domain"
)

// classMultipliers maps each vehicle class to its fare multiplier.
var classMultipliers = map[domain.VehicleClass]float64{
	domain.VehicleClassEconomy: 1.0,
	domain.VehicleClassPremium: 2.2,
	domain.VehicleClassXL:      1.8,
	domain.VehicleClassBike:    0.7,
}

// QuoteFare computes the fare for a distance and vehicle class under the
// given configuration. Pure: no side effects, no global reads.
//
//	fare = round(max(distance * pricePerKm * classMultiplier, minimumFare))
//
// Rounding is to the nearest whole unit, half-up. A zero or negative
// distance yields the minimum-fare floor, never a negative amount.
func QuoteFare(distanceKm float64, class domain.VehicleClass, cfg domain.PricingConfig) (float64, error) {
	multiplier, ok := classMultipliers[class]
	if !ok {
		return 0, ErrInvalidVehicleClass
	}

	raw := cfg.BaseFare + distanceKm*cfg.PricePerKm*multiplier
	if raw < cfg.MinimumFare {
		raw = cfg.MinimumFare
	}

	return math.Floor(raw + 0.5), nil
}

// PricingStore holds the live fare configuration. Quotes read a snapshot;
// only the admin operation writes.
type PricingStore struct {
	mu  sync.RWMutex
	cfg domain.PricingConfig
}

// NewPricingStore creates a PricingStore seeded with the given config.
func NewPricingStore(cfg domain.PricingConfig) *PricingStore {
	return &PricingStore{cfg: cfg}
}

// Current returns a snapshot of the live configuration.
func (s *PricingStore) Current() domain.PricingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the live configuration after validating it.
func (s *PricingStore) Update(cfg domain.PricingConfig) error {
	if cfg.PricePerKm <= 0 || cfg.MinimumFare < 0 {
		return ErrInvalidPricing
	}
	if cfg.CommissionPct < 0 || cfg.CommissionPct >= 1 {
		return ErrInvalidPricing
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

// SetMaintenance toggles the maintenance flag without touching fares.
func (s *PricingStore) SetMaintenance(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Maintenance = on
}
