package tests

import (
	"testing"

	"settle/internal/domain"
	"settle/internal/service"
)

// testPricingConfig mirrors the default production configuration.
func testPricingConfig() domain.PricingConfig {
	return domain.PricingConfig{
		BaseFare:      0,
		PricePerKm:    450,
		MinimumFare:   500,
		CommissionPct: 0.20,
		SignupBonus:   5000,
	}
}

// ──────────────────────────────────────────────
// 1. FARE QUOTE RULES
// ──────────────────────────────────────────────

func TestQuoteFare_ClassMultipliers(t *testing.T) {
	t.Parallel()

	cfg := testPricingConfig()

	testCases := []struct {
		name       string
		distanceKm float64
		class      domain.VehicleClass
		wantFare   float64
	}{
		{"economy 10km", 10, domain.VehicleClassEconomy, 4500},
		{"premium 10km", 10, domain.VehicleClassPremium, 9900},
		{"xl 10km", 10, domain.VehicleClassXL, 8100},
		{"bike 10km", 10, domain.VehicleClassBike, 3150},
		{"bike 1km floored to minimum", 1, domain.VehicleClassBike, 500},
		{"economy 1km", 1, domain.VehicleClassEconomy, 500}, // 450 < 500 floor
		{"zero distance yields minimum", 0, domain.VehicleClassEconomy, 500},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fare, err := service.QuoteFare(tc.distanceKm, tc.class, cfg)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if fare != tc.wantFare {
				t.Errorf("expected fare %v, got %v", tc.wantFare, fare)
			}
		})
	}
}

func TestQuoteFare_HalfUpRounding(t *testing.T) {
	t.Parallel()

	cfg := testPricingConfig()
	cfg.PricePerKm = 433

	// 1.5 * 433 = 649.5, rounds up to 650.
	fare, err := service.QuoteFare(1.5, domain.VehicleClassEconomy, cfg)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if fare != 650 {
		t.Errorf("expected fare 650, got %v", fare)
	}

	// 1.3 * 433 = 562.9, rounds up to 563.
	fare, err = service.QuoteFare(1.3, domain.VehicleClassEconomy, cfg)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if fare != 563 {
		t.Errorf("expected fare 563, got %v", fare)
	}
}

func TestQuoteFare_MonotonicInDistance(t *testing.T) {
	t.Parallel()

	cfg := testPricingConfig()
	classes := []domain.VehicleClass{
		domain.VehicleClassEconomy,
		domain.VehicleClassPremium,
		domain.VehicleClassXL,
		domain.VehicleClassBike,
	}

	for _, class := range classes {
		prev := 0.0
		for distance := 0.0; distance <= 50; distance += 0.5 {
			fare, err := service.QuoteFare(distance, class, cfg)
			if err != nil {
				t.Fatalf("class %s distance %v: %v", class, distance, err)
			}
			if fare < 500 {
				t.Errorf("class %s distance %v: fare %v below minimum", class, distance, fare)
			}
			if fare < prev {
				t.Errorf("class %s distance %v: fare %v decreased from %v", class, distance, fare, prev)
			}
			prev = fare
		}
	}
}

func TestQuoteFare_UnknownClass_Fails(t *testing.T) {
	t.Parallel()

	_, err := service.QuoteFare(10, domain.VehicleClass("HELICOPTER"), testPricingConfig())
	if err != service.ErrInvalidVehicleClass {
		t.Errorf("expected ErrInvalidVehicleClass, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. PRICING STORE
// ──────────────────────────────────────────────

func TestPricingStore_UpdateRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	store := service.NewPricingStore(testPricingConfig())

	testCases := []struct {
		name string
		cfg  domain.PricingConfig
	}{
		{"zero price per km", domain.PricingConfig{PricePerKm: 0, MinimumFare: 500, CommissionPct: 0.2}},
		{"negative minimum fare", domain.PricingConfig{PricePerKm: 450, MinimumFare: -1, CommissionPct: 0.2}},
		{"commission at 100%", domain.PricingConfig{PricePerKm: 450, MinimumFare: 500, CommissionPct: 1.0}},
		{"negative commission", domain.PricingConfig{PricePerKm: 450, MinimumFare: 500, CommissionPct: -0.1}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := store.Update(tc.cfg); err != service.ErrInvalidPricing {
				t.Errorf("expected ErrInvalidPricing, got: %v", err)
			}
		})
	}

	// The store still serves the original config after rejected updates.
	if got := store.Current().PricePerKm; got != 450 {
		t.Errorf("expected price per km 450, got %v", got)
	}
}

func TestPricingStore_UpdateChangesQuotes(t *testing.T) {
	t.Parallel()

	store := service.NewPricingStore(testPricingConfig())

	updated := testPricingConfig()
	updated.PricePerKm = 900
	if err := store.Update(updated); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	fare, err := service.QuoteFare(10, domain.VehicleClassEconomy, store.Current())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if fare != 9000 {
		t.Errorf("expected fare 9000 after update, got %v", fare)
	}
}

func TestPricingStore_SetMaintenance(t *testing.T) {
	t.Parallel()

	store := service.NewPricingStore(testPricingConfig())

	store.SetMaintenance(true)
	if !store.Current().Maintenance {
		t.Error("expected maintenance mode on")
	}

	store.SetMaintenance(false)
	if store.Current().Maintenance {
		t.Error("expected maintenance mode off")
	}

	// Toggling maintenance must not disturb fares.
	if got := store.Current().PricePerKm; got != 450 {
		t.Errorf("expected price per km 450, got %v", got)
	}
}
