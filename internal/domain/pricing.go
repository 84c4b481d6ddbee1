package domain

// PricingConfig is the fare configuration read by the fare calculator on
// every quote. It is passed by value so quoting stays deterministic under
// concurrent admin updates.
type PricingConfig struct {
	BaseFare      float64
	PricePerKm    float64
	MinimumFare   float64
	CommissionPct float64 // platform share on completion, e.g. 0.20
	SignupBonus   float64 // initial rider balance
	Maintenance   bool    // when set, new ride requests are rejected
}
