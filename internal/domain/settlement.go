package domain

import "time"

// Settlement records the financial outcome of a completed ride: the gross
// fare collected from the rider at request time, the share credited to the
// driver, and the commission retained by the platform.
type Settlement struct {
	ID            string
	RideID        string
	DriverID      string
	GrossFare     float64
	DriverShare   float64
	Commission    float64
	CommissionPct float64
	CreatedAt     time.Time
}
