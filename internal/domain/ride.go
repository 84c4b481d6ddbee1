package domain

import "time"

// RideStatus represents the current status of a ride.
// Transitions are monotonic and forward-only:
// REQUESTED -> ACCEPTED -> ARRIVING -> IN_PROGRESS -> COMPLETED,
// with CANCELLED reachable from REQUESTED and ACCEPTED.
// COMPLETED and CANCELLED are terminal.
type RideStatus string

const (
	RideStatusRequested  RideStatus = "REQUESTED"
	RideStatusAccepted   RideStatus = "ACCEPTED"
	RideStatusArriving   RideStatus = "ARRIVING"
	RideStatusInProgress RideStatus = "IN_PROGRESS"
	RideStatusCompleted  RideStatus = "COMPLETED"
	RideStatusCancelled  RideStatus = "CANCELLED"
)

// Terminal reports whether no further transitions may leave this status.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// VehicleClass represents the service class requested for a ride.
type VehicleClass string

const (
	VehicleClassEconomy VehicleClass = "ECONOMY"
	VehicleClassPremium VehicleClass = "PREMIUM"
	VehicleClassXL      VehicleClass = "XL"
	VehicleClassBike    VehicleClass = "BIKE"
)

// ParseVehicleClass validates a vehicle class string.
func ParseVehicleClass(s string) (VehicleClass, bool) {
	switch VehicleClass(s) {
	case VehicleClassEconomy, VehicleClassPremium, VehicleClassXL, VehicleClassBike:
		return VehicleClass(s), true
	}
	return "", false
}

// Ride represents one trip request through to terminal state.
//
// Fare is computed once at creation and is immutable thereafter.
type Ride struct {
	ID           string
	RiderID      string
	DriverID     string // empty until a driver is assigned
	Pickup       string // opaque location descriptor
	Dropoff      string
	DistanceKm   float64
	Fare         float64
	VehicleClass VehicleClass
	Status       RideStatus
	CreatedAt    time.Time
	CancelledAt  time.Time
	CancelReason string
}
