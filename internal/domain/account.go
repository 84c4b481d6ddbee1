package domain

import "time"

// Role identifies what kind of account this is. It is fixed at creation
// and the three roles are mutually exclusive.
type Role string

const (
	RoleRider  Role = "RIDER"
	RoleDriver Role = "DRIVER"
	RoleAdmin  Role = "ADMIN"
)

// DriverProfile holds the fields that only exist for DRIVER accounts.
type DriverProfile struct {
	Vehicle      string
	VehicleClass VehicleClass
	Online       bool
	Verified     bool
}

// Account represents a rider, driver, or admin identity.
//
// Balance is a decimal currency amount in whole units. It may go negative
// for a rider after a ride debit; no invariant enforces non-negative
// balance. Only the ride ledger mutates Balance.
type Account struct {
	ID        string
	Role      Role
	Name      string
	Email     string
	Phone     string
	Balance   float64
	Rating    float64 // bounded [0,5]
	Driver    *DriverProfile
	CreatedAt time.Time
}

// IsDriver reports whether the account carries the driver variant.
func (a *Account) IsDriver() bool {
	return a.Role == RoleDriver && a.Driver != nil
}
