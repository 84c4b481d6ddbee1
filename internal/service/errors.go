package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidAccountID is returned when account ID is empty.
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrInvalidDistance is returned when the requested distance is negative.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidVehicleClass is returned for an unknown vehicle class.
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")

	// ErrInvalidRole is returned when an account has the wrong role for the
	// requested operation, e.g. debiting a driver as a rider.
	ErrInvalidRole = errors.New("account has wrong role for operation")

	// ErrInvalidRating is returned when a rating falls outside [0,5].
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrInvalidEmail is returned when the email field is missing.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrEmailInUse is returned when registering with a taken email.
	ErrEmailInUse = errors.New("email already registered")

	// ErrInvalidPricing is returned for a non-positive price-per-km or an
	// out-of-range commission percentage in an admin pricing update.
	ErrInvalidPricing = errors.New("invalid pricing configuration")

	// ErrMaintenanceMode is returned when ride requests are disabled.
	ErrMaintenanceMode = errors.New("service is in maintenance mode")

	// ErrInvalidTransition is returned when the requested state change is
	// not legal from the ride's current status. This is the primary
	// defense against duplicate financial effects and is never suppressed.
	ErrInvalidTransition = errors.New("invalid ride status transition")

	// ErrRideAlreadyCompleted is returned when acting on a completed ride.
	ErrRideAlreadyCompleted = errors.New("ride already completed")

	// ErrRideAlreadyCancelled is returned when acting on a cancelled ride.
	ErrRideAlreadyCancelled = errors.New("ride already cancelled")

	// ErrNoDriverAssigned is returned when completing a ride without a driver.
	ErrNoDriverAssigned = errors.New("ride has no assigned driver")
)
