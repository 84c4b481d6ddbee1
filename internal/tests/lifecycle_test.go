package tests

import (
	"context"
	"sync"
	"testing"

	"settle/internal/domain"
	"settle/internal/repository"
	"settle/internal/service"
)

// createRide is a test helper that requests a ride and fails the test on
// error.
func createRide(t *testing.T, f *ledgerFixture, req service.CreateRideRequest) *domain.Ride {
	t.Helper()
	ride, err := f.ledger.CreateRide(context.Background(), req)
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

func TestRideLifecycle_EndToEnd(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 5000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	// Request: 10km ECONOMY at 450/km quotes 4500, debited up front.
	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if ride.Fare != 4500 {
		t.Fatalf("expected fare 4500, got %v", ride.Fare)
	}
	if balance := f.accounts.Balance("rider-1"); balance != 500 {
		t.Fatalf("expected rider balance 500, got %v", balance)
	}

	// Accept.
	accepted, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-1")
	if err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if accepted.Status != domain.RideStatusAccepted {
		t.Errorf("expected status ACCEPTED, got %s", accepted.Status)
	}
	if accepted.DriverID != "driver-1" {
		t.Errorf("expected driver-1 on ride, got %q", accepted.DriverID)
	}
	if balance := f.accounts.Balance("driver-1"); balance != 0 {
		t.Errorf("expected no driver payout at acceptance, got %v", balance)
	}

	// Complete: driver earns 80%, platform keeps 20%.
	result, err := f.ledger.CompleteRide(ctx, ride.ID)
	if err != nil {
		t.Fatalf("complete ride: %v", err)
	}
	if result.Ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected status COMPLETED, got %s", result.Ride.Status)
	}
	if result.Settlement.GrossFare != 4500 {
		t.Errorf("expected gross fare 4500, got %v", result.Settlement.GrossFare)
	}
	if result.Settlement.DriverShare != 3600 {
		t.Errorf("expected driver share 3600, got %v", result.Settlement.DriverShare)
	}
	if result.Settlement.Commission != 900 {
		t.Errorf("expected commission 900, got %v", result.Settlement.Commission)
	}
	if balance := f.accounts.Balance("driver-1"); balance != 3600 {
		t.Errorf("expected driver balance 3600, got %v", balance)
	}
	if balance := f.accounts.Balance("rider-1"); balance != 500 {
		t.Errorf("expected rider balance unchanged at 500, got %v", balance)
	}

	// The settlement is retrievable afterwards.
	settlement, err := f.ledger.GetSettlement(ctx, ride.ID)
	if err != nil {
		t.Fatalf("get settlement: %v", err)
	}
	if settlement.RideID != ride.ID || settlement.DriverID != "driver-1" {
		t.Errorf("settlement does not match ride: %+v", settlement)
	}
}

func TestRideLifecycle_MinimumFareRide(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 500)
	f.addDriver("driver-1", 0, domain.VehicleClassBike)
	ctx := context.Background()

	// 1km BIKE: 450 * 0.7 = 315, floored to the 500 minimum.
	ride := createRide(t, f, service.CreateRideRequest{
		RiderID:      "rider-1",
		Pickup:       "Market Square",
		Dropoff:      "Harbor",
		DistanceKm:   1,
		VehicleClass: domain.VehicleClassBike,
	})
	if ride.Fare != 500 {
		t.Fatalf("expected fare 500, got %v", ride.Fare)
	}
	if balance := f.accounts.Balance("rider-1"); balance != 0 {
		t.Fatalf("expected rider balance 0, got %v", balance)
	}

	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if _, err := f.ledger.CompleteRide(ctx, ride.ID); err != nil {
		t.Fatalf("complete ride: %v", err)
	}
	if balance := f.accounts.Balance("driver-1"); balance != 400 {
		t.Errorf("expected driver balance 400, got %v", balance)
	}
}

func TestCompleteRide_ConcurrentAttemptsSettleOnce(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.CompleteRide(ctx, ride.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if err != service.ErrInvalidTransition && err != service.ErrRideAlreadyCompleted {
			t.Errorf("unexpected error from concurrent completion: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly 1 successful completion, got %d", successes)
	}
	if balance := f.accounts.Balance("driver-1"); balance != 3600 {
		t.Errorf("expected driver credited exactly once (3600), got %v", balance)
	}
	if count := f.settlements.CreateCallCount; count != 1 {
		t.Errorf("expected exactly 1 settlement record, got %d", count)
	}
}

func TestCompleteRide_SecondAttemptFails(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if _, err := f.ledger.CompleteRide(ctx, ride.ID); err != nil {
		t.Fatalf("first completion: %v", err)
	}

	if _, err := f.ledger.CompleteRide(ctx, ride.ID); err != service.ErrRideAlreadyCompleted {
		t.Errorf("expected ErrRideAlreadyCompleted, got: %v", err)
	}
	if balance := f.accounts.Balance("driver-1"); balance != 3600 {
		t.Errorf("expected driver balance unchanged at 3600, got %v", balance)
	}
}

func TestCompleteRide_RequiresAcceptedState(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	ctx := context.Background()

	// Still REQUESTED, no driver.
	ride := createRide(t, f, economyRideRequest("rider-1", 10))

	if _, err := f.ledger.CompleteRide(ctx, ride.ID); err != service.ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got: %v", err)
	}
	if count := f.accounts.CreditCallCount; count != 0 {
		t.Errorf("expected no credit, got %d", count)
	}
}

func TestCompleteRide_UnknownRide(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	if _, err := f.ledger.CompleteRide(context.Background(), "no-such-ride"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestAssignDriver_RequiresRequestedState(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	f.addDriver("driver-2", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}

	// A second driver cannot take an accepted ride.
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-2"); err != service.ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got: %v", err)
	}

	current, err := f.rides.GetByID(ctx, ride.ID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if current.DriverID != "driver-1" {
		t.Errorf("expected driver-1 to keep the ride, got %q", current.DriverID)
	}
}

func TestAssignDriver_Validation(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	f.addRider("rider-2", 10000)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))

	if _, err := f.ledger.AssignDriver(ctx, "", "driver-1"); err != service.ErrInvalidRideID {
		t.Errorf("expected ErrInvalidRideID, got: %v", err)
	}
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, ""); err != service.ErrInvalidDriverID {
		t.Errorf("expected ErrInvalidDriverID, got: %v", err)
	}
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "nobody"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	// A rider cannot act as the driver.
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "rider-2"); err != service.ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got: %v", err)
	}
}

func TestCancelRide_NoRefund(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 5000)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if balance := f.accounts.Balance("rider-1"); balance != 500 {
		t.Fatalf("expected rider balance 500 after debit, got %v", balance)
	}

	cancelled, err := f.ledger.CancelRide(ctx, ride.ID, "rider changed plans")
	if err != nil {
		t.Fatalf("cancel ride: %v", err)
	}
	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.CancelReason != "rider changed plans" {
		t.Errorf("expected cancel reason recorded, got %q", cancelled.CancelReason)
	}

	// The prepaid debit stays where it is.
	if balance := f.accounts.Balance("rider-1"); balance != 500 {
		t.Errorf("expected rider balance still 500 after cancel, got %v", balance)
	}
	if count := f.accounts.CreditCallCount; count != 0 {
		t.Errorf("expected no credit on cancel, got %d", count)
	}
}

func TestCancelRide_AfterAcceptance(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 5000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}

	cancelled, err := f.ledger.CancelRide(ctx, ride.ID, "no show")
	if err != nil {
		t.Fatalf("cancel ride: %v", err)
	}
	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", cancelled.Status)
	}
	if balance := f.accounts.Balance("driver-1"); balance != 0 {
		t.Errorf("expected no driver payout on cancel, got %v", balance)
	}
}

func TestCancelRide_TerminalStatesRejected(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	completed := createRide(t, f, economyRideRequest("rider-1", 10))
	if _, err := f.ledger.AssignDriver(ctx, completed.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if _, err := f.ledger.CompleteRide(ctx, completed.ID); err != nil {
		t.Fatalf("complete ride: %v", err)
	}
	if _, err := f.ledger.CancelRide(ctx, completed.ID, "too late"); err != service.ErrRideAlreadyCompleted {
		t.Errorf("expected ErrRideAlreadyCompleted, got: %v", err)
	}

	cancelled := createRide(t, f, economyRideRequest("rider-1", 5))
	if _, err := f.ledger.CancelRide(ctx, cancelled.ID, "first"); err != nil {
		t.Fatalf("cancel ride: %v", err)
	}
	if _, err := f.ledger.CancelRide(ctx, cancelled.ID, "second"); err != service.ErrRideAlreadyCancelled {
		t.Errorf("expected ErrRideAlreadyCancelled, got: %v", err)
	}

	if _, err := f.ledger.CancelRide(ctx, "no-such-ride", "x"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestCompleteAfterCancel_Rejected(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if _, err := f.ledger.AssignDriver(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if _, err := f.ledger.CancelRide(ctx, ride.ID, "storm"); err != nil {
		t.Fatalf("cancel ride: %v", err)
	}

	if _, err := f.ledger.CompleteRide(ctx, ride.ID); err != service.ErrRideAlreadyCancelled {
		t.Errorf("expected ErrRideAlreadyCancelled, got: %v", err)
	}
	if balance := f.accounts.Balance("driver-1"); balance != 0 {
		t.Errorf("expected driver balance 0, got %v", balance)
	}
}

func TestListPendingRides_FiltersByClassAndStatus(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 50000)
	f.addDriver("driver-1", 0, domain.VehicleClassEconomy)
	ctx := context.Background()

	pendingEconomy := createRide(t, f, economyRideRequest("rider-1", 5))
	acceptedEconomy := createRide(t, f, economyRideRequest("rider-1", 8))
	createRide(t, f, service.CreateRideRequest{
		RiderID:      "rider-1",
		Pickup:       "A",
		Dropoff:      "B",
		DistanceKm:   3,
		VehicleClass: domain.VehicleClassPremium,
	})
	if _, err := f.ledger.AssignDriver(ctx, acceptedEconomy.ID, "driver-1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}

	pending, err := f.ledger.ListPendingRidesForVehicleClass(ctx, domain.VehicleClassEconomy)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending economy ride, got %d", len(pending))
	}
	if pending[0].ID != pendingEconomy.ID {
		t.Errorf("expected ride %s, got %s", pendingEconomy.ID, pending[0].ID)
	}

	if _, err := f.ledger.ListPendingRidesForVehicleClass(ctx, domain.VehicleClass("BOAT")); err != service.ErrInvalidVehicleClass {
		t.Errorf("expected ErrInvalidVehicleClass, got: %v", err)
	}
}

func TestGetSettlement_OnlyAfterCompletion(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	f.addRider("rider-1", 10000)
	ctx := context.Background()

	ride := createRide(t, f, economyRideRequest("rider-1", 10))
	if _, err := f.ledger.GetSettlement(ctx, ride.ID); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound before completion, got: %v", err)
	}
	if _, err := f.ledger.GetSettlement(ctx, ""); err != service.ErrInvalidRideID {
		t.Errorf("expected ErrInvalidRideID, got: %v", err)
	}
}
