package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"settle/internal/domain"
	"settle/internal/redis"
	"settle/internal/repository"
)

const rideLockTTL = 10 * time.Second

// LedgerService owns ride record creation and every status transition, and
// is the only component that mutates account balances in connection with a
// ride. Each operation is atomic with respect to the ride and the accounts
// it touches: same-ride callers are serialized by a Redis lock, and the
// status guard inside the database transaction makes a retried call that
// already succeeded surface ErrInvalidTransition instead of double-applying
// its financial effect.
type LedgerService struct {
	accountRepo         repository.AccountRepository
	rideRepo            repository.RideRepository
	settlementRepo      repository.SettlementRepository
	txRunner            repository.TxRunner
	pricingStore        *PricingStore
	lockStore           redis.LockStoreInterface
	cacheStore          *redis.CacheStore
	notificationService *NotificationService
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	accountRepo repository.AccountRepository,
	rideRepo repository.RideRepository,
	settlementRepo repository.SettlementRepository,
	txRunner repository.TxRunner,
	pricingStore *PricingStore,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	notificationService *NotificationService,
) *LedgerService {
	return &LedgerService{
		accountRepo:         accountRepo,
		rideRepo:            rideRepo,
		settlementRepo:      settlementRepo,
		txRunner:            txRunner,
		pricingStore:        pricingStore,
		lockStore:           lockStore,
		cacheStore:          cacheStore,
		notificationService: notificationService,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	RiderID      string
	Pickup       string
	Dropoff      string
	DistanceKm   float64
	VehicleClass domain.VehicleClass
}

// CreateRide quotes the fare, persists a new ride in REQUESTED state, and
// debits the rider's balance by the full fare in the same transaction.
// The debit is not rejected on overdraft.
func (s *LedgerService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if req.DistanceKm < 0 {
		return nil, ErrInvalidDistance
	}
	if _, ok := domain.ParseVehicleClass(string(req.VehicleClass)); !ok {
		return nil, ErrInvalidVehicleClass
	}

	cfg := s.pricingStore.Current()
	if cfg.Maintenance {
		return nil, ErrMaintenanceMode
	}

	rider, err := s.accountRepo.GetByID(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}
	if rider.Role != domain.RoleRider {
		return nil, ErrInvalidRole
	}

	fare, err := QuoteFare(req.DistanceKm, req.VehicleClass, cfg)
	if err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:           uuid.New().String(),
		RiderID:      req.RiderID,
		Pickup:       req.Pickup,
		Dropoff:      req.Dropoff,
		DistanceKm:   req.DistanceKm,
		Fare:         fare,
		VehicleClass: req.VehicleClass,
		Status:       domain.RideStatusRequested,
		CreatedAt:    time.Now(),
	}

	err = s.txRunner.WithinTx(ctx, func(repos repository.Repos) error {
		if err := repos.Rides.Create(ctx, ride); err != nil {
			return err
		}
		return repos.Accounts.Debit(ctx, req.RiderID, fare)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAccount(ctx, req.RiderID)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideRequested(ctx, ride)
	}

	return ride, nil
}

// AssignDriver moves a ride from REQUESTED to ACCEPTED and records the
// driver on it. No balance effect occurs at this transition.
func (s *LedgerService) AssignDriver(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.accountRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != domain.RoleDriver {
		return nil, ErrInvalidRole
	}

	unlock, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	applied, err := s.rideRepo.AssignDriver(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrInvalidTransition
	}

	s.invalidateRide(ctx, rideID)

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyDriverAssigned(ctx, ride, driver)
	}

	return ride, nil
}

// CompleteRideResponse contains the result of completing a ride.
type CompleteRideResponse struct {
	Ride       *domain.Ride
	Settlement *domain.Settlement
}

// CompleteRide moves a ride from ACCEPTED to COMPLETED exactly once. In the
// same transaction it credits the driver's balance with the fare minus the
// platform commission and records a settlement for the split. A second
// completion attempt fails with ErrInvalidTransition and has no financial
// effect.
func (s *LedgerService) CompleteRide(ctx context.Context, rideID string) (*CompleteRideResponse, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	switch ride.Status {
	case domain.RideStatusAccepted:
		// eligible
	case domain.RideStatusCompleted:
		return nil, ErrRideAlreadyCompleted
	case domain.RideStatusCancelled:
		return nil, ErrRideAlreadyCancelled
	default:
		return nil, ErrInvalidTransition
	}

	if ride.DriverID == "" {
		return nil, ErrNoDriverAssigned
	}

	unlock, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cfg := s.pricingStore.Current()
	driverShare := ride.Fare * (1 - cfg.CommissionPct)
	settlement := &domain.Settlement{
		ID:            uuid.New().String(),
		RideID:        ride.ID,
		DriverID:      ride.DriverID,
		GrossFare:     ride.Fare,
		DriverShare:   driverShare,
		Commission:    ride.Fare - driverShare,
		CommissionPct: cfg.CommissionPct,
		CreatedAt:     time.Now(),
	}

	err = s.txRunner.WithinTx(ctx, func(repos repository.Repos) error {
		applied, err := repos.Rides.TransitionStatus(ctx, rideID, domain.RideStatusAccepted, domain.RideStatusCompleted)
		if err != nil {
			return err
		}
		if !applied {
			return ErrInvalidTransition
		}
		if err := repos.Accounts.Credit(ctx, ride.DriverID, driverShare); err != nil {
			return err
		}
		return repos.Settlements.Create(ctx, settlement)
	})
	if err != nil {
		return nil, err
	}

	ride.Status = domain.RideStatusCompleted
	s.invalidateRide(ctx, rideID)
	s.invalidateAccount(ctx, ride.DriverID)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideCompleted(ctx, ride, settlement)
	}

	return &CompleteRideResponse{Ride: ride, Settlement: settlement}, nil
}

// CancelRide moves a ride from REQUESTED or ACCEPTED to CANCELLED. The
// initial debit is not reversed; cancellation carries no refund.
func (s *LedgerService) CancelRide(ctx context.Context, rideID, reason string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	switch ride.Status {
	case domain.RideStatusRequested, domain.RideStatusAccepted:
		// cancellable
	case domain.RideStatusCancelled:
		return nil, ErrRideAlreadyCancelled
	case domain.RideStatusCompleted:
		return nil, ErrRideAlreadyCompleted
	default:
		return nil, ErrInvalidTransition
	}

	unlock, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	applied, err := s.rideRepo.Cancel(ctx, rideID, ride.Status, reason)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrInvalidTransition
	}

	s.invalidateRide(ctx, rideID)

	ride, err = s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideCancelled(ctx, ride, reason)
	}

	return ride, nil
}

// ListRidesForAccount returns all rides where the account is the rider or
// the assigned driver, newest first.
func (s *LedgerService) ListRidesForAccount(ctx context.Context, accountID string) ([]*domain.Ride, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	return s.rideRepo.GetByAccount(ctx, accountID)
}

// ListPendingRidesForVehicleClass returns all REQUESTED rides of a class,
// for external driver-matching collaborators.
func (s *LedgerService) ListPendingRidesForVehicleClass(ctx context.Context, class domain.VehicleClass) ([]*domain.Ride, error) {
	if _, ok := domain.ParseVehicleClass(string(class)); !ok {
		return nil, ErrInvalidVehicleClass
	}
	return s.rideRepo.GetPendingByVehicleClass(ctx, class)
}

// GetSettlement returns the settlement record for a completed ride.
func (s *LedgerService) GetSettlement(ctx context.Context, rideID string) (*domain.Settlement, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.settlementRepo.GetByRideID(ctx, rideID)
}

// lockRide serializes transitions on a single ride across instances. When
// the lock is already held another transition is in flight; the caller
// observes that as ErrInvalidTransition, same as arriving second.
func (s *LedgerService) lockRide(ctx context.Context, rideID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireRideLock(ctx, rideID, rideLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrInvalidTransition
	}
	return func() { _ = s.lockStore.ReleaseRideLock(ctx, rideID) }, nil
}

func (s *LedgerService) invalidateRide(ctx context.Context, rideID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateRide(ctx, rideID)
}

func (s *LedgerService) invalidateAccount(ctx context.Context, accountID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateAccount(ctx, accountID)
}
