package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"settle/internal/domain"
	"settle/internal/redis"
	"settle/internal/repository"
)

// AccountService handles account registration and profile mutations.
// Balances are off limits here; only the ledger touches them.
type AccountService struct {
	accountRepo   repository.AccountRepository
	pricingStore  *PricingStore
	cacheStore    *redis.CacheStore
	presenceStore redis.PresenceStoreInterface
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	accountRepo repository.AccountRepository,
	pricingStore *PricingStore,
	cacheStore *redis.CacheStore,
	presenceStore redis.PresenceStoreInterface,
) *AccountService {
	return &AccountService{
		accountRepo:   accountRepo,
		pricingStore:  pricingStore,
		cacheStore:    cacheStore,
		presenceStore: presenceStore,
	}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Role         domain.Role
	Name         string
	Email        string
	Phone        string
	Vehicle      string              // drivers only
	VehicleClass domain.VehicleClass // drivers only
}

// Register creates a new account. Riders start with the configured signup
// bonus; drivers and admins start at zero, offline and unverified.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.Account, error) {
	switch req.Role {
	case domain.RoleRider, domain.RoleDriver, domain.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}
	if req.Email == "" {
		return nil, ErrInvalidEmail
	}

	existing, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	account := &domain.Account{
		ID:        uuid.New().String(),
		Role:      req.Role,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}

	if req.Role == domain.RoleRider {
		account.Balance = s.pricingStore.Current().SignupBonus
	}

	if req.Role == domain.RoleDriver {
		if _, ok := domain.ParseVehicleClass(string(req.VehicleClass)); !ok {
			return nil, ErrInvalidVehicleClass
		}
		account.Driver = &domain.DriverProfile{
			Vehicle:      req.Vehicle,
			VehicleClass: req.VehicleClass,
		}
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateProfileRequest contains the profile fields an account owner may
// change. Balance and role are deliberately absent.
type UpdateProfileRequest struct {
	AccountID string
	Name      string
	Phone     string
	Vehicle   string
}

// UpdateProfile updates name, phone, and vehicle descriptors.
func (s *AccountService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.Account, error) {
	if req.AccountID == "" {
		return nil, ErrInvalidAccountID
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Phone != "" {
		account.Phone = req.Phone
	}
	if req.Vehicle != "" && account.Driver != nil {
		account.Driver.Vehicle = req.Vehicle
	}

	if err := s.accountRepo.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate(ctx, account.ID)
	return account, nil
}

// SetOnline toggles a driver's online status and mirrors it into the
// presence index for the driver's vehicle class.
func (s *AccountService) SetOnline(ctx context.Context, accountID string, online bool) (*domain.Account, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsDriver() {
		return nil, ErrInvalidRole
	}

	account.Driver.Online = online
	if err := s.accountRepo.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}

	if s.presenceStore != nil {
		class := string(account.Driver.VehicleClass)
		if online {
			_ = s.presenceStore.SetOnline(ctx, account.ID, class)
		} else {
			_ = s.presenceStore.SetOffline(ctx, account.ID, class)
		}
	}

	s.invalidate(ctx, account.ID)
	return account, nil
}

// Verify marks a driver account as verified.
func (s *AccountService) Verify(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsDriver() {
		return nil, ErrInvalidRole
	}

	account.Driver.Verified = true
	if err := s.accountRepo.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate(ctx, account.ID)
	return account, nil
}

// Rate records a rating for an account, bounded to [0,5].
func (s *AccountService) Rate(ctx context.Context, accountID string, rating float64) (*domain.Account, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if rating < 0 || rating > 5 {
		return nil, ErrInvalidRating
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Rating = rating
	if err := s.accountRepo.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate(ctx, account.ID)
	return account, nil
}

func (s *AccountService) invalidate(ctx context.Context, accountID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateAccount(ctx, accountID)
}
