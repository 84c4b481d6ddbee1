package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"settle/internal/domain"
	"settle/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ACCOUNT REPOSITORY
// ──────────────────────────────────────────────

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account

	// Counters for verification
	DebitCallCount  int32
	CreditCallCount int32

	// Error injection
	CreateError error
	DebitError  error
	CreditError error
}

// NewMockAccountRepository creates a new mock account repository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// AddAccount adds an account to the mock repository.
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *account
	m.accounts[account.ID] = &copy
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *account
	if account.Driver != nil {
		profile := *account.Driver
		copy.Driver = &profile
	}
	return &copy, nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		copy := *a
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.accounts[account.ID]
	if !ok {
		return repository.ErrNotFound
	}
	// Balance is preserved: profile updates never touch it.
	existing.Name = account.Name
	existing.Phone = account.Phone
	existing.Rating = account.Rating
	if account.Driver != nil {
		profile := *account.Driver
		existing.Driver = &profile
	}
	return nil
}

func (m *MockAccountRepository) Debit(ctx context.Context, id string, amount float64) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	if m.DebitError != nil {
		return m.DebitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Balance -= amount
	return nil
}

func (m *MockAccountRepository) Credit(ctx context.Context, id string, amount float64) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Balance += amount
	return nil
}

// Balance returns the current balance for test assertions.
func (m *MockAccountRepository) Balance(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, ok := m.accounts[id]; ok {
		return account.Balance
	}
	return 0
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. Status
// transitions are compare-and-swap under a mutex, mirroring the conditional
// UPDATE of the real repository.
type MockRideRepository struct {
	mu    sync.Mutex
	rides map[string]*domain.Ride
	order []string // insertion order, oldest first

	// Error injection
	CreateError     error
	TransitionError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	m.order = append(m.order, ride.ID)
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByAccount(ctx context.Context, accountID string) ([]*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Ride
	// Newest first.
	for i := len(m.order) - 1; i >= 0; i-- {
		ride := m.rides[m.order[i]]
		if ride.RiderID == accountID || ride.DriverID == accountID {
			copy := *ride
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetPendingByVehicleClass(ctx context.Context, class domain.VehicleClass) ([]*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Ride
	for _, id := range m.order {
		ride := m.rides[id]
		if ride.Status == domain.RideStatusRequested && ride.VehicleClass == class {
			copy := *ride
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RideStatus) (bool, error) {
	if m.TransitionError != nil {
		return false, m.TransitionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if ride.Status != from {
		return false, nil
	}
	ride.Status = to
	return true, nil
}

func (m *MockRideRepository) AssignDriver(ctx context.Context, id, driverID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusRequested {
		return false, nil
	}
	ride.Status = domain.RideStatusAccepted
	ride.DriverID = driverID
	return true, nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, id string, from domain.RideStatus, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if ride.Status != from {
		return false, nil
	}
	ride.Status = domain.RideStatusCancelled
	ride.CancelReason = reason
	return true, nil
}

// ──────────────────────────────────────────────
// MOCK SETTLEMENT REPOSITORY
// ──────────────────────────────────────────────

// MockSettlementRepository is a mock implementation of SettlementRepository.
type MockSettlementRepository struct {
	mu          sync.Mutex
	settlements map[string]*domain.Settlement // keyed by ride ID

	CreateCallCount int32
	CreateError     error
}

// NewMockSettlementRepository creates a new mock settlement repository.
func NewMockSettlementRepository() *MockSettlementRepository {
	return &MockSettlementRepository{
		settlements: make(map[string]*domain.Settlement),
	}
}

func (m *MockSettlementRepository) Create(ctx context.Context, settlement *domain.Settlement) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *settlement
	m.settlements[settlement.RideID] = &copy
	return nil
}

func (m *MockSettlementRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	settlement, ok := m.settlements[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *settlement
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK TX RUNNER
// ──────────────────────────────────────────────

// MockTxRunner hands the shared mocks to the callback without transaction
// semantics. The ledger places its status guard before any balance write,
// so a failed guard aborts the callback before partial effects occur.
type MockTxRunner struct {
	Repos repository.Repos

	// Error injection
	BeginError error
}

// NewMockTxRunner creates a tx runner over the given mocks.
func NewMockTxRunner(accounts *MockAccountRepository, rides *MockRideRepository, settlements *MockSettlementRepository) *MockTxRunner {
	return &MockTxRunner{
		Repos: repository.Repos{
			Accounts:    accounts,
			Rides:       rides,
			Settlements: settlements,
		},
	}
}

func (m *MockTxRunner) WithinTx(ctx context.Context, fn func(repository.Repos) error) error {
	if m.BeginError != nil {
		return m.BeginError
	}
	return fn(m.Repos)
}

// ──────────────────────────────────────────────
// MOCK PRESENCE STORE
// ──────────────────────────────────────────────

// MockPresenceStore is an in-memory implementation of PresenceStoreInterface.
type MockPresenceStore struct {
	mu     sync.Mutex
	online map[string]map[string]bool // class -> driver IDs
}

// NewMockPresenceStore creates a new mock presence store.
func NewMockPresenceStore() *MockPresenceStore {
	return &MockPresenceStore{
		online: make(map[string]map[string]bool),
	}
}

func (m *MockPresenceStore) SetOnline(ctx context.Context, driverID, vehicleClass string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online[vehicleClass] == nil {
		m.online[vehicleClass] = make(map[string]bool)
	}
	m.online[vehicleClass][driverID] = true
	return nil
}

func (m *MockPresenceStore) SetOffline(ctx context.Context, driverID, vehicleClass string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.online[vehicleClass], driverID)
	return nil
}

func (m *MockPresenceStore) IsOnline(ctx context.Context, driverID, vehicleClass string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online[vehicleClass][driverID], nil
}

func (m *MockPresenceStore) OnlineDrivers(ctx context.Context, vehicleClass string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var drivers []string
	for id := range m.online[vehicleClass] {
		drivers = append(drivers, id)
	}
	return drivers, nil
}

func (m *MockPresenceStore) CountOnline(ctx context.Context, vehicleClass string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.online[vehicleClass])), nil
}
