package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"settle/internal/domain"
	"settle/internal/redis"
	"settle/internal/repository"
	"settle/internal/service"
)

// AccountHandler handles HTTP requests for accounts.
type AccountHandler struct {
	accountService *service.AccountService
	accountRepo    repository.AccountRepository
	cacheStore     *redis.CacheStore
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, accountRepo repository.AccountRepository, cacheStore *redis.CacheStore) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		accountRepo:    accountRepo,
		cacheStore:     cacheStore,
	}
}

// RegisterRequest is the HTTP request body for account registration.
type RegisterRequest struct {
	Role         string `json:"role"` // RIDER, DRIVER, ADMIN
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Vehicle      string `json:"vehicle,omitempty"`
	VehicleClass string `json:"vehicle_class,omitempty"`
}

// UpdateProfileRequest is the HTTP request body for profile updates.
type UpdateProfileRequest struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Vehicle string `json:"vehicle,omitempty"`
}

// OnlineRequest is the HTTP request body for the driver online toggle.
type OnlineRequest struct {
	Online bool `json:"online"`
}

// RateRequest is the HTTP request body for rating an account.
type RateRequest struct {
	Rating float64 `json:"rating"`
}

// AccountResponse is the HTTP response for account data.
type AccountResponse struct {
	ID           string  `json:"id"`
	Role         string  `json:"role"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Balance      float64 `json:"balance"`
	Rating       float64 `json:"rating"`
	Vehicle      string  `json:"vehicle,omitempty"`
	VehicleClass string  `json:"vehicle_class,omitempty"`
	Online       *bool   `json:"online,omitempty"`
	Verified     *bool   `json:"verified,omitempty"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:      a.ID,
		Role:    string(a.Role),
		Name:    a.Name,
		Email:   a.Email,
		Phone:   a.Phone,
		Balance: a.Balance,
		Rating:  a.Rating,
	}
	if a.Driver != nil {
		resp.Vehicle = a.Driver.Vehicle
		resp.VehicleClass = string(a.Driver.VehicleClass)
		online, verified := a.Driver.Online, a.Driver.Verified
		resp.Online = &online
		resp.Verified = &verified
	}
	return resp
}

// Register handles POST /v1/accounts/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and email are required"})
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), service.RegisterRequest{
		Role:         domain.Role(req.Role),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Vehicle:      req.Vehicle,
		VehicleClass: domain.VehicleClass(req.VehicleClass),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toAccountResponse(account))
}

// Get handles GET /v1/accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	accountID := c.Param("id")
	ctx := c.Request.Context()

	// Read through the cache; balances tolerate the short TTL.
	if h.cacheStore != nil {
		cached, err := h.cacheStore.GetAccount(ctx, accountID)
		if err == nil && cached != nil {
			respondJSON(c, http.StatusOK, AccountResponse{
				ID:      cached.ID,
				Role:    cached.Role,
				Name:    cached.Name,
				Email:   cached.Email,
				Phone:   cached.Phone,
				Balance: cached.Balance,
				Rating:  cached.Rating,
			})
			return
		}
	}

	account, err := h.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cacheStore != nil {
		_ = h.cacheStore.SetAccount(ctx, &redis.CachedAccount{
			ID:      account.ID,
			Role:    string(account.Role),
			Name:    account.Name,
			Email:   account.Email,
			Phone:   account.Phone,
			Balance: account.Balance,
			Rating:  account.Rating,
		})
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}

// GetAll handles GET /v1/accounts
func (h *AccountHandler) GetAll(c *gin.Context) {
	accounts, err := h.accountRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []AccountResponse
	for _, a := range accounts {
		response = append(response, toAccountResponse(a))
	}

	c.JSON(http.StatusOK, response)
}

// UpdateProfile handles PATCH /v1/accounts/:id
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accountService.UpdateProfile(c.Request.Context(), service.UpdateProfileRequest{
		AccountID: c.Param("id"),
		Name:      req.Name,
		Phone:     req.Phone,
		Vehicle:   req.Vehicle,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}

// SetOnline handles POST /v1/accounts/:id/online
func (h *AccountHandler) SetOnline(c *gin.Context) {
	var req OnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accountService.SetOnline(c.Request.Context(), c.Param("id"), req.Online)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}

// Verify handles POST /v1/accounts/:id/verify
func (h *AccountHandler) Verify(c *gin.Context) {
	account, err := h.accountService.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}

// Rate handles POST /v1/accounts/:id/rate
func (h *AccountHandler) Rate(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accountService.Rate(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAccountResponse(account))
}
