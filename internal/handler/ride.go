package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"settle/internal/domain"
	"settle/internal/redis"
	"settle/internal/repository"
	"settle/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	ledgerService *service.LedgerService
	rideRepo      repository.RideRepository
	cacheStore    *redis.CacheStore
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(ledgerService *service.LedgerService, rideRepo repository.RideRepository, cacheStore *redis.CacheStore) *RideHandler {
	return &RideHandler{
		ledgerService: ledgerService,
		rideRepo:      rideRepo,
		cacheStore:    cacheStore,
	}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	RiderID      string  `json:"rider_id"`
	Pickup       string  `json:"pickup"`
	Dropoff      string  `json:"dropoff"`
	DistanceKm   float64 `json:"distance_km"`
	VehicleClass string  `json:"vehicle_class"`
}

// AssignDriverRequest is the HTTP request body for assigning a driver.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RideResponse is the HTTP response for ride data.
type RideResponse struct {
	ID           string  `json:"id"`
	RiderID      string  `json:"rider_id"`
	DriverID     string  `json:"driver_id,omitempty"`
	Pickup       string  `json:"pickup"`
	Dropoff      string  `json:"dropoff"`
	DistanceKm   float64 `json:"distance_km"`
	Fare         float64 `json:"fare"`
	VehicleClass string  `json:"vehicle_class"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	CancelledAt  string  `json:"cancelled_at,omitempty"`
	CancelReason string  `json:"cancel_reason,omitempty"`
}

// SettlementResponse is the HTTP response for settlement data.
type SettlementResponse struct {
	ID            string  `json:"id"`
	RideID        string  `json:"ride_id"`
	DriverID      string  `json:"driver_id"`
	GrossFare     float64 `json:"gross_fare"`
	DriverShare   float64 `json:"driver_share"`
	Commission    float64 `json:"commission"`
	CommissionPct float64 `json:"commission_pct"`
}

// CompleteRideResponse is the HTTP response for completing a ride.
type CompleteRideResponse struct {
	Ride       RideResponse        `json:"ride"`
	Settlement *SettlementResponse `json:"settlement,omitempty"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func toRideResponse(r *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:           r.ID,
		RiderID:      r.RiderID,
		DriverID:     r.DriverID,
		Pickup:       r.Pickup,
		Dropoff:      r.Dropoff,
		DistanceKm:   r.DistanceKm,
		Fare:         r.Fare,
		VehicleClass: string(r.VehicleClass),
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.Format(timeLayout),
	}
	if !r.CancelledAt.IsZero() {
		resp.CancelledAt = r.CancelledAt.Format(timeLayout)
		resp.CancelReason = r.CancelReason
	}
	return resp
}

func toSettlementResponse(s *domain.Settlement) *SettlementResponse {
	if s == nil {
		return nil
	}
	return &SettlementResponse{
		ID:            s.ID,
		RideID:        s.RideID,
		DriverID:      s.DriverID,
		GrossFare:     s.GrossFare,
		DriverShare:   s.DriverShare,
		Commission:    s.Commission,
		CommissionPct: s.CommissionPct,
	}
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.ledgerService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		RiderID:      req.RiderID,
		Pickup:       req.Pickup,
		Dropoff:      req.Dropoff,
		DistanceKm:   req.DistanceKm,
		VehicleClass: domain.VehicleClass(req.VehicleClass),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID := c.Param("id")
	ctx := c.Request.Context()

	// Read through the cache; the ledger invalidates on every transition.
	if h.cacheStore != nil {
		cached, err := h.cacheStore.GetRide(ctx, rideID)
		if err == nil && cached != nil {
			respondJSON(c, http.StatusOK, RideResponse{
				ID:           cached.ID,
				RiderID:      cached.RiderID,
				DriverID:     cached.DriverID,
				Pickup:       cached.Pickup,
				Dropoff:      cached.Dropoff,
				DistanceKm:   cached.DistanceKm,
				Fare:         cached.Fare,
				VehicleClass: cached.VehicleClass,
				Status:       cached.Status,
				CreatedAt:    cached.CreatedAt,
			})
			return
		}
	}

	ride, err := h.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cacheStore != nil {
		_ = h.cacheStore.SetRide(ctx, &redis.CachedRide{
			ID:           ride.ID,
			RiderID:      ride.RiderID,
			DriverID:     ride.DriverID,
			Pickup:       ride.Pickup,
			Dropoff:      ride.Dropoff,
			DistanceKm:   ride.DistanceKm,
			Fare:         ride.Fare,
			VehicleClass: string(ride.VehicleClass),
			Status:       string(ride.Status),
			CreatedAt:    ride.CreatedAt.Format(timeLayout),
		})
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// List handles GET /v1/rides?account_id=X
func (h *RideHandler) List(c *gin.Context) {
	rides, err := h.ledgerService.ListRidesForAccount(c.Request.Context(), c.Query("account_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}

	c.JSON(http.StatusOK, response)
}

// ListPending handles GET /v1/rides/pending?vehicle_class=C
func (h *RideHandler) ListPending(c *gin.Context) {
	rides, err := h.ledgerService.ListPendingRidesForVehicleClass(
		c.Request.Context(),
		domain.VehicleClass(c.Query("vehicle_class")),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}

	c.JSON(http.StatusOK, response)
}

// AssignDriver handles POST /v1/rides/:id/assign
func (h *RideHandler) AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.ledgerService.AssignDriver(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	result, err := h.ledgerService.CompleteRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CompleteRideResponse{
		Ride:       toRideResponse(result.Ride),
		Settlement: toSettlementResponse(result.Settlement),
	})
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.ledgerService.CancelRide(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetSettlement handles GET /v1/settlements/:rideId
func (h *RideHandler) GetSettlement(c *gin.Context) {
	settlement, err := h.ledgerService.GetSettlement(c.Request.Context(), c.Param("rideId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSettlementResponse(settlement))
}
