package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"settle/internal/domain"
	"settle/internal/service"
)

// PricingHandler handles fare quotes and admin pricing operations.
type PricingHandler struct {
	pricingStore *service.PricingStore
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingStore *service.PricingStore) *PricingHandler {
	return &PricingHandler{pricingStore: pricingStore}
}

// QuoteResponse is the HTTP response for a fare quote.
type QuoteResponse struct {
	DistanceKm   float64 `json:"distance_km"`
	VehicleClass string  `json:"vehicle_class"`
	Fare         float64 `json:"fare"`
}

// PricingResponse is the HTTP representation of the fare configuration.
type PricingResponse struct {
	BaseFare      float64 `json:"base_fare"`
	PricePerKm    float64 `json:"price_per_km"`
	MinimumFare   float64 `json:"minimum_fare"`
	CommissionPct float64 `json:"commission_pct"`
	SignupBonus   float64 `json:"signup_bonus"`
	Maintenance   bool    `json:"maintenance"`
}

// UpdatePricingRequest is the HTTP request body for the admin pricing update.
type UpdatePricingRequest struct {
	BaseFare      float64 `json:"base_fare"`
	PricePerKm    float64 `json:"price_per_km"`
	MinimumFare   float64 `json:"minimum_fare"`
	CommissionPct float64 `json:"commission_pct"`
	SignupBonus   float64 `json:"signup_bonus"`
	Maintenance   bool    `json:"maintenance"`
}

// Quote handles GET /v1/fares/quote?distance_km=D&vehicle_class=C
// Pure: no side effects, reads a snapshot of the live configuration.
func (h *PricingHandler) Quote(c *gin.Context) {
	distanceKm, err := strconv.ParseFloat(c.Query("distance_km"), 64)
	if err != nil || distanceKm < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid distance_km"})
		return
	}

	class, ok := domain.ParseVehicleClass(c.Query("vehicle_class"))
	if !ok {
		respondError(c, service.ErrInvalidVehicleClass)
		return
	}

	fare, err := service.QuoteFare(distanceKm, class, h.pricingStore.Current())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		DistanceKm:   distanceKm,
		VehicleClass: string(class),
		Fare:         fare,
	})
}

// GetPricing handles GET /v1/admin/pricing
func (h *PricingHandler) GetPricing(c *gin.Context) {
	cfg := h.pricingStore.Current()
	respondJSON(c, http.StatusOK, PricingResponse{
		BaseFare:      cfg.BaseFare,
		PricePerKm:    cfg.PricePerKm,
		MinimumFare:   cfg.MinimumFare,
		CommissionPct: cfg.CommissionPct,
		SignupBonus:   cfg.SignupBonus,
		Maintenance:   cfg.Maintenance,
	})
}

// UpdatePricing handles PUT /v1/admin/pricing
func (h *PricingHandler) UpdatePricing(c *gin.Context) {
	var req UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.pricingStore.Update(domain.PricingConfig{
		BaseFare:      req.BaseFare,
		PricePerKm:    req.PricePerKm,
		MinimumFare:   req.MinimumFare,
		CommissionPct: req.CommissionPct,
		SignupBonus:   req.SignupBonus,
		Maintenance:   req.Maintenance,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.GetPricing(c)
}
