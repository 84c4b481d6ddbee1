package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"settle/internal/repository"
	"settle/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidAccountID),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidVehicleClass),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPricing):
		return http.StatusBadRequest

	// Conflict errors - illegal transitions and duplicates
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRideAlreadyCompleted),
		errors.Is(err, service.ErrRideAlreadyCancelled),
		errors.Is(err, service.ErrNoDriverAssigned),
		errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrMaintenanceMode):
		return http.StatusServiceUnavailable

	// Default to internal server error (storage unavailable and friends)
	default:
		return http.StatusInternalServerError
	}
}
