package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"settle/internal/handler"
	"settle/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AccountHandler *handler.AccountHandler
	RideHandler    *handler.RideHandler
	PricingHandler *handler.PricingHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Account routes.
		accounts := v1.Group("/accounts")
		{
			accounts.POST("/register", deps.AccountHandler.Register)
			accounts.GET("", deps.AccountHandler.GetAll)
			accounts.GET("/:id", deps.AccountHandler.Get)
			accounts.PATCH("/:id", deps.AccountHandler.UpdateProfile)
			accounts.POST("/:id/online", deps.AccountHandler.SetOnline)
			accounts.POST("/:id/verify", deps.AccountHandler.Verify)
			accounts.POST("/:id/rate", deps.AccountHandler.Rate)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.List)
			rides.GET("/pending", deps.RideHandler.ListPending)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/assign", deps.RideHandler.AssignDriver)
			rides.POST("/:id/complete", deps.RideHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
		}

		// Settlement routes.
		v1.GET("/settlements/:rideId", deps.RideHandler.GetSettlement)

		// Fare quotes.
		v1.GET("/fares/quote", deps.PricingHandler.Quote)

		// Admin routes.
		admin := v1.Group("/admin")
		{
			admin.GET("/pricing", deps.PricingHandler.GetPricing)
			admin.PUT("/pricing", deps.PricingHandler.UpdatePricing)
		}
	}

	return router
}
