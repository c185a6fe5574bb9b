package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freight-dispatch/internal/config"
	"freight-dispatch/internal/delivery/http/handler"
	"freight-dispatch/internal/infrastructure/database/postgres"
	"freight-dispatch/internal/logger"
	"freight-dispatch/internal/middleware"
	dispatchUsecase "freight-dispatch/internal/usecase/dispatch"
	draftUsecase "freight-dispatch/internal/usecase/draft"
	loadUsecase "freight-dispatch/internal/usecase/load"
)

// Services bundles the wired use cases so the intake client and the job
// scheduler share the same instances as the HTTP layer.
type Services struct {
	Load     *loadUsecase.Service
	Dispatch *dispatchUsecase.Service
	Draft    *draftUsecase.Service
}

func SetupRoutes(cfg *config.Config, db *postgres.DB) (*gin.Engine, *Services) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware in order: recovery, request ID, logging, security headers,
	// CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	loadRepository := postgres.NewLoadRepository(db)
	driverRepository := postgres.NewDriverRepository(db)
	vehicleRepository := postgres.NewVehicleRepository(db)
	carrierRepository := postgres.NewCarrierRepository(db)
	draftRepository := postgres.NewDraftRepository(db)

	loadService := loadUsecase.NewService(loadRepository, carrierRepository)
	dispatchService := dispatchUsecase.NewService(loadRepository, driverRepository, vehicleRepository, carrierRepository)
	draftService := draftUsecase.NewService(draftRepository, loadService)

	loadHandler := handler.NewLoadHandler(loadService)
	dispatchHandler := handler.NewDispatchHandler(dispatchService)
	resourceHandler := handler.NewResourceHandler(loadRepository, driverRepository, vehicleRepository, carrierRepository)
	draftHandler := handler.NewDraftHandler(draftService)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			loadHandler.RegisterRoutes(protected)
			dispatchHandler.RegisterRoutes(protected)
			resourceHandler.RegisterRoutes(protected)
			draftHandler.RegisterRoutes(protected)
		}
	}

	logger.Info("All routes initialized")

	return router, &Services{
		Load:     loadService,
		Dispatch: dispatchService,
		Draft:    draftService,
	}
}
