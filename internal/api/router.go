// Package api wires the Gin router: route groups, CORS and the JWT guard
// on mutating endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/art-pro/valuation-backend/internal/api/handlers"
	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/middleware"
	"github.com/art-pro/valuation-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter builds the HTTP surface. Read-only pricing and valuation
// endpoints are public; the watchlist, overrides and account management
// require a valid token.
func SetupRouter(db *gorm.DB, cfg *config.Config, market *marketdata.Service, overrides *marketdata.OverrideStore, svc *services.ValuationService, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(db, cfg, logger)
	valuationHandler := handlers.NewValuationHandler(cfg, svc, logger)
	optionHandler := handlers.NewOptionHandler(cfg, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(logger)
	watchlistHandler := handlers.NewWatchlistHandler(db, cfg, svc, logger)
	overrideHandler := handlers.NewOverrideHandler(overrides, logger)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/login", authHandler.Login)

		apiGroup.POST("/valuation", valuationHandler.Evaluate)
		apiGroup.GET("/valuation/:symbol", valuationHandler.EvaluateSymbol)
		apiGroup.POST("/valuation/sensitivity", valuationHandler.Sensitivity)
		apiGroup.POST("/valuation/montecarlo", valuationHandler.MonteCarlo)

		apiGroup.POST("/options/price", optionHandler.Price)
		apiGroup.POST("/options/surface", optionHandler.Surface)
		apiGroup.POST("/options/density", optionHandler.Density)

		apiGroup.POST("/analytics/cycles", analyticsHandler.Cycles)
		apiGroup.POST("/analytics/noise", analyticsHandler.Noise)
	}

	protected := apiGroup.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		protected.GET("/watchlist", watchlistHandler.List)
		protected.POST("/watchlist", watchlistHandler.Add)
		protected.DELETE("/watchlist/:symbol", watchlistHandler.Remove)
		protected.POST("/watchlist/refresh", watchlistHandler.Refresh)

		protected.GET("/overrides", overrideHandler.List)
		protected.GET("/overrides/:symbol", overrideHandler.Get)
		protected.PUT("/overrides/:symbol", overrideHandler.Set)
		protected.DELETE("/overrides/:symbol", overrideHandler.Delete)
	}

	return r
}
