package main

import (
	"os"
	"time"

	"github.com/art-pro/valuation-backend/internal/api"
	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/database"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/scheduler"
	"github.com/art-pro/valuation-backend/internal/services"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.InitializeAdminUser(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize admin user")
	}
	if err := database.InitializeSettings(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize settings")
	}

	provider := marketdata.NewStaticProvider(marketdata.DefaultUniverse()...)
	cache := marketdata.NewMemoryCache(time.Duration(cfg.CacheTTLMinutes) * time.Minute)
	overrides := marketdata.NewOverrideStore(db, logger)
	market := marketdata.NewService(provider, cache, overrides, logger)

	valuationService := services.NewValuationService(db, cfg, market, logger)
	alertService := services.NewAlertService(cfg, logger)

	if cfg.EnableScheduler {
		scheduler.Init(db, cfg, valuationService, alertService, logger)
	}

	router := api.SetupRouter(db, cfg, market, overrides, valuationService, logger)

	logger.Info().Str("port", cfg.Port).Msg("Starting valuation backend")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("Server exited")
	}
}
