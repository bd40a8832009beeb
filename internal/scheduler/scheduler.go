// Package scheduler runs the periodic watchlist re-valuation and delivers
// the upside alerts it raises.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/art-pro/valuation-backend/internal/services"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Init starts the cron scheduler: a daily re-valuation of the watchlist at
// the configured time and an hourly sweep of unsent alerts.
func Init(db *gorm.DB, cfg *config.Config, svc *services.ValuationService, alerts *services.AlertService, logger zerolog.Logger) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)

	s.Every(1).Day().At(cfg.DailyUpdateTime).Do(func() {
		RefreshWatchlist(context.Background(), db, cfg, svc, logger)
	})

	s.Every(1).Hour().Do(func() {
		sendPendingAlerts(db, alerts, logger)
	})

	s.StartAsync()
	logger.Info().Str("daily_at", cfg.DailyUpdateTime).Msg("Scheduler initialized and started")
	return s
}

// RefreshWatchlist re-values every watched symbol with fresh provider data
// and records upside alerts that cross the configured threshold. Failures
// are per symbol; one bad ticker never stops the run.
func RefreshWatchlist(ctx context.Context, db *gorm.DB, cfg *config.Config, svc *services.ValuationService, logger zerolog.Logger) {
	runLogger := logger.With().Str("run_id", uuid.NewString()).Logger()

	var stocks []models.WatchedStock
	if err := db.Where("update_frequency <> ?", "manually").Find(&stocks).Error; err != nil {
		runLogger.Error().Err(err).Msg("Failed to fetch watchlist for scheduled update")
		return
	}
	runLogger.Info().Int("count", len(stocks)).Msg("Re-valuing watchlist")

	threshold := alertThreshold(db, cfg)

	for _, stock := range stocks {
		report, err := svc.EvaluateSymbol(ctx, stock.Symbol, marketdata.ResolveOptions{BypassCache: true})
		if err != nil {
			runLogger.Warn().Err(err).Str("symbol", stock.Symbol).Msg("Failed to re-value symbol")
			continue
		}
		runLogger.Debug().Str("symbol", stock.Symbol).
			Float64("intrinsic", report.Combined.IntrinsicValue).
			Float64("upside", report.Combined.UpsidePercent).
			Msg("Symbol re-valued")

		if threshold > 0 && report.Combined.UpsidePercent >= threshold {
			alert := models.Alert{
				Symbol:    stock.Symbol,
				AlertType: "upside",
				Message: fmt.Sprintf("%s upside is %s%% (intrinsic %s vs price %s)",
					stock.Symbol,
					formatFloat(report.Combined.UpsidePercent),
					formatFloat(report.Combined.IntrinsicValue),
					formatFloat(report.Inputs.CurrentPrice)),
			}
			if err := db.Create(&alert).Error; err != nil {
				runLogger.Error().Err(err).Str("symbol", stock.Symbol).Msg("Failed to record alert")
			}
		}
	}
}

// sendPendingAlerts emails every alert not yet delivered and marks the
// successes.
func sendPendingAlerts(db *gorm.DB, alerts *services.AlertService, logger zerolog.Logger) {
	if !alerts.Enabled() {
		return
	}

	var settings models.Settings
	if err := db.First(&settings).Error; err == nil && !settings.AlertsEnabled {
		return
	}

	var pending []models.Alert
	if err := db.Where("email_sent = ?", false).Find(&pending).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to fetch unsent alerts")
		return
	}
	if len(pending) == 0 {
		return
	}
	logger.Info().Int("count", len(pending)).Msg("Sending pending alerts")

	for _, alert := range pending {
		if err := alerts.SendAlert(alert); err != nil {
			logger.Warn().Err(err).Uint("alert_id", alert.ID).Msg("Failed to send alert")
			continue
		}
		alert.EmailSent = true
		if err := db.Save(&alert).Error; err != nil {
			logger.Error().Err(err).Uint("alert_id", alert.ID).Msg("Failed to mark alert as sent")
		}
	}
}

// alertThreshold prefers the stored settings row over the environment
// default.
func alertThreshold(db *gorm.DB, cfg *config.Config) float64 {
	var settings models.Settings
	if err := db.First(&settings).Error; err == nil {
		if !settings.AlertsEnabled {
			return 0
		}
		if settings.AlertThresholdUpside > 0 {
			return settings.AlertThresholdUpside
		}
	}
	return cfg.AlertThresholdUpside
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
