package scheduler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/art-pro/valuation-backend/internal/services"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSchedulerTest(t *testing.T) (*gorm.DB, *services.ValuationService, *config.Config) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "scheduler-test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(&models.WatchedStock{}, &models.ValuationRecord{},
		&models.FCFOverride{}, &models.Settings{}, &models.Alert{})
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{AlertThresholdUpside: 30}
	provider := marketdata.NewStaticProvider(marketdata.DefaultUniverse()...)
	market := marketdata.NewService(provider, nil, nil, zerolog.Nop())
	svc := services.NewValuationService(db, cfg, market, zerolog.Nop())
	return db, svc, cfg
}

func TestRefreshWatchlistValuesTrackedSymbols(t *testing.T) {
	t.Parallel()

	db, svc, cfg := setupSchedulerTest(t)
	seed := []models.WatchedStock{
		{Symbol: "AAPL", UpdateFrequency: "daily"},
		{Symbol: "MSFT", UpdateFrequency: "manually"},
		{Symbol: "UNKNOWN", UpdateFrequency: "daily"},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed watchlist failed: %v", err)
		}
	}

	RefreshWatchlist(context.Background(), db, cfg, svc, zerolog.Nop())

	// Only the daily symbol with known data gets a record; the manual one
	// is skipped and the unknown one fails without stopping the run.
	var records []models.ValuationRecord
	if err := db.Find(&records).Error; err != nil {
		t.Fatalf("load records failed: %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "AAPL" {
		t.Fatalf("records: got %+v want one AAPL row", records)
	}

	var watched models.WatchedStock
	if err := db.Where("symbol = ?", "AAPL").First(&watched).Error; err != nil {
		t.Fatalf("load watched row failed: %v", err)
	}
	if watched.LastValuedAt.IsZero() {
		t.Fatalf("expected LastValuedAt to be set after refresh")
	}
}

func TestRefreshWatchlistRaisesUpsideAlerts(t *testing.T) {
	t.Parallel()

	db, svc, cfg := setupSchedulerTest(t)

	// A low threshold guarantees the clamped upside (at most 50%) crosses it.
	cfg.AlertThresholdUpside = 1
	if err := db.Create(&models.WatchedStock{Symbol: "NVDA", UpdateFrequency: "daily"}).Error; err != nil {
		t.Fatalf("seed watchlist failed: %v", err)
	}

	RefreshWatchlist(context.Background(), db, cfg, svc, zerolog.Nop())

	var record models.ValuationRecord
	if err := db.Where("symbol = ?", "NVDA").First(&record).Error; err != nil {
		t.Fatalf("load record failed: %v", err)
	}

	var alerts []models.Alert
	if err := db.Find(&alerts).Error; err != nil {
		t.Fatalf("load alerts failed: %v", err)
	}
	if record.UpsidePercent >= 1 {
		if len(alerts) != 1 || alerts[0].Symbol != "NVDA" || alerts[0].AlertType != "upside" {
			t.Fatalf("alerts: got %+v want one NVDA upside alert", alerts)
		}
		if alerts[0].EmailSent {
			t.Fatalf("new alerts must start unsent")
		}
	} else if len(alerts) != 0 {
		t.Fatalf("no alert expected below threshold, got %+v", alerts)
	}
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "positive with decimals", in: 4.25, want: "4.25"},
		{name: "rounding", in: 1.236, want: "1.24"},
		{name: "integer", in: 10, want: "10.00"},
		{name: "negative", in: -3.5, want: "-3.50"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := formatFloat(tc.in); got != tc.want {
				t.Fatalf("formatFloat(%v): got %q want %q", tc.in, got, tc.want)
			}
		})
	}
}
