// Package database opens the GORM connection, runs migrations and seeds
// first-run data.
package database

import (
	"fmt"

	"github.com/art-pro/valuation-backend/internal/auth"
	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the configured database: Postgres when DATABASE_URL is set,
// the SQLite file at DBPath otherwise.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return InitPostgres(cfg.DatabaseURL)
	}
	return InitDB(cfg.DBPath)
}

// InitDB opens (or creates) the SQLite database at path and runs migrations.
func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// InitPostgres connects to Postgres with the given DSN and runs migrations.
func InitPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.WatchedStock{},
		&models.ValuationRecord{},
		&models.FCFOverride{},
		&models.Settings{},
		&models.Alert{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InitializeAdminUser creates the admin account on first run. Existing users
// are left untouched.
func InitializeAdminUser(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	user := models.User{Username: username, Password: hashed}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

// InitializeSettings seeds the single settings row with its defaults on
// first run.
func InitializeSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Settings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}
	if count > 0 {
		return nil
	}

	settings := models.Settings{
		UpdateFrequency:      "daily",
		AlertsEnabled:        true,
		AlertThresholdUpside: 30.0,
	}
	if err := db.Create(&settings).Error; err != nil {
		return fmt.Errorf("failed to create default settings: %w", err)
	}
	return nil
}
