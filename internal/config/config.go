// Package config loads runtime configuration from the environment with
// sensible development defaults.
package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration.
type Config struct {
	Port        string
	FrontendURL string

	// DatabaseURL selects Postgres when set; otherwise the SQLite file at
	// DBPath is used.
	DatabaseURL string
	DBPath      string

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	SendGridAPIKey string
	AlertFromEmail string
	AlertRecipient string

	EnableScheduler        bool
	DefaultUpdateFrequency string
	DailyUpdateTime        string
	AlertThresholdUpside   float64

	CacheTTLMinutes      int
	DefaultYears         int
	DefaultDesiredReturn float64
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBPath:      getEnv("DB_PATH", "valuation.db"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "changeme"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		AlertFromEmail: getEnv("ALERT_FROM_EMAIL", "alerts@valuation.local"),
		AlertRecipient: getEnv("ALERT_RECIPIENT", ""),

		EnableScheduler:        getEnvBool("ENABLE_SCHEDULER", false),
		DefaultUpdateFrequency: getEnv("DEFAULT_UPDATE_FREQUENCY", "daily"),
		DailyUpdateTime:        getEnv("DAILY_UPDATE_TIME", "00:00"),
		AlertThresholdUpside:   getEnvFloat("ALERT_THRESHOLD_UPSIDE", 30),

		CacheTTLMinutes:      getEnvInt("CACHE_TTL_MINUTES", 15),
		DefaultYears:         getEnvInt("DEFAULT_PROJECTION_YEARS", 5),
		DefaultDesiredReturn: getEnvFloat("DEFAULT_DESIRED_RETURN", 0.15),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
