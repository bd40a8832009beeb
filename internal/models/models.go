// Package models defines the persisted GORM entities shared by the API
// handlers, services and scheduler.
package models

import "time"

// User is an authenticated account. Passwords are stored as bcrypt hashes,
// never in plain text.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WatchedStock is a symbol the scheduler re-values on its configured
// frequency and the watchlist endpoints manage. The latest headline figures
// are denormalized onto the row; the full detail lives in ValuationRecord.
type WatchedStock struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Symbol          string    `gorm:"uniqueIndex;not null" json:"symbol"`
	CompanyName     string    `json:"company_name"`
	UpdateFrequency string    `gorm:"default:daily" json:"update_frequency"`
	CurrentPrice    float64   `json:"current_price"`
	IntrinsicValue  float64   `json:"intrinsic_value"`
	UpsidePercent   float64   `json:"upside_percent"`
	Assessment      string    `json:"assessment"`
	WasClamped      bool      `json:"was_clamped"`
	LastValuedAt    time.Time `json:"last_valued_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValuationRecord is the latest stored valuation for a symbol. Exactly one
// row per symbol; every evaluation replaces the previous one.
type ValuationRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Symbol          string    `gorm:"uniqueIndex;not null" json:"symbol"`
	CurrentPrice    float64   `json:"current_price"`
	IntrinsicValue  float64   `json:"intrinsic_value"`
	UnclampedValue  float64   `json:"unclamped_value"`
	WasClamped      bool      `json:"was_clamped"`
	UpsidePercent   float64   `json:"upside_percent"`
	EntryPrice      float64   `json:"entry_price"`
	ImpliedReturn   float64   `json:"implied_return"`
	Assessment      string    `json:"assessment"`
	GrowthRate      float64   `json:"growth_rate"`
	DiscountRate    float64   `json:"discount_rate"`
	DCFValue        float64   `json:"dcf_value"`
	DCFWeight       float64   `json:"dcf_weight"`
	PEValue         float64   `json:"pe_value"`
	PEWeight        float64   `json:"pe_weight"`
	EVEBITDAValue   float64   `json:"ev_ebitda_value"`
	EVEBITDAWeight  float64   `json:"ev_ebitda_weight"`
	EPSGrowthValue  float64   `json:"eps_growth_value"`
	EPSGrowthWeight float64   `json:"eps_growth_weight"`
	FCFYieldValue   float64   `json:"fcf_yield_value"`
	FCFYieldWeight  float64   `json:"fcf_yield_weight"`
	Diagnostics     string    `json:"diagnostics"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

// FCFOverride pins a manual free cash flow figure for a symbol. While
// present it takes precedence over provider data.
type FCFOverride struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"uniqueIndex;not null" json:"symbol"`
	FCF       float64   `json:"fcf"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings is the single-row scheduler and alerting configuration.
type Settings struct {
	ID                   uint    `gorm:"primaryKey" json:"id"`
	UpdateFrequency      string  `gorm:"default:daily" json:"update_frequency"`
	AlertsEnabled        bool    `gorm:"default:true" json:"alerts_enabled"`
	AlertThresholdUpside float64 `gorm:"default:30" json:"alert_threshold_upside"`
}

// Alert is a notification raised by the scheduler, kept until the email
// sender has delivered it.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"index" json:"symbol"`
	AlertType string    `json:"alert_type"`
	Message   string    `json:"message"`
	EmailSent bool      `gorm:"default:false" json:"email_sent"`
	CreatedAt time.Time `json:"created_at"`
}
