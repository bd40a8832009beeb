// Package marketdata resolves the fundamentals a valuation run needs. A
// Provider yields raw per-symbol snapshots, a Cache keeps them warm between
// calls, and the Service derives fully clamped engine inputs from them. The
// valuation engine itself never reaches back into this package; it only
// consumes the resolved inputs.
package marketdata

import (
	"context"
	"errors"
)

// ErrUnknownSymbol is returned when no provider has data for the requested
// symbol.
var ErrUnknownSymbol = errors.New("marketdata: unknown symbol")

// FundamentalsSnapshot is the raw per-symbol data a provider returns. Any
// field may be zero when the upstream source has no figure; defaults and
// clamping are the Service's job, not the provider's.
type FundamentalsSnapshot struct {
	Symbol               string    `json:"symbol"`
	CurrentPrice         float64   `json:"current_price"`
	HistoricalVolatility float64   `json:"historical_volatility"`
	FreeCashFlow         float64   `json:"free_cash_flow"`
	HistoricalFCF        []float64 `json:"historical_fcf,omitempty"` // oldest to newest
	NetIncome            float64   `json:"net_income"`
	EBITDA               float64   `json:"ebitda"`
	TotalDebt            float64   `json:"total_debt"`
	CashAndEquivalents   float64   `json:"cash_and_equivalents"`
	SharesOutstanding    float64   `json:"shares_outstanding"`
	EarningsGrowth       float64   `json:"earnings_growth"`
	RevenueGrowth        float64   `json:"revenue_growth"`
	Beta                 float64   `json:"beta"`
	RiskFreeRate         float64   `json:"risk_free_rate"`
	PERatio              float64   `json:"pe_ratio"`
	InterestExpense      float64   `json:"interest_expense"`
	EPS                  float64   `json:"eps"`
}

// Volatility returns the annualized historical volatility, falling back to
// the 25% assumption when the source had no figure.
func (s FundamentalsSnapshot) Volatility() float64 {
	if s.HistoricalVolatility > 0 {
		return s.HistoricalVolatility
	}
	return defaultVolatility
}

// Provider fetches fundamentals for a symbol.
type Provider interface {
	Snapshot(ctx context.Context, symbol string) (FundamentalsSnapshot, error)
}
