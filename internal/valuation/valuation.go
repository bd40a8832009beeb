// Package valuation implements the intrinsic-value engine: growth path
// estimation, a discounted cash flow model with WACC support, multiple-based
// models, horizon-compounding per-share models and the weighted combination
// of their results. All functions are pure computations over already-resolved
// numeric inputs; fetching and persisting those inputs is the caller's job.
package valuation

// CAPMInputs are the cost-of-capital drivers used to derive a WACC-based
// discount rate.
type CAPMInputs struct {
	Beta              float64 `json:"beta"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	DebtToEquity      float64 `json:"debt_to_equity"`
	CostOfDebt        float64 `json:"cost_of_debt"`
}

// Complete reports whether every driver the WACC formula needs is usable.
// MarketRiskPremium is not required; a missing premium falls back to the
// standard 5% assumption.
func (c *CAPMInputs) Complete() bool {
	return c != nil && c.Beta > 0 && c.RiskFreeRate > 0 && c.DebtToEquity >= 0 && c.CostOfDebt > 0
}

// Inputs carries everything the valuation models consume for one symbol.
// Monetary fields are raw currency units, rates are decimal fractions.
// Pointer fields are optional signals; nil means the signal is absent, which
// is different from a zero value.
type Inputs struct {
	Symbol            string    `json:"symbol"`
	CurrentPrice      float64   `json:"current_price"`
	FCF               float64   `json:"fcf"`
	EPS               float64   `json:"eps"`
	EBITDA            float64   `json:"ebitda"`
	SharesOutstanding float64   `json:"shares_outstanding"`
	NetDebt           float64   `json:"net_debt"`
	GrowthRate        float64   `json:"growth_rate"`
	DiscountRate      float64   `json:"discount_rate"`
	TerminalGrowth    float64   `json:"terminal_growth"`
	Years             int       `json:"years"`
	HistoricalFCF     []float64 `json:"historical_fcf,omitempty"` // oldest to newest

	CAPM           *CAPMInputs `json:"capm,omitempty"`
	AnalystGrowth  *float64    `json:"analyst_growth,omitempty"`
	IndustryGrowth *float64    `json:"industry_growth,omitempty"`
	IndustryPE     *float64    `json:"industry_pe,omitempty"`
	IndustryEVMult *float64    `json:"industry_ev_multiple,omitempty"`
}

// Model name keys used in weight maps and combined results.
const (
	ModelDCF      = "dcf"
	ModelPE       = "pe"
	ModelEVEBITDA = "ev_ebitda"
	ModelEPS      = "eps_growth"
	ModelFCFYield = "fcf_yield"
)

// ModelResult is the common shape of a single model's output. A
// PerShareValue of 0 means the model could not produce a usable value and
// must be excluded from the combination; it is never negative. Err, when
// set, explains why the result degraded to zero.
type ModelResult struct {
	Model           string   `json:"model"`
	EnterpriseValue float64  `json:"enterprise_value"`
	EquityValue     float64  `json:"equity_value"`
	PerShareValue   float64  `json:"per_share_value"`
	Diagnostics     []string `json:"diagnostics,omitempty"`
	Err             error    `json:"-"`
}

// Valid reports whether the result may participate in a weighted combination.
func (r ModelResult) Valid() bool { return r.PerShareValue > 0 }

func (r *ModelResult) flag(d string) { r.Diagnostics = append(r.Diagnostics, d) }

// GrowthPath is the per-year growth fractions used to project flows.
type GrowthPath []float64

// Uniform returns a path that repeats rate for every projection year.
func Uniform(rate float64, years int) GrowthPath {
	if years < 1 {
		return nil
	}
	path := make(GrowthPath, years)
	for i := range path {
		path[i] = rate
	}
	return path
}
