package valuation

import (
	"math"

	"github.com/rs/zerolog"
)

// WACC and discount rate bounds.
const (
	waccFloor            = 0.05
	waccCap              = 0.20
	discountRateFallback = 0.10
	discountRateCap      = 0.30
	corporateTaxShield   = 0.75 // after-tax factor on cost of debt at a 25% rate
	terminalMultipleCap  = 30.0
	syntheticShares      = 1_000_000
)

// DCFResult is the discounted cash flow model output. DiscountRate is the
// rate actually used after WACC derivation and clamping.
type DCFResult struct {
	ModelResult
	DiscountRate    float64    `json:"discount_rate"`
	WACCApplied     bool       `json:"wacc_applied"`
	GrowthPath      GrowthPath `json:"growth_path,omitempty"`
	CashFlows       []float64  `json:"cash_flows,omitempty"`
	DiscountedFlows []float64  `json:"discounted_flows,omitempty"`
	TerminalValue   float64    `json:"terminal_value"`
	TerminalValuePV float64    `json:"terminal_value_pv"`
}

// DCFModel projects free cash flows along a growth path, discounts them at a
// WACC-derived or clamped caller rate, and adds a capped Gordon terminal
// value. Invalid inputs degrade to a zero-valued result with diagnostics
// rather than an error, so the combiner can exclude the model and continue.
type DCFModel struct {
	logger zerolog.Logger
	growth *GrowthEstimator
}

// NewDCFModel returns a DCF model with its own growth estimator.
func NewDCFModel(logger zerolog.Logger) *DCFModel {
	return &DCFModel{
		logger: logger,
		growth: NewGrowthEstimator(logger),
	}
}

// GrowthEstimator exposes the model's estimator so callers can build paths
// with the same gates the model applies internally.
func (m *DCFModel) GrowthEstimator() *GrowthEstimator { return m.growth }

// Valuate runs the full model: FCF resolution, growth path estimation and
// the discounted cash flow computation.
func (m *DCFModel) Valuate(in Inputs) DCFResult {
	res := DCFResult{ModelResult: ModelResult{Model: ModelDCF}}
	if in.Years < 1 {
		res.Err = &InvalidInputError{Reason: "projection years must be at least 1"}
		res.flag("invalid_years")
		return res
	}

	fcf, baseline, conservative := m.resolveBaseFCF(in, &res)

	sig := GrowthSignals{
		HistoricalFCF:  in.HistoricalFCF,
		AnalystGrowth:  in.AnalystGrowth,
		IndustryGrowth: in.IndustryGrowth,
	}
	if conservative {
		sig.GrowthCap = 0.15
	}
	path := m.growth.Path(baseline, in.TerminalGrowth, in.Years, sig)

	m.valuate(in, fcf, path, &res)
	return res
}

// ValuateWithPath runs the discounting against a caller-supplied growth
// path, bypassing estimation. The path is used as given.
func (m *DCFModel) ValuateWithPath(in Inputs, path GrowthPath) DCFResult {
	res := DCFResult{ModelResult: ModelResult{Model: ModelDCF}}
	if len(path) == 0 {
		res.Err = &InvalidInputError{Reason: "growth path is empty"}
		res.flag("invalid_growth_path")
		return res
	}
	fcf, _, _ := m.resolveBaseFCF(in, &res)
	m.valuate(in, fcf, path, &res)
	return res
}

// resolveBaseFCF substitutes a usable base cash flow when the reported one
// is non-positive: the most recent positive historical value when one
// exists, otherwise a floor of 0.10 per share with baseline growth capped at
// 5%. The returned bool marks the substitution so projections stay
// conservative.
func (m *DCFModel) resolveBaseFCF(in Inputs, res *DCFResult) (fcf, baseline float64, conservative bool) {
	fcf = in.FCF
	baseline = in.GrowthRate
	if fcf > 0 {
		return fcf, baseline, false
	}

	for i := len(in.HistoricalFCF) - 1; i >= 0; i-- {
		if in.HistoricalFCF[i] > 0 {
			m.logger.Warn().Str("symbol", in.Symbol).Float64("fcf", in.FCF).
				Float64("substitute", in.HistoricalFCF[i]).Msg("Negative FCF, using last positive historical value")
			res.flag("fcf_substituted_historical")
			return in.HistoricalFCF[i], baseline, true
		}
	}

	shares := in.SharesOutstanding
	if shares <= 0 {
		shares = syntheticShares
	}
	fcf = shares * 0.1
	baseline = math.Min(baseline, 0.05)
	m.logger.Warn().Str("symbol", in.Symbol).Float64("fcf", in.FCF).
		Float64("substitute", fcf).Msg("Negative FCF with no positive history, using per-share floor")
	res.flag("fcf_substituted_floor")
	return fcf, baseline, true
}

func (m *DCFModel) valuate(in Inputs, fcf float64, path GrowthPath, res *DCFResult) {
	res.GrowthPath = path

	shares := in.SharesOutstanding
	if shares <= 0 {
		m.logger.Warn().Str("symbol", in.Symbol).Float64("shares", in.SharesOutstanding).
			Msg("Invalid shares outstanding, substituting synthetic count")
		shares = syntheticShares
		res.flag("shares_substituted")
	}

	rate, waccApplied := m.effectiveDiscountRate(in)
	res.DiscountRate = rate
	res.WACCApplied = waccApplied

	if rate <= in.TerminalGrowth {
		res.Err = &NumericalInstabilityError{DiscountRate: rate, TerminalGrowth: in.TerminalGrowth}
		res.flag("discount_rate_unstable")
		m.logger.Warn().Str("symbol", in.Symbol).Err(res.Err).Msg("DCF degraded to zero result")
		return
	}

	flows := make([]float64, len(path))
	prev := fcf
	for i, g := range path {
		prev *= 1 + g
		flows[i] = prev
	}
	res.CashFlows = flows

	final := flows[len(flows)-1]
	if final <= 0 {
		res.Err = &InvalidInputError{Reason: "projected cash flows are non-positive"}
		res.flag("non_positive_projection")
		return
	}

	discounted := make([]float64, len(flows))
	sum := 0.0
	for i, f := range flows {
		discounted[i] = f / math.Pow(1+rate, float64(i+1))
		sum += discounted[i]
	}
	res.DiscountedFlows = discounted

	terminal := final * (1 + in.TerminalGrowth) / (rate - in.TerminalGrowth)
	if terminal/final > terminalMultipleCap {
		res.flag("terminal_multiple_capped")
		terminal = final * terminalMultipleCap
	}
	res.TerminalValue = terminal
	res.TerminalValuePV = terminal / math.Pow(1+rate, float64(len(flows)))

	res.EnterpriseValue = sum + res.TerminalValuePV
	res.EquityValue = res.EnterpriseValue - in.NetDebt
	perShare := res.EquityValue / shares
	if perShare < 0 {
		res.flag("negative_equity_floored")
		perShare = 0
	}
	res.PerShareValue = perShare
}

// effectiveDiscountRate prefers a WACC computed from complete CAPM inputs,
// clamped to [5%, 20%]; otherwise the caller's rate clamped into (1%, 30%].
func (m *DCFModel) effectiveDiscountRate(in Inputs) (float64, bool) {
	if in.CAPM.Complete() {
		premium := in.CAPM.MarketRiskPremium
		if premium <= 0 {
			premium = 0.05
		}
		costOfEquity := in.CAPM.RiskFreeRate + in.CAPM.Beta*premium
		equityWeight := 1 / (1 + in.CAPM.DebtToEquity)
		afterTaxDebt := in.CAPM.CostOfDebt * corporateTaxShield

		wacc := costOfEquity*equityWeight + afterTaxDebt*(1-equityWeight)
		wacc = math.Max(math.Min(wacc, waccCap), waccFloor)
		return wacc, true
	}

	rate := in.DiscountRate
	switch {
	case rate <= 0.01:
		m.logger.Debug().Float64("rate", rate).Msg("Discount rate too low, using 10%")
		rate = discountRateFallback
	case rate >= discountRateCap:
		rate = discountRateCap
	}
	return rate, false
}
