package valuation

import (
	"math"

	"github.com/rs/zerolog"
)

// Terminal multiple assumptions for the horizon-compounding models.
const (
	defaultTerminalPE    = 18.0
	highGrowthTerminalPE = 25.0 // floor when growth exceeds 25%
	midGrowthTerminalPE  = 20.0 // floor when growth exceeds 15%
	defaultFCFYield      = 0.04
)

// EPSResult is the EPS-growth model output. FuturePrice is the undiscounted
// horizon price, PerShareValue its present value.
type EPSResult struct {
	ModelResult
	TerminalPE    float64 `json:"terminal_pe"`
	FutureEPS     float64 `json:"future_eps"`
	FuturePrice   float64 `json:"future_price"`
	ImpliedReturn float64 `json:"implied_return"`
}

// EPSGrowthModel compounds earnings per share to the horizon, applies a
// growth-adjusted terminal multiple and discounts the resulting price back.
type EPSGrowthModel struct {
	logger zerolog.Logger

	// TerminalPE overrides the default horizon multiple when positive.
	TerminalPE float64
}

func NewEPSGrowthModel(logger zerolog.Logger) *EPSGrowthModel {
	return &EPSGrowthModel{logger: logger}
}

func (m *EPSGrowthModel) Valuate(in Inputs) EPSResult {
	res := EPSResult{ModelResult: ModelResult{Model: ModelEPS}}
	if in.EPS <= 0 || in.Years < 1 {
		res.Err = &InvalidInputError{Reason: "eps must be positive and years at least 1 for the EPS growth model"}
		res.flag("invalid_eps_inputs")
		return res
	}

	rate := in.DiscountRate
	if rate <= 0 {
		rate = discountRateFallback
	}

	terminalPE := m.TerminalPE
	if terminalPE <= 0 {
		terminalPE = defaultTerminalPE
	}
	// Sustained growth supports a richer exit multiple.
	switch {
	case in.GrowthRate > 0.25:
		terminalPE = math.Max(terminalPE, highGrowthTerminalPE)
	case in.GrowthRate > 0.15:
		terminalPE = math.Max(terminalPE, midGrowthTerminalPE)
	}

	years := float64(in.Years)
	res.TerminalPE = terminalPE
	res.FutureEPS = in.EPS * math.Pow(1+in.GrowthRate, years)
	res.FuturePrice = res.FutureEPS * terminalPE
	res.PerShareValue = res.FuturePrice / math.Pow(1+rate, years)
	if in.CurrentPrice > 0 {
		res.ImpliedReturn = math.Pow(res.FuturePrice/in.CurrentPrice, 1/years) - 1
	}
	return res
}

// FCFYieldResult is the free-cash-flow yield model output.
type FCFYieldResult struct {
	ModelResult
	FutureFCFPerShare float64 `json:"future_fcf_per_share"`
	FuturePrice       float64 `json:"future_price"`
	RequiredYield     float64 `json:"required_yield"`
}

// FCFYieldModel compounds free cash flow per share to the horizon and
// prices it at a required cash yield, discounting the result back.
type FCFYieldModel struct {
	logger zerolog.Logger

	// RequiredYield overrides the default 4% when positive.
	RequiredYield float64
}

func NewFCFYieldModel(logger zerolog.Logger) *FCFYieldModel {
	return &FCFYieldModel{logger: logger}
}

func (m *FCFYieldModel) Valuate(in Inputs) FCFYieldResult {
	res := FCFYieldResult{ModelResult: ModelResult{Model: ModelFCFYield}}
	if in.FCF <= 0 || in.SharesOutstanding <= 0 || in.Years < 1 {
		res.Err = &InvalidInputError{Reason: "fcf and shares outstanding must be positive for the FCF yield model"}
		res.flag("invalid_fcf_inputs")
		return res
	}

	yield := m.RequiredYield
	if yield <= 0 {
		yield = defaultFCFYield
	}
	rate := in.DiscountRate
	if rate <= 0 {
		rate = discountRateFallback
	}

	years := float64(in.Years)
	res.RequiredYield = yield
	res.FutureFCFPerShare = in.FCF / in.SharesOutstanding * math.Pow(1+in.GrowthRate, years)
	res.FuturePrice = res.FutureFCFPerShare / yield
	res.PerShareValue = res.FuturePrice / math.Pow(1+rate, years)
	return res
}
