package valuation

import (
	"math"

	"github.com/rs/zerolog"
)

// Multiple bounds and the industry blend split shared by both models.
const (
	peFloor             = 5.0
	peCap               = 50.0
	evMultipleFloor     = 4.0
	evMultipleCap       = 25.0
	evBaseMultiple      = 6.0 // zero-growth EV/EBITDA multiple
	industryBlendWeight = 0.3
)

// PEResult is the earnings-multiple model output. PerShareValue is the fair
// value, eps times the target multiple.
type PEResult struct {
	ModelResult
	TargetPE float64 `json:"target_pe"`
}

// PEModel derives a justified price-to-earnings multiple from the growth
// rate via a PEG heuristic and applies it to current earnings per share.
type PEModel struct {
	logger zerolog.Logger
}

func NewPEModel(logger zerolog.Logger) *PEModel {
	return &PEModel{logger: logger}
}

// Valuate computes eps times the growth-justified multiple. Requires
// positive eps; otherwise returns a zero result for the combiner to skip.
func (m *PEModel) Valuate(in Inputs) PEResult {
	res := PEResult{ModelResult: ModelResult{Model: ModelPE}}
	if in.EPS <= 0 {
		m.logger.Debug().Str("symbol", in.Symbol).Float64("eps", in.EPS).Msg("P/E model skipped, non-positive EPS")
		res.Err = &InvalidInputError{Reason: "eps must be positive for the P/E model"}
		res.flag("non_positive_eps")
		return res
	}

	// Faster growers warrant a tighter PEG, slow growers a looser one.
	peg := 1.0
	switch {
	case in.GrowthRate > 0.25:
		peg = 0.8
	case in.GrowthRate < 0.10:
		peg = 1.2
	}

	targetPE := in.GrowthRate * 100 * peg
	targetPE = math.Max(math.Min(targetPE, peCap), peFloor)
	if in.IndustryPE != nil && *in.IndustryPE > 0 {
		targetPE = targetPE*(1-industryBlendWeight) + *in.IndustryPE*industryBlendWeight
	}

	res.TargetPE = targetPE
	res.PerShareValue = in.EPS * targetPE
	return res
}

// EVEBITDAResult is the enterprise-multiple model output.
type EVEBITDAResult struct {
	ModelResult
	Multiple float64 `json:"ev_ebitda_multiple"`
}

// EVEBITDAModel values the enterprise at a growth-scaled EV/EBITDA multiple
// and backs the per-share equity value out of it.
type EVEBITDAModel struct {
	logger zerolog.Logger
}

func NewEVEBITDAModel(logger zerolog.Logger) *EVEBITDAModel {
	return &EVEBITDAModel{logger: logger}
}

// Valuate requires positive EBITDA and shares outstanding; otherwise it
// returns a zero result for the combiner to skip.
func (m *EVEBITDAModel) Valuate(in Inputs) EVEBITDAResult {
	res := EVEBITDAResult{ModelResult: ModelResult{Model: ModelEVEBITDA}}
	if in.EBITDA <= 0 || in.SharesOutstanding <= 0 {
		m.logger.Debug().Str("symbol", in.Symbol).Float64("ebitda", in.EBITDA).
			Float64("shares", in.SharesOutstanding).Msg("EV/EBITDA model skipped, invalid inputs")
		res.Err = &InvalidInputError{Reason: "ebitda and shares outstanding must be positive for the EV/EBITDA model"}
		res.flag("invalid_ev_inputs")
		return res
	}

	// One extra turn of the multiple per percentage point of growth.
	multiple := evBaseMultiple + (in.GrowthRate*100/10)*10
	multiple = math.Max(math.Min(multiple, evMultipleCap), evMultipleFloor)
	if in.IndustryEVMult != nil && *in.IndustryEVMult > 0 {
		multiple = multiple*(1-industryBlendWeight) + *in.IndustryEVMult*industryBlendWeight
	}

	res.Multiple = multiple
	res.EnterpriseValue = in.EBITDA * multiple
	res.EquityValue = res.EnterpriseValue - in.NetDebt
	perShare := res.EquityValue / in.SharesOutstanding
	if perShare < 0 {
		res.flag("negative_equity_floored")
		perShare = 0
	}
	res.PerShareValue = perShare
	return res
}
