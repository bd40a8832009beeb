package valuation

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Bounds applied to regression-projected growth rates.
const (
	regressionGrowthFloor = -0.10
	regressionGrowthCap   = 0.40
)

// GrowthSignals are the optional estimation inputs beyond the baseline rate.
type GrowthSignals struct {
	HistoricalFCF  []float64 // oldest to newest
	AnalystGrowth  *float64
	IndustryGrowth *float64

	// GrowthCap, when positive, caps each blended year before tapering.
	// Used to keep projections conservative after an FCF substitution.
	GrowthCap float64
}

// GrowthEstimator derives a per-year growth path from a baseline rate and
// whatever historical or consensus signals are available. The steps run as a
// fixed pipeline: historical regression blend, analyst blend, industry blend,
// then linear tapering toward the terminal rate.
type GrowthEstimator struct {
	logger zerolog.Logger

	// Acceptance gates for the historical regression.
	MaxPValue      float64
	MinCorrelation float64
}

// NewGrowthEstimator returns an estimator with the standard significance
// gates (p < 0.3, |r| > 0.3).
func NewGrowthEstimator(logger zerolog.Logger) *GrowthEstimator {
	return &GrowthEstimator{
		logger:         logger,
		MaxPValue:      0.3,
		MinCorrelation: 0.3,
	}
}

// Path builds the growth path for the given horizon. It always returns a
// path of length years (nil only when years < 1); degenerate signals fall
// back to the baseline rate.
func (e *GrowthEstimator) Path(baseline, terminalGrowth float64, years int, sig GrowthSignals) GrowthPath {
	if years < 1 {
		return nil
	}

	path := Uniform(baseline, years)
	e.blendHistorical(path, baseline, sig.HistoricalFCF)
	blendAnalyst(path, sig.AnalystGrowth)
	blendIndustry(path, sig.IndustryGrowth)

	if sig.GrowthCap > 0 {
		for i := range path {
			path[i] = math.Min(path[i], sig.GrowthCap)
		}
	}

	taperToTerminal(path, terminalGrowth)
	return path
}

// blendHistorical fits a linear trend to historical year-over-year growth
// and, when the fit is statistically meaningful, blends its projection 70/30
// with the baseline.
func (e *GrowthEstimator) blendHistorical(path GrowthPath, baseline float64, historical []float64) {
	growth := cleanedGrowthRates(historical)
	if len(growth) < 2 {
		return
	}

	xs := make([]float64, len(growth))
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, growth, nil, false)
	r := stat.Correlation(xs, growth, nil)
	if math.IsNaN(r) || math.Abs(r) <= e.MinCorrelation {
		return
	}
	if p := regressionPValue(r, len(growth)); p >= e.MaxPValue {
		e.logger.Debug().Float64("p_value", p).Float64("r", r).Msg("Growth regression not significant")
		return
	}

	// Project the trend past the end of the observed window.
	for i := range path {
		predicted := intercept + slope*float64(len(growth)+i)
		predicted = math.Max(math.Min(predicted, regressionGrowthCap), regressionGrowthFloor)
		path[i] = predicted*0.7 + baseline*0.3
	}
}

// cleanedGrowthRates turns a historical series into year-over-year growth
// rates, dropping non-positive values, jumps of 200% or more between
// consecutive raw values, and growth rates of 100% or more in magnitude.
func cleanedGrowthRates(historical []float64) []float64 {
	if len(historical) < 3 {
		return nil
	}

	cleaned := make([]float64, 0, len(historical))
	for i, v := range historical {
		if v <= 0 {
			continue
		}
		if i > 0 {
			prev := historical[i-1]
			if prev == 0 || math.Abs(v/prev-1) >= 2.0 {
				continue
			}
		}
		cleaned = append(cleaned, v)
	}
	if len(cleaned) < 3 {
		return nil
	}

	growth := make([]float64, 0, len(cleaned)-1)
	for i := 1; i < len(cleaned); i++ {
		g := cleaned[i]/cleaned[i-1] - 1
		if math.Abs(g) < 1.0 {
			growth = append(growth, g)
		}
	}
	return growth
}

// regressionPValue is the two-sided p-value of the correlation under a
// Student-t test with n-2 degrees of freedom. Fewer than three observations
// cannot be significant.
func regressionPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if 1-r*r <= 0 {
		return 0
	}
	t := math.Abs(r) * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * (1 - dist.CDF(t))
}

// blendAnalyst folds an analyst estimate in with a weight that decays
// linearly from 0.6 in year one to zero by the final year.
func blendAnalyst(path GrowthPath, analyst *float64) {
	if analyst == nil {
		return
	}
	for i := range path {
		w := 0.6 * (1 - horizonFraction(i, len(path)))
		path[i] = path[i]*(1-w) + *analyst*w
	}
}

// blendIndustry folds an industry rate in with a weight rising linearly from
// 0.1 to 0.5 across the horizon, pulling late years toward the sector mean.
func blendIndustry(path GrowthPath, industry *float64) {
	if industry == nil || *industry <= -1 {
		return
	}
	for i := range path {
		w := 0.1 + 0.4*horizonFraction(i, len(path))
		path[i] = path[i]*(1-w) + *industry*w
	}
}

// taperToTerminal linearly declines each year toward the terminal rate,
// reaching it exactly in the final year.
func taperToTerminal(path GrowthPath, terminalGrowth float64) {
	for i := range path {
		tau := horizonFraction(i, len(path))
		if len(path) == 1 {
			tau = 1
		}
		path[i] = path[i]*(1-tau) + terminalGrowth*tau
	}
}

// horizonFraction is i/(years-1), the position of year index i within the
// projection horizon. A single-year horizon yields 0.
func horizonFraction(i, years int) float64 {
	if years <= 1 {
		return 0
	}
	return float64(i) / float64(years-1)
}
