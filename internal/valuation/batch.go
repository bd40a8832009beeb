package valuation

import (
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Parameter ranges for the Monte Carlo draws.
const (
	mcGrowthMin   = 0.05
	mcGrowthMax   = 0.30
	mcDiscountMin = 0.08
	mcDiscountMax = 0.15
	mcTerminalMin = 0.01
	mcTerminalMax = 0.03

	defaultIterations = 1000
)

// Scenario multipliers applied to the baseline growth assumption.
const (
	bestCaseGrowthScale  = 1.3
	worstCaseGrowthScale = 0.7
)

// ScenarioResult holds per-share values for the three growth scenarios.
type ScenarioResult struct {
	BestCase  float64 `json:"best_case"`
	BaseCase  float64 `json:"base_case"`
	WorstCase float64 `json:"worst_case"`
}

// Scenarios runs the full DCF under scaled growth assumptions: 30% above
// and below the baseline around the base case.
func (m *DCFModel) Scenarios(in Inputs) ScenarioResult {
	run := func(scale float64) float64 {
		scaled := in
		scaled.GrowthRate = in.GrowthRate * scale
		return m.Valuate(scaled).PerShareValue
	}
	return ScenarioResult{
		BestCase:  run(bestCaseGrowthScale),
		BaseCase:  run(1.0),
		WorstCase: run(worstCaseGrowthScale),
	}
}

// MonteCarloResult summarizes the per-share value distribution over random
// parameter draws.
type MonteCarloResult struct {
	Iterations  int             `json:"iterations"`
	Mean        float64         `json:"mean"`
	Median      float64         `json:"median"`
	StdDev      float64         `json:"std_dev"`
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Percentiles map[int]float64 `json:"percentiles"`
}

// MonteCarlo draws growth, discount and terminal rates uniformly from their
// standard ranges and evaluates the DCF for each draw. A seeded generator
// makes runs reproducible; nil falls back to a clock seed, iterations below
// 1 to the default of 1000. Estimation signals are stripped so each draw
// prices exactly the drawn parameters.
func (m *DCFModel) MonteCarlo(in Inputs, iterations int, rng *rand.Rand) MonteCarloResult {
	if iterations < 1 {
		iterations = defaultIterations
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	base := stripSignals(in)
	values := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		draw := base
		draw.GrowthRate = uniform(rng, mcGrowthMin, mcGrowthMax)
		draw.DiscountRate = uniform(rng, mcDiscountMin, mcDiscountMax)
		draw.TerminalGrowth = uniform(rng, mcTerminalMin, mcTerminalMax)
		values = append(values, m.Valuate(draw).PerShareValue)
	}

	sort.Float64s(values)
	res := MonteCarloResult{
		Iterations: iterations,
		Mean:       stat.Mean(values, nil),
		Median:     stat.Quantile(0.5, stat.Empirical, values, nil),
		StdDev:     stat.StdDev(values, nil),
		Min:        values[0],
		Max:        values[len(values)-1],
		Percentiles: map[int]float64{
			10: stat.Quantile(0.10, stat.Empirical, values, nil),
			25: stat.Quantile(0.25, stat.Empirical, values, nil),
			50: stat.Quantile(0.50, stat.Empirical, values, nil),
			75: stat.Quantile(0.75, stat.Empirical, values, nil),
			90: stat.Quantile(0.90, stat.Empirical, values, nil),
		},
	}
	return res
}

// SensitivityResult is the per-share value matrix over growth and discount
// rate pairs. Rows follow GrowthRates, columns DiscountRates.
type SensitivityResult struct {
	GrowthRates   []float64   `json:"growth_rates"`
	DiscountRates []float64   `json:"discount_rates"`
	Matrix        [][]float64 `json:"matrix"`
}

// DefaultSensitivityGrowthRates and DefaultSensitivityDiscountRates span
// the standard grid.
func DefaultSensitivityGrowthRates() []float64 { return []float64{0.05, 0.10, 0.15, 0.20, 0.25} }

func DefaultSensitivityDiscountRates() []float64 { return []float64{0.08, 0.10, 0.12, 0.15} }

// Sensitivity evaluates the DCF over every growth x discount pair. Cells
// are independent, so they fan out over a bounded set of workers.
// Estimation signals are stripped so each cell prices exactly its pair;
// cells where the discount rate cannot clear terminal growth come back 0.
func (m *DCFModel) Sensitivity(in Inputs, growthRates, discountRates []float64) SensitivityResult {
	if len(growthRates) == 0 {
		growthRates = DefaultSensitivityGrowthRates()
	}
	if len(discountRates) == 0 {
		discountRates = DefaultSensitivityDiscountRates()
	}

	base := stripSignals(in)
	matrix := make([][]float64, len(growthRates))
	for i := range matrix {
		matrix[i] = make([]float64, len(discountRates))
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for i, g := range growthRates {
		for j, d := range discountRates {
			wg.Add(1)
			sem <- struct{}{}
			go func(i, j int, g, d float64) {
				defer wg.Done()
				defer func() { <-sem }()
				cell := base
				cell.GrowthRate = g
				cell.DiscountRate = d
				matrix[i][j] = m.Valuate(cell).PerShareValue
			}(i, j, g, d)
		}
	}
	wg.Wait()

	return SensitivityResult{
		GrowthRates:   growthRates,
		DiscountRates: discountRates,
		Matrix:        matrix,
	}
}

// stripSignals removes the estimation inputs that would override swept
// parameters: CAPM (would replace the discount rate) and the growth blend
// sources.
func stripSignals(in Inputs) Inputs {
	in.CAPM = nil
	in.HistoricalFCF = nil
	in.AnalystGrowth = nil
	in.IndustryGrowth = nil
	return in
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
