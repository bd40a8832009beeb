// Package analytics provides spectral analysis of price series: dominant
// cycle detection and high-frequency noise filtering, both over the FFT of
// log returns.
package analytics

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// MinSeriesLength is the shortest price series the spectral routines
// accept. Shorter windows have too few frequency bins to say anything.
const MinSeriesLength = 32

const (
	tradingDaysPerYear = 252

	defaultMaxCycleYears = 5.0
	defaultCutoffPercent = 10.0
	maxReportedCycles    = 5
	relativePowerFloor   = 0.01
)

var (
	ErrSeriesTooShort   = errors.New("analytics: price series too short")
	ErrNonPositivePrice = errors.New("analytics: price series must be positive")
)

// Cycle is one dominant periodicity, strongest first. Strength is the
// spectral power relative to the strongest cycle found.
type Cycle struct {
	PeriodYears float64 `json:"period_years"`
	PeriodDays  float64 `json:"period_days"`
	Strength    float64 `json:"strength"`
	Rank        int     `json:"rank"`
}

// CycleReport is the outcome of a cycle scan over one price series.
type CycleReport struct {
	Cycles        []Cycle `json:"cycles"`
	DataPoints    int     `json:"data_points"`
	MaxCycleYears float64 `json:"max_cycle_years"`
}

// FilteredSeries pairs a price series with its noise-filtered counterpart.
// NoiseStdDev is the standard deviation of the return component that was
// filtered away.
type FilteredSeries struct {
	Original      []float64 `json:"original_prices"`
	Filtered      []float64 `json:"filtered_prices"`
	CutoffPercent float64   `json:"cutoff_percent"`
	NoiseStdDev   float64   `json:"noise_std_dev"`
}

// Analyzer runs the spectral routines. Daily sampling at 252 trading days
// per year is assumed throughout.
type Analyzer struct {
	logger zerolog.Logger
}

func NewAnalyzer(logger zerolog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// DetectCycles scans the power spectrum of log returns for the strongest
// periodicities with periods up to maxCycleYears (default 5). At most five
// cycles come back, ranked by power; bins below 1% of the peak power are
// treated as noise.
func (a *Analyzer) DetectCycles(prices []float64, maxCycleYears float64) (CycleReport, error) {
	returns, err := logReturns(prices)
	if err != nil {
		return CycleReport{}, err
	}
	if maxCycleYears <= 0 {
		maxCycleYears = defaultMaxCycleYears
	}

	n := len(returns)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, returns)

	// Candidate bins: positive frequencies whose period fits the window.
	type candidate struct {
		freq  float64 // cycles per year
		power float64
	}
	var candidates []candidate
	maxPower := 0.0
	for i := 1; i < len(coeffs); i++ {
		freq := float64(i) * tradingDaysPerYear / float64(n)
		if 1/freq > maxCycleYears {
			continue
		}
		abs := cmplx.Abs(coeffs[i])
		power := abs * abs
		candidates = append(candidates, candidate{freq: freq, power: power})
		if power > maxPower {
			maxPower = power
		}
	}

	report := CycleReport{DataPoints: len(prices), MaxCycleYears: maxCycleYears}
	if maxPower <= 0 {
		return report, nil
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].power > candidates[j].power })
	for _, c := range candidates {
		if len(report.Cycles) == maxReportedCycles || c.power < relativePowerFloor*maxPower {
			break
		}
		period := 1 / c.freq
		report.Cycles = append(report.Cycles, Cycle{
			PeriodYears: period,
			PeriodDays:  period * tradingDaysPerYear,
			Strength:    c.power / maxPower,
			Rank:        len(report.Cycles) + 1,
		})
	}
	a.logger.Debug().Int("candidates", len(candidates)).Int("cycles", len(report.Cycles)).
		Msg("Cycle scan complete")
	return report, nil
}

// FilterNoise removes the highest-frequency cutoffPercent (default 10) of
// the return spectrum and rebuilds the price series from the smoothed
// returns. The DC bin always survives, so the filtered series ends on the
// original closing price.
func (a *Analyzer) FilterNoise(prices []float64, cutoffPercent float64) (FilteredSeries, error) {
	returns, err := logReturns(prices)
	if err != nil {
		return FilteredSeries{}, err
	}
	if cutoffPercent <= 0 {
		cutoffPercent = defaultCutoffPercent
	}
	if cutoffPercent >= 100 {
		return FilteredSeries{}, errors.New("analytics: cutoff percent must be below 100")
	}

	n := len(returns)
	seq := make([]complex128, n)
	for i, r := range returns {
		seq[i] = complex(r, 0)
	}

	fft := fourier.NewCmplxFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	cutoff := int(float64(n) * (1 - cutoffPercent/100) / 2)
	if cutoff < 1 {
		cutoff = 1
	}
	for i := cutoff; i < n-cutoff; i++ {
		coeffs[i] = 0
	}

	// Inverse transform; gonum leaves the 1/n normalization to the caller.
	inverse := fft.Sequence(nil, coeffs)
	filtered := make([]float64, n)
	residual := make([]float64, n)
	for i := range inverse {
		filtered[i] = real(inverse[i]) / float64(n)
		residual[i] = returns[i] - filtered[i]
	}

	out := FilteredSeries{
		Original:      prices,
		Filtered:      make([]float64, len(prices)),
		CutoffPercent: cutoffPercent,
		NoiseStdDev:   stat.StdDev(residual, nil),
	}
	out.Filtered[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out.Filtered[i] = out.Filtered[i-1] * math.Exp(filtered[i-1])
	}
	return out, nil
}

// logReturns validates the series and differences its logs.
func logReturns(prices []float64) ([]float64, error) {
	if len(prices) < MinSeriesLength {
		return nil, ErrSeriesTooShort
	}
	returns := make([]float64, len(prices)-1)
	for i, p := range prices {
		if p <= 0 {
			return nil, ErrNonPositivePrice
		}
		if i > 0 {
			returns[i-1] = math.Log(p / prices[i-1])
		}
	}
	return returns, nil
}
