package pricing

import "math"

// Default surface shape: strikes 80% to 120% of spot, quarterly out to two
// years.
const (
	surfaceStrikeLow  = 0.8
	surfaceStrikeHigh = 1.2
	surfaceStrikes    = 5
)

func defaultMaturities() []float64 { return []float64{0.25, 0.5, 1, 2} }

// SurfacePoint is one priced strike and maturity cell.
type SurfacePoint struct {
	Strike                 float64 `json:"strike"`
	Maturity               float64 `json:"maturity"`
	Call                   float64 `json:"call"`
	Put                    float64 `json:"put"`
	ProbabilityAboveStrike float64 `json:"probability_above_strike"`
}

// Surface is the priced option grid for one underlying.
type Surface struct {
	Spot   float64        `json:"spot"`
	Points []SurfacePoint `json:"points"`
}

// Surface prices the strike by maturity grid with the base parameters.
// Empty strike or maturity lists fall back to the default shape around the
// spot. Cells that fail validation are skipped rather than failing the
// whole surface.
func (p *Pricer) Surface(base OptionParams, strikes, maturities []float64) (Surface, error) {
	if base.Spot <= 0 {
		return Surface{}, &InvalidParameterError{Param: "spot", Value: base.Spot}
	}
	if len(strikes) == 0 {
		strikes = defaultStrikes(base.Spot)
	}
	if len(maturities) == 0 {
		maturities = defaultMaturities()
	}

	out := Surface{Spot: base.Spot, Points: make([]SurfacePoint, 0, len(strikes)*len(maturities))}
	for _, maturity := range maturities {
		for _, strike := range strikes {
			cell := base
			cell.Strike = strike
			cell.Maturity = maturity

			quote, err := p.Price(cell)
			if err != nil {
				p.logger.Debug().Err(err).Float64("strike", strike).Float64("maturity", maturity).
					Msg("Skipping unpriceable surface cell")
				continue
			}
			out.Points = append(out.Points, SurfacePoint{
				Strike:                 strike,
				Maturity:               maturity,
				Call:                   quote.Call,
				Put:                    quote.Put,
				ProbabilityAboveStrike: quote.ProbabilityAboveStrike,
			})
		}
	}
	return out, nil
}

func defaultStrikes(spot float64) []float64 {
	strikes := make([]float64, surfaceStrikes)
	step := (surfaceStrikeHigh - surfaceStrikeLow) / float64(surfaceStrikes-1)
	for i := range strikes {
		strikes[i] = spot * (surfaceStrikeLow + step*float64(i))
	}
	return strikes
}

const defaultDensityPoints = 200

// DensityPoint is one sample of the terminal price distribution.
type DensityPoint struct {
	Price   float64 `json:"price"`
	Density float64 `json:"density"`
}

// Density samples the lognormal probability density of the spot at
// maturity on a uniform price grid from half to twice the current spot.
// The drift follows the pricer mode, matching Price.
func (p *Pricer) Density(in OptionParams, points int) ([]DensityPoint, error) {
	switch {
	case in.Spot <= 0:
		return nil, &InvalidParameterError{Param: "spot", Value: in.Spot}
	case in.Maturity <= 0:
		return nil, &InvalidParameterError{Param: "maturity", Value: in.Maturity}
	case in.Sigma <= 0:
		return nil, &InvalidParameterError{Param: "sigma", Value: in.Sigma}
	}
	if points <= 1 {
		points = defaultDensityPoints
	}

	mu := in.RiskFree
	if in.Mode == DriftRealWorld {
		mu = in.ExpectedReturn
	}
	mean := math.Log(in.Spot) + (mu-in.DividendYield-0.5*in.Sigma*in.Sigma)*in.Maturity
	spread := in.Sigma * math.Sqrt(in.Maturity)
	norm := 1 / (spread * math.Sqrt(2*math.Pi))

	lo, hi := in.Spot*0.5, in.Spot*2
	step := (hi - lo) / float64(points-1)

	out := make([]DensityPoint, points)
	for i := range out {
		s := lo + step*float64(i)
		z := (math.Log(s) - mean) / spread
		out[i] = DensityPoint{
			Price:   s,
			Density: norm / s * math.Exp(-0.5*z*z),
		}
	}
	return out, nil
}
