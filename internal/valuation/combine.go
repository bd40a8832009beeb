package valuation

import (
	"math"

	"github.com/rs/zerolog"
)

// DefaultSanityBand is the half-width of the sanity clamp range around the
// current price.
const DefaultSanityBand = 0.5

// DefaultWeights returns the standard model weighting.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		ModelDCF:      0.5,
		ModelPE:       0.3,
		ModelEVEBITDA: 0.2,
	}
}

// WeightedValuation is the combined intrinsic value across models. Weights
// cover only the models that produced a positive value, renormalized to sum
// to one. UnclampedValue keeps the pre-clamp figure for audit.
type WeightedValuation struct {
	IntrinsicValue  float64            `json:"intrinsic_value"`
	UnclampedValue  float64            `json:"unclamped_value"`
	PerModelValues  map[string]float64 `json:"per_model_values"`
	PerModelWeights map[string]float64 `json:"per_model_weights"`
	TotalWeightUsed float64            `json:"total_weight_used"`
	CurrentPrice    float64            `json:"current_price"`
	UpsidePercent   float64            `json:"upside_percent"`
	WasClamped      bool               `json:"was_clamped"`
}

// Combiner merges model results under a weight map and applies the sanity
// clamp that keeps the blended value within a band around the market price.
type Combiner struct {
	logger  zerolog.Logger
	Weights map[string]float64
	Band    float64 // sanity clamp half-width, fraction of current price
}

// NewCombiner returns a combiner with the default weights and band.
func NewCombiner(logger zerolog.Logger) *Combiner {
	return &Combiner{
		logger:  logger,
		Weights: DefaultWeights(),
		Band:    DefaultSanityBand,
	}
}

// Combine blends the valid model results into one intrinsic value. Models
// with a zero per-share value or without a configured weight are excluded;
// if nothing qualifies the combiner returns an InvalidInputError so callers
// can tell "no signal" from a genuine zero valuation.
func (c *Combiner) Combine(currentPrice float64, results ...ModelResult) (WeightedValuation, error) {
	out := WeightedValuation{
		CurrentPrice:    currentPrice,
		PerModelValues:  make(map[string]float64, len(results)),
		PerModelWeights: make(map[string]float64, len(results)),
	}

	type contribution struct {
		name   string
		value  float64
		weight float64
	}
	var included []contribution
	total := 0.0
	for _, r := range results {
		out.PerModelValues[r.Model] = r.PerShareValue
		out.PerModelWeights[r.Model] = 0
		w := c.Weights[r.Model]
		if !r.Valid() || w <= 0 {
			continue
		}
		included = append(included, contribution{name: r.Model, value: r.PerShareValue, weight: w})
		total += w
	}

	if total <= 0 {
		return out, &InvalidInputError{Reason: "no valuation model produced a usable value"}
	}

	out.TotalWeightUsed = total
	if len(included) == 1 {
		// A single model keeps its value bit-exact; renormalizing through
		// the weight would reintroduce rounding.
		out.IntrinsicValue = included[0].value
		out.PerModelWeights[included[0].name] = 1
	} else {
		sum := 0.0
		for _, m := range included {
			sum += m.value * m.weight
			out.PerModelWeights[m.name] = m.weight / total
		}
		out.IntrinsicValue = sum / total
	}

	out.UnclampedValue = out.IntrinsicValue
	if clamped, was := ClampToBand(out.IntrinsicValue, currentPrice, c.Band); was {
		c.logger.Debug().Float64("raw", out.IntrinsicValue).Float64("clamped", clamped).
			Float64("price", currentPrice).Msg("Intrinsic value outside sanity band")
		out.IntrinsicValue = clamped
		out.WasClamped = true
	}

	if currentPrice > 0 {
		out.UpsidePercent = (out.IntrinsicValue/currentPrice - 1) * 100
	}
	return out, nil
}

// ClampToBand limits value to [price*(1-band), price*(1+band)] and reports
// whether clamping happened. A non-positive price disables the clamp, since
// there is no market anchor to deviate from. Re-applying the clamp to an
// already clamped value is a no-op.
func ClampToBand(value, price, band float64) (float64, bool) {
	if price <= 0 || band <= 0 {
		return value, false
	}
	lo := price * (1 - band)
	hi := price * (1 + band)
	switch {
	case value < lo:
		return lo, true
	case value > hi:
		return hi, true
	default:
		return value, false
	}
}

// EntryPrice is the price to pay today so that reaching target in years
// earns the desired annual return.
func EntryPrice(target, desiredReturn float64, years int) float64 {
	if target <= 0 || years < 1 {
		return 0
	}
	return target / math.Pow(1+desiredReturn, float64(years))
}

// ImpliedReturn is the annualized return from currentPrice to target over
// the holding horizon.
func ImpliedReturn(target, currentPrice float64, years int) float64 {
	if target <= 0 || currentPrice <= 0 || years < 1 {
		return 0
	}
	return math.Pow(target/currentPrice, 1/float64(years)) - 1
}

