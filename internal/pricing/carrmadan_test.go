package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func assertClose(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %.6f want %.6f (tol %.6f)", field, got, want, tol)
	}
}

func baseParams() OptionParams {
	return OptionParams{
		Spot:           100,
		Strike:         105,
		Maturity:       1,
		Sigma:          0.25,
		RiskFree:       0.05,
		ExpectedReturn: 0.12,
		DividendYield:  0.01,
	}
}

func TestPriceNearZeroVolatility(t *testing.T) {
	p := NewPricer(zerolog.Nop())
	in := OptionParams{Spot: 100, Strike: 100, Maturity: 1, Sigma: 1e-4, RiskFree: 0.05}

	quote, err := p.Price(in)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// With vanishing volatility the call collapses to S0 - K*exp(-rT).
	assertClose(t, quote.Call, 4.877, 0.01, "Call")
	if quote.Put > 0.01 {
		t.Fatalf("Put: got %.6f want ~0", quote.Put)
	}
	if quote.ProbabilityAboveStrike < 0.999 {
		t.Fatalf("ProbabilityAboveStrike: got %.6f want ~1", quote.ProbabilityAboveStrike)
	}
	assertClose(t, quote.Drift, 0.05, 1e-12, "Drift")
}

func TestPutCallParityBothModes(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	for _, mode := range []DriftMode{DriftRiskNeutral, DriftRealWorld} {
		in := baseParams()
		in.Mode = mode

		quote, err := p.Price(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if quote.Call <= 0 || quote.Put <= 0 {
			t.Fatalf("%s: degenerate quote call %.4f put %.4f", mode, quote.Call, quote.Put)
		}

		// Parity discounts at the risk-free rate in both modes.
		lhs := quote.Call - quote.Put
		rhs := in.Spot*math.Exp(-in.DividendYield*in.Maturity) - in.Strike*math.Exp(-in.RiskFree*in.Maturity)
		if rel := math.Abs(lhs-rhs) / math.Abs(rhs); rel > 1e-6 {
			t.Fatalf("%s: parity violated by relative %.2e", mode, rel)
		}
	}
}

func TestRealWorldDriftRaisesCall(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	neutral, err := p.Price(baseParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	real := baseParams()
	real.Mode = DriftRealWorld
	world, err := p.Price(real)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if world.Call <= neutral.Call {
		t.Fatalf("higher drift did not raise the call: %.4f <= %.4f", world.Call, neutral.Call)
	}
	assertClose(t, world.Drift, 0.12, 1e-12, "Drift")
}

func TestPriceAgainstBlackScholes(t *testing.T) {
	p := NewPricer(zerolog.Nop())
	in := baseParams()

	quote, err := p.Price(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Closed-form Black-Scholes reference for the same contract.
	assertClose(t, quote.Call, 9.461, 0.05, "Call")
}

func TestProbabilityDecreasingInStrike(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	prev := math.Inf(1)
	for _, strike := range []float64{80, 90, 100, 110, 120} {
		in := baseParams()
		in.Strike = strike

		quote, err := p.Price(in)
		if err != nil {
			t.Fatalf("strike %.0f: unexpected error: %v", strike, err)
		}
		if quote.ProbabilityAboveStrike >= prev {
			t.Fatalf("probability not decreasing at strike %.0f: %.6f >= %.6f",
				strike, quote.ProbabilityAboveStrike, prev)
		}
		prev = quote.ProbabilityAboveStrike
	}
}

func TestExpectedPriceFollowsDrift(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	neutral, err := p.Price(baseParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, neutral.ExpectedPrice, 100*math.Exp(0.04), 1e-9, "ExpectedPrice")

	in := baseParams()
	in.Mode = DriftRealWorld
	world, err := p.Price(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, world.ExpectedPrice, 100*math.Exp(0.11), 1e-9, "ExpectedPrice")
}

func TestPriceRejectsInvalidParameters(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*OptionParams)
		wantParam string
	}{
		{name: "zero spot", mutate: func(in *OptionParams) { in.Spot = 0 }, wantParam: "spot"},
		{name: "negative strike", mutate: func(in *OptionParams) { in.Strike = -5 }, wantParam: "strike"},
		{name: "zero maturity", mutate: func(in *OptionParams) { in.Maturity = 0 }, wantParam: "maturity"},
		{name: "negative sigma", mutate: func(in *OptionParams) { in.Sigma = -0.2 }, wantParam: "sigma"},
	}

	p := NewPricer(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseParams()
			tc.mutate(&in)

			_, err := p.Price(in)

			var invalid *InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("error: got %v want InvalidParameterError", err)
			}
			if invalid.Param != tc.wantParam {
				t.Fatalf("param: got %s want %s", invalid.Param, tc.wantParam)
			}
		})
	}
}
