package pricing

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestSurfaceDefaultGrid(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	surface, err := p.Surface(baseParams(), nil, nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(surface.Points) != 20 {
		t.Fatalf("points: got %d want 20", len(surface.Points))
	}
	assertClose(t, surface.Points[0].Strike, 80, 1e-9, "first strike")
	assertClose(t, surface.Points[0].Maturity, 0.25, 1e-9, "first maturity")
	assertClose(t, surface.Points[4].Strike, 120, 1e-9, "last strike of first row")

	for _, pt := range surface.Points {
		if pt.ProbabilityAboveStrike < 0 || pt.ProbabilityAboveStrike > 1 {
			t.Fatalf("probability out of range at strike %.0f: %.4f", pt.Strike, pt.ProbabilityAboveStrike)
		}
		if pt.Call < 0 || pt.Put < 0 {
			t.Fatalf("negative price at strike %.0f", pt.Strike)
		}
	}
}

func TestSurfaceSkipsInvalidCells(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	surface, err := p.Surface(baseParams(), []float64{90, 100, 110}, []float64{-1, 1})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(surface.Points) != 3 {
		t.Fatalf("points: got %d want 3 (invalid maturity row skipped)", len(surface.Points))
	}
	for _, pt := range surface.Points {
		if pt.Maturity != 1 {
			t.Fatalf("maturity: got %v want 1", pt.Maturity)
		}
	}
}

func TestSurfaceRequiresSpot(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	_, err := p.Surface(OptionParams{}, nil, nil)

	var invalid *InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("error: got %v want InvalidParameterError", err)
	}
}

func TestDensityMassAndShape(t *testing.T) {
	p := NewPricer(zerolog.Nop())
	in := OptionParams{Spot: 100, Maturity: 1, Sigma: 0.2, RiskFree: 0.05}

	curve, err := p.Density(in, 0)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(curve) != 200 {
		t.Fatalf("points: got %d want 200", len(curve))
	}
	assertClose(t, curve[0].Price, 50, 1e-9, "first price")
	assertClose(t, curve[len(curve)-1].Price, 200, 1e-9, "last price")

	// Nearly all probability mass lies inside [S0/2, 2*S0] at this vol.
	step := curve[1].Price - curve[0].Price
	mass := 0.0
	peak := 0
	for i, pt := range curve {
		mass += pt.Density * step
		if pt.Density > curve[peak].Density {
			peak = i
		}
	}
	if mass < 0.99 || mass > 1.001 {
		t.Fatalf("density mass: got %.4f want ~1", mass)
	}
	if price := curve[peak].Price; price < 90 || price > 110 {
		t.Fatalf("density peak: got %.2f want near the spot", price)
	}
}

func TestDensityCustomPointCount(t *testing.T) {
	p := NewPricer(zerolog.Nop())
	in := OptionParams{Spot: 100, Maturity: 1, Sigma: 0.2, RiskFree: 0.05}

	curve, err := p.Density(in, 50)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(curve) != 50 {
		t.Fatalf("points: got %d want 50", len(curve))
	}
}

func TestDensityRejectsInvalidParameters(t *testing.T) {
	p := NewPricer(zerolog.Nop())

	for _, in := range []OptionParams{
		{Spot: 0, Maturity: 1, Sigma: 0.2},
		{Spot: 100, Maturity: 0, Sigma: 0.2},
		{Spot: 100, Maturity: 1, Sigma: 0},
	} {
		if _, err := p.Density(in, 0); err == nil {
			t.Fatalf("error for %+v: got nil want InvalidParameterError", in)
		}
	}
}
