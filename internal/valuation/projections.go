package valuation

import (
	"fmt"
	"math"
	"time"
)

// ProjectionRow is one year of a projected metric. Growth is the applied
// rate in percent; the first row carries the current value with zero growth.
type ProjectionRow struct {
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
	Growth float64 `json:"growth"`
}

// QuarterRow is one quarter of the forward table, labelled "2026-Q3" style.
type QuarterRow struct {
	Quarter        string  `json:"quarter"`
	FCFPerShare    float64 `json:"fcf_per_share"`
	EPS            float64 `json:"eps"`
	EBITDAPerShare float64 `json:"ebitda_per_share"`
}

// TwoYearTarget is the intrinsic value compounded over the first two
// projection years, with the matching entry price and annualized return
// from the current price.
type TwoYearTarget struct {
	TargetPrice   float64 `json:"target_price"`
	EntryPrice    float64 `json:"entry_price"`
	ImpliedReturn float64 `json:"implied_return"`
}

// ProjectionTable bundles the per-share projection views derived from one
// growth path.
type ProjectionTable struct {
	FCFPerShare    []ProjectionRow `json:"fcf_per_share"`
	EPS            []ProjectionRow `json:"eps"`
	EBITDAPerShare []ProjectionRow `json:"ebitda_per_share"`
	Quarterly      []QuarterRow    `json:"quarterly"`
	TwoYear        TwoYearTarget   `json:"two_year"`
}

const forwardQuarters = 8

// Project compounds the per-share metrics along the growth path. Annual
// rows start at the current year; the quarterly table interpolates the
// first two projection years geometrically, reported as quarterly run
// rates (annual value over four). Metrics that need a share count are
// omitted when SharesOutstanding is not positive.
func Project(in Inputs, path GrowthPath, intrinsic, desiredReturn float64, from time.Time) ProjectionTable {
	var fcfPerShare, ebitdaPerShare float64
	if in.SharesOutstanding > 0 {
		fcfPerShare = in.FCF / in.SharesOutstanding
		ebitdaPerShare = in.EBITDA / in.SharesOutstanding
	}

	t := ProjectionTable{
		EPS:       annualRows(in.EPS, path, from.Year()),
		Quarterly: quarterRows(fcfPerShare, in.EPS, ebitdaPerShare, path, from),
	}
	if in.SharesOutstanding > 0 {
		t.FCFPerShare = annualRows(fcfPerShare, path, from.Year())
		t.EBITDAPerShare = annualRows(ebitdaPerShare, path, from.Year())
	}

	g1, g2 := firstTwoRates(path)
	target := intrinsic * (1 + g1) * (1 + g2)
	t.TwoYear = TwoYearTarget{
		TargetPrice:   target,
		EntryPrice:    EntryPrice(target, desiredReturn, 2),
		ImpliedReturn: ImpliedReturn(target, in.CurrentPrice, 2),
	}
	return t
}

func annualRows(base float64, path GrowthPath, startYear int) []ProjectionRow {
	rows := make([]ProjectionRow, 0, len(path)+1)
	rows = append(rows, ProjectionRow{Year: startYear, Value: base})
	value := base
	for i, g := range path {
		value *= 1 + g
		rows = append(rows, ProjectionRow{
			Year:   startYear + i + 1,
			Value:  value,
			Growth: g * 100,
		})
	}
	return rows
}

func quarterRows(fcfPerShare, eps, ebitdaPerShare float64, path GrowthPath, from time.Time) []QuarterRow {
	g1, g2 := firstTwoRates(path)
	startQuarter := (int(from.Month())-1)/3 + 1

	rows := make([]QuarterRow, 0, forwardQuarters)
	for i := 0; i < forwardQuarters; i++ {
		quarter := (startQuarter+i-1)%4 + 1
		year := from.Year() + (startQuarter+i-1)/4

		// Growth factor for k quarters out, spanning at most two years.
		horizon := float64(i+1) / 4
		factor := math.Pow(1+g1, math.Min(horizon, 1)) * math.Pow(1+g2, math.Max(horizon-1, 0))

		rows = append(rows, QuarterRow{
			Quarter:        fmt.Sprintf("%d-Q%d", year, quarter),
			FCFPerShare:    fcfPerShare * factor / 4,
			EPS:            eps * factor / 4,
			EBITDAPerShare: ebitdaPerShare * factor / 4,
		})
	}
	return rows
}

// firstTwoRates pulls the first two path entries, reusing the first when
// the path holds a single year and zero when it is empty.
func firstTwoRates(path GrowthPath) (float64, float64) {
	switch len(path) {
	case 0:
		return 0, 0
	case 1:
		return path[0], path[0]
	default:
		return path[0], path[1]
	}
}
