package valuation

import (
	"testing"
	"time"
)

func projectionInputs() Inputs {
	return Inputs{
		CurrentPrice:      100,
		FCF:               4e8,
		EPS:               5,
		EBITDA:            8e8,
		SharesOutstanding: 1e8,
	}
}

func TestProjectAnnualCompounding(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	table := Project(projectionInputs(), GrowthPath{0.10, 0.05}, 100, 0.15, from)

	if len(table.EPS) != 3 {
		t.Fatalf("EPS rows: got %d want 3", len(table.EPS))
	}
	if table.EPS[0].Year != 2026 || table.EPS[2].Year != 2028 {
		t.Fatalf("years: got %d..%d want 2026..2028", table.EPS[0].Year, table.EPS[2].Year)
	}
	assertClose(t, table.EPS[0].Value, 5, 1e-9, "EPS year 0")
	assertClose(t, table.EPS[1].Value, 5.5, 1e-9, "EPS year 1")
	assertClose(t, table.EPS[2].Value, 5.775, 1e-9, "EPS year 2")
	assertClose(t, table.EPS[1].Growth, 10, 1e-9, "EPS growth year 1")
	assertClose(t, table.EPS[2].Growth, 5, 1e-9, "EPS growth year 2")

	assertClose(t, table.FCFPerShare[2].Value, 4.62, 1e-9, "FCF per share year 2")
	assertClose(t, table.EBITDAPerShare[2].Value, 9.24, 1e-9, "EBITDA per share year 2")
}

func TestProjectQuarterlyInterpolation(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	table := Project(projectionInputs(), GrowthPath{0.10, 0.05}, 100, 0.15, from)

	if len(table.Quarterly) != 8 {
		t.Fatalf("quarters: got %d want 8", len(table.Quarterly))
	}
	if table.Quarterly[0].Quarter != "2026-Q1" || table.Quarterly[4].Quarter != "2027-Q1" {
		t.Fatalf("labels: got %s, %s want 2026-Q1, 2027-Q1",
			table.Quarterly[0].Quarter, table.Quarterly[4].Quarter)
	}

	// Four quarters out lands exactly on the first projection year.
	assertClose(t, table.Quarterly[3].EPS, 5*1.10/4, 1e-9, "EPS at Q4")
	// Eight quarters out compounds both years.
	assertClose(t, table.Quarterly[7].EPS, 5*1.10*1.05/4, 1e-9, "EPS at Q8")
	// Midyear interpolates geometrically.
	assertClose(t, table.Quarterly[1].EPS, 1.311011, 1e-5, "EPS at Q2")
}

func TestProjectQuarterLabelsCrossYears(t *testing.T) {
	from := time.Date(2026, time.November, 15, 0, 0, 0, 0, time.UTC)

	table := Project(projectionInputs(), GrowthPath{0.10}, 100, 0.15, from)

	if table.Quarterly[0].Quarter != "2026-Q4" {
		t.Fatalf("first label: got %s want 2026-Q4", table.Quarterly[0].Quarter)
	}
	if table.Quarterly[1].Quarter != "2027-Q1" {
		t.Fatalf("second label: got %s want 2027-Q1", table.Quarterly[1].Quarter)
	}
	if table.Quarterly[5].Quarter != "2028-Q1" {
		t.Fatalf("sixth label: got %s want 2028-Q1", table.Quarterly[5].Quarter)
	}
}

func TestProjectTwoYearTarget(t *testing.T) {
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	table := Project(projectionInputs(), GrowthPath{0.10, 0.05}, 100, 0.15, from)

	assertClose(t, table.TwoYear.TargetPrice, 115.5, 1e-9, "TargetPrice")
	assertClose(t, table.TwoYear.EntryPrice, 87.3346, 1e-3, "EntryPrice")
	assertClose(t, table.TwoYear.ImpliedReturn, 0.074709, 1e-5, "ImpliedReturn")

	// A single-year path reuses its rate for the second year.
	single := Project(projectionInputs(), GrowthPath{0.10}, 100, 0.15, from)
	assertClose(t, single.TwoYear.TargetPrice, 121, 1e-9, "single-year TargetPrice")
}

func TestProjectWithoutShareCount(t *testing.T) {
	in := projectionInputs()
	in.SharesOutstanding = 0
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	table := Project(in, GrowthPath{0.10}, 100, 0.15, from)

	if table.FCFPerShare != nil || table.EBITDAPerShare != nil {
		t.Fatal("per-share tables should be omitted without a share count")
	}
	if len(table.EPS) != 2 {
		t.Fatalf("EPS rows: got %d want 2", len(table.EPS))
	}
	assertClose(t, table.Quarterly[0].FCFPerShare, 0, 1e-9, "quarterly FCF per share")
	if table.Quarterly[0].EPS <= 0 {
		t.Fatalf("quarterly EPS: got %v want positive", table.Quarterly[0].EPS)
	}
}
