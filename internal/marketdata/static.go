package marketdata

import (
	"context"
	"strings"
	"sync"
)

// StaticProvider serves snapshots from a fixed in-memory set. It backs local
// development and tests; production deployments plug a real data provider
// into the same interface.
type StaticProvider struct {
	mu        sync.RWMutex
	snapshots map[string]FundamentalsSnapshot
}

// NewStaticProvider returns a provider seeded with the given snapshots.
func NewStaticProvider(snaps ...FundamentalsSnapshot) *StaticProvider {
	p := &StaticProvider{snapshots: make(map[string]FundamentalsSnapshot, len(snaps))}
	for _, snap := range snaps {
		p.Add(snap)
	}
	return p
}

// Add inserts or replaces a snapshot. Symbols are case-insensitive.
func (p *StaticProvider) Add(snap FundamentalsSnapshot) {
	key := strings.ToUpper(strings.TrimSpace(snap.Symbol))
	if key == "" {
		return
	}
	snap.Symbol = key

	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots[key] = snap
}

// Snapshot implements Provider.
func (p *StaticProvider) Snapshot(_ context.Context, symbol string) (FundamentalsSnapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap, ok := p.snapshots[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return FundamentalsSnapshot{}, ErrUnknownSymbol
	}
	return snap, nil
}

// DefaultUniverse returns the snapshots the demo deployment is seeded with.
// Figures are rounded annual numbers in USD; they are meant to be plausible,
// not current.
func DefaultUniverse() []FundamentalsSnapshot {
	return []FundamentalsSnapshot{
		{
			Symbol:               "AAPL",
			CurrentPrice:         190.0,
			HistoricalVolatility: 0.28,
			FreeCashFlow:         108.8e9,
			HistoricalFCF:        []float64{80.6e9, 92.9e9, 111.4e9, 99.6e9, 108.8e9},
			NetIncome:            97.0e9,
			EBITDA:               130.0e9,
			TotalDebt:            110.0e9,
			CashAndEquivalents:   65.0e9,
			SharesOutstanding:    15.3e9,
			EarningsGrowth:       0.08,
			RevenueGrowth:        0.05,
			Beta:                 1.25,
			PERatio:              29.0,
			InterestExpense:      3.9e9,
			EPS:                  6.10,
		},
		{
			Symbol:               "MSFT",
			CurrentPrice:         420.0,
			HistoricalVolatility: 0.25,
			FreeCashFlow:         70.0e9,
			HistoricalFCF:        []float64{45.2e9, 56.1e9, 65.1e9, 59.5e9, 70.0e9},
			NetIncome:            88.0e9,
			EBITDA:               125.0e9,
			TotalDebt:            80.0e9,
			CashAndEquivalents:   80.0e9,
			SharesOutstanding:    7.4e9,
			EarningsGrowth:       0.15,
			RevenueGrowth:        0.14,
			Beta:                 0.95,
			PERatio:              35.0,
			InterestExpense:      2.9e9,
			EPS:                  11.80,
		},
		{
			Symbol:               "NVDA",
			CurrentPrice:         120.0,
			HistoricalVolatility: 0.45,
			FreeCashFlow:         60.0e9,
			HistoricalFCF:        []float64{4.7e9, 8.1e9, 3.8e9, 27.0e9, 60.0e9},
			NetIncome:            60.0e9,
			EBITDA:               75.0e9,
			TotalDebt:            11.0e9,
			CashAndEquivalents:   35.0e9,
			SharesOutstanding:    24.6e9,
			EarningsGrowth:       0.60,
			RevenueGrowth:        0.60,
			Beta:                 1.70,
			PERatio:              50.0,
			InterestExpense:      0.25e9,
			EPS:                  2.44,
		},
		{
			Symbol:               "KO",
			CurrentPrice:         62.0,
			HistoricalVolatility: 0.15,
			FreeCashFlow:         9.5e9,
			HistoricalFCF:        []float64{8.7e9, 11.3e9, 9.5e9, 9.7e9, 9.5e9},
			NetIncome:            10.7e9,
			EBITDA:               14.0e9,
			TotalDebt:            44.0e9,
			CashAndEquivalents:   13.0e9,
			SharesOutstanding:    4.3e9,
			EarningsGrowth:       0.04,
			RevenueGrowth:        0.02,
			Beta:                 0.60,
			PERatio:              25.0,
			InterestExpense:      1.5e9,
			EPS:                  2.47,
		},
		{
			Symbol:               "RIVN",
			CurrentPrice:         11.0,
			HistoricalVolatility: 0.65,
			FreeCashFlow:         -4.2e9,
			HistoricalFCF:        []float64{-6.4e9, -5.1e9, -4.2e9},
			NetIncome:            -5.4e9,
			EBITDA:               -3.8e9,
			TotalDebt:            4.4e9,
			CashAndEquivalents:   7.8e9,
			SharesOutstanding:    1.0e9,
			RevenueGrowth:        0.12,
			Beta:                 1.90,
			InterestExpense:      0.3e9,
			EPS:                  -5.40,
		},
	}
}
