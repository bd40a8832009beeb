package marketdata

import (
	"context"
	"math"

	"github.com/art-pro/valuation-backend/internal/valuation"
	"github.com/rs/zerolog"
)

// Derivation defaults and bounds applied when turning raw snapshots into
// engine inputs. Missing figures fall back to long-run market assumptions
// rather than failing the run.
const (
	defaultYears          = 5
	defaultRiskFreeRate   = 0.035
	defaultIndustryGrowth = 0.03
	defaultVolatility     = 0.25
	defaultBeta           = 1.0

	defaultCostOfDebt = 0.05
	minCostOfDebt     = 0.01
	maxCostOfDebt     = 0.15
	maxDebtToEquity   = 5.0

	minEarningsGrowth = 0.05
	maxEarningsGrowth = 0.30
	dcfGrowthHaircut  = 0.9

	minTerminalGrowth      = 0.01
	maxTerminalGrowth      = 0.03
	fallbackTerminalGrowth = 0.02
)

// ResolveOptions tweak how InputsFor derives engine inputs for a symbol.
// The zero value asks for the standard five-year projection.
type ResolveOptions struct {
	// Years is the DCF projection horizon; non-positive means the default.
	Years int
	// SBCImpact is the fraction of flows treated as stock-based
	// compensation drag. FCF, EPS and EBITDA are scaled by (1 - SBCImpact).
	SBCImpact float64
	// BypassCache forces a fresh provider fetch.
	BypassCache bool
}

// Service resolves snapshots through the cache and provider, applies manual
// overrides and derives valuation inputs.
type Service struct {
	provider  Provider
	cache     Cache
	overrides *OverrideStore
	logger    zerolog.Logger
}

// NewService creates a market-data service. cache and overrides may be nil,
// which disables caching and manual overrides respectively.
func NewService(provider Provider, cache Cache, overrides *OverrideStore, logger zerolog.Logger) *Service {
	return &Service{
		provider:  provider,
		cache:     cache,
		overrides: overrides,
		logger:    logger,
	}
}

// SnapshotFor returns the snapshot for symbol with any manual FCF override
// applied.
func (s *Service) SnapshotFor(ctx context.Context, symbol string) (FundamentalsSnapshot, error) {
	return s.snapshot(ctx, symbol, false)
}

// InputsFor resolves a snapshot and derives the complete engine inputs for
// one valuation run.
func (s *Service) InputsFor(ctx context.Context, symbol string, opts ResolveOptions) (valuation.Inputs, error) {
	snap, err := s.snapshot(ctx, symbol, opts.BypassCache)
	if err != nil {
		return valuation.Inputs{}, err
	}
	return deriveInputs(snap, opts), nil
}

func (s *Service) snapshot(ctx context.Context, symbol string, bypassCache bool) (FundamentalsSnapshot, error) {
	key := normalizeSymbol(symbol)
	if key == "" {
		return FundamentalsSnapshot{}, ErrUnknownSymbol
	}

	snap, ok := s.cachedSnapshot(key, bypassCache)
	if !ok {
		fetched, err := s.provider.Snapshot(ctx, key)
		if err != nil {
			return FundamentalsSnapshot{}, err
		}
		snap = fetched
		snap.Symbol = key
		if s.cache != nil {
			s.cache.Set(key, snap)
		}
		s.logger.Debug().Str("symbol", key).Msg("Fetched snapshot from provider")
	}

	// Overrides are applied after caching so that deleting one takes
	// effect immediately even while the raw snapshot is still cached.
	if s.overrides != nil {
		override, found, err := s.overrides.Get(key)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", key).Msg("Failed to read FCF override")
		} else if found {
			snap.FreeCashFlow = override.FCF
			s.logger.Info().Str("symbol", key).Float64("fcf", override.FCF).Msg("Applied manual FCF override")
		}
	}

	return snap, nil
}

func (s *Service) cachedSnapshot(key string, bypassCache bool) (FundamentalsSnapshot, bool) {
	if s.cache == nil || bypassCache {
		return FundamentalsSnapshot{}, false
	}
	snap, ok := s.cache.Get(key)
	if ok {
		s.logger.Debug().Str("symbol", key).Msg("Serving snapshot from cache")
	}
	return snap, ok
}

// deriveInputs turns a raw snapshot into engine inputs: per-share fallbacks,
// growth and rate clamps, and a complete set of cost-of-capital drivers.
func deriveInputs(snap FundamentalsSnapshot, opts ResolveOptions) valuation.Inputs {
	years := opts.Years
	if years <= 0 {
		years = defaultYears
	}

	eps := snap.EPS
	if eps == 0 && snap.SharesOutstanding > 0 {
		eps = snap.NetIncome / snap.SharesOutstanding
	}

	fcf := snap.FreeCashFlow
	ebitda := snap.EBITDA
	if opts.SBCImpact > 0 {
		scale := 1 - opts.SBCImpact
		if scale < 0 {
			scale = 0
		}
		fcf *= scale
		eps *= scale
		ebitda *= scale
	}

	earningsGrowth := snap.EarningsGrowth
	if earningsGrowth == 0 {
		earningsGrowth = snap.RevenueGrowth
	}
	earningsGrowth = clamp(earningsGrowth, minEarningsGrowth, maxEarningsGrowth)

	terminal := fallbackTerminalGrowth
	if snap.RevenueGrowth > 0 {
		terminal = snap.RevenueGrowth
	}
	terminal = clamp(terminal, minTerminalGrowth, maxTerminalGrowth)

	beta := snap.Beta
	if beta <= 0 {
		beta = defaultBeta
	}
	riskFree := snap.RiskFreeRate
	if riskFree <= 0 {
		riskFree = defaultRiskFreeRate
	}

	costOfDebt := defaultCostOfDebt
	if snap.TotalDebt > 0 {
		costOfDebt = clamp(math.Abs(snap.InterestExpense)/snap.TotalDebt, minCostOfDebt, maxCostOfDebt)
	}

	debtToEquity := 0.0
	if marketCap := snap.CurrentPrice * snap.SharesOutstanding; marketCap > 0 {
		debtToEquity = clamp(snap.TotalDebt/marketCap, 0, maxDebtToEquity)
	}

	analystGrowth := earningsGrowth
	industryGrowth := defaultIndustryGrowth

	return valuation.Inputs{
		Symbol:            snap.Symbol,
		CurrentPrice:      snap.CurrentPrice,
		FCF:               fcf,
		EPS:               eps,
		EBITDA:            ebitda,
		SharesOutstanding: snap.SharesOutstanding,
		NetDebt:           snap.TotalDebt - snap.CashAndEquivalents,
		GrowthRate:        earningsGrowth * dcfGrowthHaircut,
		TerminalGrowth:    terminal,
		Years:             years,
		HistoricalFCF:     snap.HistoricalFCF,
		CAPM: &valuation.CAPMInputs{
			Beta:         beta,
			RiskFreeRate: riskFree,
			DebtToEquity: debtToEquity,
			CostOfDebt:   costOfDebt,
		},
		AnalystGrowth:  &analystGrowth,
		IndustryGrowth: &industryGrowth,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
