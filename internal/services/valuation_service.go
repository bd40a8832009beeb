// Package services orchestrates the valuation engine: it resolves market
// data into engine inputs, runs the models, assembles the full report and
// persists the latest result per symbol.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/art-pro/valuation-backend/internal/valuation"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Assessment thresholds on upside percent.
const (
	strongBuyThreshold = 25.0
	buyThreshold       = 10.0
	holdThreshold      = -10.0
)

// Assessment maps an upside percentage to the verdict shown next to a
// valuation.
func Assessment(upsidePercent float64) string {
	switch {
	case upsidePercent > strongBuyThreshold:
		return "Strong Buy"
	case upsidePercent > buyThreshold:
		return "Buy"
	case upsidePercent > holdThreshold:
		return "Hold"
	default:
		return "Sell"
	}
}

// Report is the complete outcome of one valuation run: every model's
// result, the weighted combination, entry pricing and the forward
// projections derived from the DCF growth path.
type Report struct {
	Symbol      string                      `json:"symbol"`
	Inputs      valuation.Inputs            `json:"inputs"`
	DCF         valuation.DCFResult         `json:"dcf"`
	PE          valuation.PEResult          `json:"pe"`
	EVEBITDA    valuation.EVEBITDAResult    `json:"ev_ebitda"`
	EPSGrowth   valuation.EPSResult         `json:"eps_growth"`
	FCFYield    valuation.FCFYieldResult    `json:"fcf_yield"`
	Combined    valuation.WeightedValuation `json:"combined"`
	Assessment  string                      `json:"assessment"`
	EntryPrice  float64                     `json:"entry_price"`
	ImpliedRet  float64                     `json:"implied_return"`
	Scenarios   valuation.ScenarioResult    `json:"scenarios"`
	Projections valuation.ProjectionTable   `json:"projections"`
	EvaluatedAt time.Time                   `json:"evaluated_at"`
}

// ValuationService runs the engine end to end for one symbol at a time.
// The models themselves are pure; the service owns the market-data
// resolution in front of them and the record persistence behind them.
type ValuationService struct {
	db     *gorm.DB
	cfg    *config.Config
	logger zerolog.Logger
	market *marketdata.Service

	dcf      *valuation.DCFModel
	pe       *valuation.PEModel
	evEBITDA *valuation.EVEBITDAModel
	epsG     *valuation.EPSGrowthModel
	fcfYield *valuation.FCFYieldModel
	combiner *valuation.Combiner
}

// NewValuationService creates the service. db may be nil, which disables
// persistence; market may be nil when only Evaluate is used.
func NewValuationService(db *gorm.DB, cfg *config.Config, market *marketdata.Service, logger zerolog.Logger) *ValuationService {
	return &ValuationService{
		db:       db,
		cfg:      cfg,
		logger:   logger,
		market:   market,
		dcf:      valuation.NewDCFModel(logger),
		pe:       valuation.NewPEModel(logger),
		evEBITDA: valuation.NewEVEBITDAModel(logger),
		epsG:     valuation.NewEPSGrowthModel(logger),
		fcfYield: valuation.NewFCFYieldModel(logger),
		combiner: valuation.NewCombiner(logger),
	}
}

// Evaluate runs every model over already-resolved inputs and combines the
// valid ones. It returns an error only when no model produced a usable
// value, so callers can tell "no signal" from a genuine zero.
func (s *ValuationService) Evaluate(in valuation.Inputs) (*Report, error) {
	r := &Report{
		Symbol:      in.Symbol,
		Inputs:      in,
		DCF:         s.dcf.Valuate(in),
		PE:          s.pe.Valuate(in),
		EVEBITDA:    s.evEBITDA.Valuate(in),
		EPSGrowth:   s.epsG.Valuate(in),
		FCFYield:    s.fcfYield.Valuate(in),
		EvaluatedAt: time.Now().UTC(),
	}

	combined, err := s.combiner.Combine(in.CurrentPrice,
		r.DCF.ModelResult,
		r.PE.ModelResult,
		r.EVEBITDA.ModelResult,
		r.EPSGrowth.ModelResult,
		r.FCFYield.ModelResult,
	)
	if err != nil {
		return nil, fmt.Errorf("combine models for %s: %w", in.Symbol, err)
	}
	r.Combined = combined
	r.Assessment = Assessment(combined.UpsidePercent)

	years := in.Years
	if years < 1 {
		years = 1
	}
	r.EntryPrice = valuation.EntryPrice(combined.IntrinsicValue, s.desiredReturn(), years)
	r.ImpliedRet = valuation.ImpliedReturn(combined.IntrinsicValue, in.CurrentPrice, years)

	r.Scenarios = s.dcf.Scenarios(in)

	path := r.DCF.GrowthPath
	if len(path) == 0 {
		path = valuation.Uniform(in.GrowthRate, years)
	}
	r.Projections = valuation.Project(in, path, combined.IntrinsicValue, s.desiredReturn(), r.EvaluatedAt)

	return r, nil
}

// EvaluateSymbol resolves inputs through the market-data service, runs the
// engine and stores the result as the symbol's latest valuation record.
func (s *ValuationService) EvaluateSymbol(ctx context.Context, symbol string, opts marketdata.ResolveOptions) (*Report, error) {
	if s.market == nil {
		return nil, fmt.Errorf("no market data service configured")
	}
	in, err := s.market.InputsFor(ctx, symbol, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve inputs for %s: %w", symbol, err)
	}

	report, err := s.Evaluate(in)
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		if err := s.persist(report); err != nil {
			// Persistence is bookkeeping; the computed report is still
			// good, so log and return it.
			s.logger.Error().Err(err).Str("symbol", report.Symbol).Msg("Failed to persist valuation record")
		}
	}
	return report, nil
}

// Sensitivity sweeps the DCF over growth and discount rate pairs.
func (s *ValuationService) Sensitivity(in valuation.Inputs, growthRates, discountRates []float64) valuation.SensitivityResult {
	return s.dcf.Sensitivity(in, growthRates, discountRates)
}

// MonteCarlo samples the DCF parameter space. A non-zero seed makes the
// run reproducible.
func (s *ValuationService) MonteCarlo(in valuation.Inputs, iterations int, seed int64) valuation.MonteCarloResult {
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	return s.dcf.MonteCarlo(in, iterations, rng)
}

func (s *ValuationService) desiredReturn() float64 {
	if s.cfg != nil && s.cfg.DefaultDesiredReturn > 0 {
		return s.cfg.DefaultDesiredReturn
	}
	return 0.15
}

// persist upserts the symbol's valuation record and refreshes the
// denormalized snapshot on its watchlist row when one exists.
func (s *ValuationService) persist(r *Report) error {
	record := models.ValuationRecord{
		Symbol:          r.Symbol,
		CurrentPrice:    r.Inputs.CurrentPrice,
		IntrinsicValue:  r.Combined.IntrinsicValue,
		UnclampedValue:  r.Combined.UnclampedValue,
		WasClamped:      r.Combined.WasClamped,
		UpsidePercent:   r.Combined.UpsidePercent,
		EntryPrice:      r.EntryPrice,
		ImpliedReturn:   r.ImpliedRet,
		Assessment:      r.Assessment,
		GrowthRate:      r.Inputs.GrowthRate,
		DiscountRate:    r.DCF.DiscountRate,
		DCFValue:        r.Combined.PerModelValues[valuation.ModelDCF],
		DCFWeight:       r.Combined.PerModelWeights[valuation.ModelDCF],
		PEValue:         r.Combined.PerModelValues[valuation.ModelPE],
		PEWeight:        r.Combined.PerModelWeights[valuation.ModelPE],
		EVEBITDAValue:   r.Combined.PerModelValues[valuation.ModelEVEBITDA],
		EVEBITDAWeight:  r.Combined.PerModelWeights[valuation.ModelEVEBITDA],
		EPSGrowthValue:  r.Combined.PerModelValues[valuation.ModelEPS],
		EPSGrowthWeight: r.Combined.PerModelWeights[valuation.ModelEPS],
		FCFYieldValue:   r.Combined.PerModelValues[valuation.ModelFCFYield],
		FCFYieldWeight:  r.Combined.PerModelWeights[valuation.ModelFCFYield],
		Diagnostics:     collectDiagnostics(r),
		EvaluatedAt:     r.EvaluatedAt,
	}

	var existing models.ValuationRecord
	err := s.db.Where("symbol = ?", r.Symbol).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("create valuation record: %w", err)
		}
	case err != nil:
		return fmt.Errorf("load valuation record: %w", err)
	default:
		record.ID = existing.ID
		if err := s.db.Save(&record).Error; err != nil {
			return fmt.Errorf("update valuation record: %w", err)
		}
	}

	// Keep the watchlist headline figures in step when the symbol is
	// tracked; an untracked symbol is a plain RecordNotFound, not an error.
	var watched models.WatchedStock
	if err := s.db.Where("symbol = ?", r.Symbol).First(&watched).Error; err == nil {
		watched.CurrentPrice = record.CurrentPrice
		watched.IntrinsicValue = record.IntrinsicValue
		watched.UpsidePercent = record.UpsidePercent
		watched.Assessment = record.Assessment
		watched.WasClamped = record.WasClamped
		watched.LastValuedAt = record.EvaluatedAt
		if err := s.db.Save(&watched).Error; err != nil {
			return fmt.Errorf("update watchlist snapshot: %w", err)
		}
	}
	return nil
}

// collectDiagnostics flattens every model's diagnostic flags into one
// "model:flag" list for the stored record.
func collectDiagnostics(r *Report) string {
	var parts []string
	add := func(m valuation.ModelResult) {
		for _, d := range m.Diagnostics {
			parts = append(parts, m.Model+":"+d)
		}
	}
	add(r.DCF.ModelResult)
	add(r.PE.ModelResult)
	add(r.EVEBITDA.ModelResult)
	add(r.EPSGrowth.ModelResult)
	add(r.FCFYield.ModelResult)
	return strings.Join(parts, ";")
}
