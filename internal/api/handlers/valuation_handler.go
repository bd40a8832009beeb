package handlers

import (
	"net/http"
	"strconv"

	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/services"
	"github.com/art-pro/valuation-backend/internal/valuation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ValuationHandler handles intrinsic-value requests.
type ValuationHandler struct {
	cfg    *config.Config
	logger zerolog.Logger
	svc    *services.ValuationService
}

// NewValuationHandler creates a new valuation handler.
func NewValuationHandler(cfg *config.Config, svc *services.ValuationService, logger zerolog.Logger) *ValuationHandler {
	return &ValuationHandler{
		cfg:    cfg,
		logger: logger,
		svc:    svc,
	}
}

// Evaluate runs the engine over inputs supplied in the request body.
func (h *ValuationHandler) Evaluate(c *gin.Context) {
	var in valuation.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid valuation inputs: " + err.Error()})
		return
	}
	if in.Years < 1 {
		in.Years = h.defaultYears()
	}

	report, err := h.svc.Evaluate(in)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// EvaluateSymbol resolves the symbol through the market-data service and
// runs the engine on the derived inputs.
func (h *ValuationHandler) EvaluateSymbol(c *gin.Context) {
	symbol := c.Param("symbol")

	opts := marketdata.ResolveOptions{Years: h.defaultYears()}
	if v := c.Query("years"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil || years < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "years must be a positive integer"})
			return
		}
		opts.Years = years
	}
	if v := c.Query("sbc_impact"); v != "" {
		impact, err := strconv.ParseFloat(v, 64)
		if err != nil || impact < 0 || impact >= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sbc_impact must be a fraction in [0, 1)"})
			return
		}
		opts.SBCImpact = impact
	}
	opts.BypassCache = c.Query("refresh") == "true"

	report, err := h.svc.EvaluateSymbol(c.Request.Context(), symbol, opts)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SensitivityRequest sweeps the DCF over a growth x discount grid. Empty
// rate lists select the standard grid.
type SensitivityRequest struct {
	Inputs        valuation.Inputs `json:"inputs" binding:"required"`
	GrowthRates   []float64        `json:"growth_rates"`
	DiscountRates []float64        `json:"discount_rates"`
}

// Sensitivity evaluates the DCF over every requested rate pair.
func (h *ValuationHandler) Sensitivity(c *gin.Context) {
	var req SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sensitivity request: " + err.Error()})
		return
	}
	if req.Inputs.Years < 1 {
		req.Inputs.Years = h.defaultYears()
	}
	c.JSON(http.StatusOK, h.svc.Sensitivity(req.Inputs, req.GrowthRates, req.DiscountRates))
}

// MonteCarloRequest samples the DCF parameter space. Seed zero means a
// clock-seeded run.
type MonteCarloRequest struct {
	Inputs     valuation.Inputs `json:"inputs" binding:"required"`
	Iterations int              `json:"iterations"`
	Seed       int64            `json:"seed"`
}

// MonteCarlo summarizes the per-share value distribution over random draws.
func (h *ValuationHandler) MonteCarlo(c *gin.Context) {
	var req MonteCarloRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Monte Carlo request: " + err.Error()})
		return
	}
	if req.Inputs.Years < 1 {
		req.Inputs.Years = h.defaultYears()
	}
	c.JSON(http.StatusOK, h.svc.MonteCarlo(req.Inputs, req.Iterations, req.Seed))
}

func (h *ValuationHandler) defaultYears() int {
	if h.cfg != nil && h.cfg.DefaultYears > 0 {
		return h.cfg.DefaultYears
	}
	return 5
}
