package handlers

import (
	"net/http"

	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/pricing"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OptionHandler handles option pricing requests.
type OptionHandler struct {
	cfg    *config.Config
	logger zerolog.Logger
	pricer *pricing.Pricer
}

// NewOptionHandler creates a new option handler with the standard pricer.
func NewOptionHandler(cfg *config.Config, logger zerolog.Logger) *OptionHandler {
	return &OptionHandler{
		cfg:    cfg,
		logger: logger,
		pricer: pricing.NewPricer(logger),
	}
}

// OptionRequest carries the contract and market parameters shared by the
// pricing endpoints. Mode selects the drift: "risk_neutral" (default)
// quotes off the risk-free rate, "real_world" off ExpectedReturn.
type OptionRequest struct {
	Spot           float64 `json:"spot" binding:"required"`
	Strike         float64 `json:"strike"`
	Maturity       float64 `json:"maturity"`
	Sigma          float64 `json:"sigma" binding:"required"`
	RiskFree       float64 `json:"risk_free"`
	ExpectedReturn float64 `json:"expected_return"`
	DividendYield  float64 `json:"dividend_yield"`
	Mode           string  `json:"mode"`
}

func (r OptionRequest) params() (pricing.OptionParams, bool) {
	p := pricing.OptionParams{
		Spot:           r.Spot,
		Strike:         r.Strike,
		Maturity:       r.Maturity,
		Sigma:          r.Sigma,
		RiskFree:       r.RiskFree,
		ExpectedReturn: r.ExpectedReturn,
		DividendYield:  r.DividendYield,
	}
	switch r.Mode {
	case "", "risk_neutral":
		p.Mode = pricing.DriftRiskNeutral
	case "real_world":
		p.Mode = pricing.DriftRealWorld
	default:
		return p, false
	}
	return p, true
}

// Price quotes a single call and put.
func (h *OptionHandler) Price(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option request: " + err.Error()})
		return
	}
	params, ok := req.params()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be risk_neutral or real_world"})
		return
	}

	quote, err := h.pricer.Price(params)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// SurfaceRequest prices a strike by maturity grid. Empty lists select the
// default shape around the spot.
type SurfaceRequest struct {
	OptionRequest
	Strikes    []float64 `json:"strikes"`
	Maturities []float64 `json:"maturities"`
}

// Surface prices the requested option grid.
func (h *OptionHandler) Surface(c *gin.Context) {
	var req SurfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid surface request: " + err.Error()})
		return
	}
	params, ok := req.params()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be risk_neutral or real_world"})
		return
	}

	surface, err := h.pricer.Surface(params, req.Strikes, req.Maturities)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, surface)
}

// DensityRequest samples the terminal price distribution.
type DensityRequest struct {
	OptionRequest
	Points int `json:"points"`
}

// Density returns the lognormal density of the spot at maturity.
func (h *OptionHandler) Density(c *gin.Context) {
	var req DensityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid density request: " + err.Error()})
		return
	}
	params, ok := req.params()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be risk_neutral or real_world"})
		return
	}

	points, err := h.pricer.Density(params, req.Points)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spot": params.Spot, "points": points})
}
