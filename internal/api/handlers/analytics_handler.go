package handlers

import (
	"net/http"

	"github.com/art-pro/valuation-backend/internal/analytics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AnalyticsHandler handles spectral price-series requests. The series
// itself travels in the request; nothing is stored.
type AnalyticsHandler struct {
	logger   zerolog.Logger
	analyzer *analytics.Analyzer
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger:   logger,
		analyzer: analytics.NewAnalyzer(logger),
	}
}

// CyclesRequest scans a daily price series for dominant periodicities.
type CyclesRequest struct {
	Prices        []float64 `json:"prices" binding:"required"`
	MaxCycleYears float64   `json:"max_cycle_years"`
}

// Cycles returns the dominant cycles of the supplied series.
func (h *AnalyticsHandler) Cycles(c *gin.Context) {
	var req CyclesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycles request: " + err.Error()})
		return
	}

	report, err := h.analyzer.DetectCycles(req.Prices, req.MaxCycleYears)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// NoiseRequest low-pass filters a daily price series. CutoffPercent is the
// share of high-frequency return content to remove; zero selects the
// default.
type NoiseRequest struct {
	Prices        []float64 `json:"prices" binding:"required"`
	CutoffPercent float64   `json:"cutoff_percent"`
}

// Noise returns the smoothed series alongside the original.
func (h *AnalyticsHandler) Noise(c *gin.Context) {
	var req NoiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid noise request: " + err.Error()})
		return
	}

	filtered, err := h.analyzer.FilterNoise(req.Prices, req.CutoffPercent)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, filtered)
}
