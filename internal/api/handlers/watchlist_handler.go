package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/art-pro/valuation-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// WatchlistHandler handles the tracked-symbol endpoints.
type WatchlistHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	logger zerolog.Logger
	svc    *services.ValuationService
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(db *gorm.DB, cfg *config.Config, svc *services.ValuationService, logger zerolog.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		db:     db,
		cfg:    cfg,
		logger: logger,
		svc:    svc,
	}
}

// List returns every watched symbol with its latest headline figures.
func (h *WatchlistHandler) List(c *gin.Context) {
	var stocks []models.WatchedStock
	if err := h.db.Order("symbol").Find(&stocks).Error; err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": stocks})
}

// AddRequest creates a watchlist entry.
type AddRequest struct {
	Symbol          string `json:"symbol" binding:"required"`
	CompanyName     string `json:"company_name"`
	UpdateFrequency string `json:"update_frequency"`
}

// Add tracks a new symbol and runs its first valuation.
func (h *WatchlistHandler) Add(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol is required"})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol is required"})
		return
	}

	frequency := req.UpdateFrequency
	if frequency == "" {
		frequency = h.cfg.DefaultUpdateFrequency
	}

	var count int64
	if err := h.db.Model(&models.WatchedStock{}).Where("symbol = ?", symbol).Count(&count).Error; err != nil {
		h.logger.Error().Err(err).Msg("Failed to check watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add symbol"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Symbol is already on the watchlist"})
		return
	}

	stock := models.WatchedStock{
		Symbol:          symbol,
		CompanyName:     req.CompanyName,
		UpdateFrequency: frequency,
	}
	if err := h.db.Create(&stock).Error; err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to create watchlist entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add symbol"})
		return
	}

	// First valuation is best effort: an unknown symbol stays on the list
	// and gets valued once a provider knows it.
	if report, err := h.svc.EvaluateSymbol(c.Request.Context(), symbol, marketdata.ResolveOptions{}); err != nil {
		h.logger.Warn().Err(err).Str("symbol", symbol).Msg("Initial valuation failed")
	} else {
		stock.CurrentPrice = report.Inputs.CurrentPrice
		stock.IntrinsicValue = report.Combined.IntrinsicValue
		stock.UpsidePercent = report.Combined.UpsidePercent
		stock.Assessment = report.Assessment
		stock.WasClamped = report.Combined.WasClamped
		stock.LastValuedAt = report.EvaluatedAt
	}

	c.JSON(http.StatusCreated, stock)
}

// Remove deletes a symbol from the watchlist.
func (h *WatchlistHandler) Remove(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))

	var stock models.WatchedStock
	if err := h.db.Where("symbol = ?", symbol).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Symbol is not on the watchlist"})
			return
		}
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to load watchlist entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove symbol"})
		return
	}

	if err := h.db.Delete(&stock).Error; err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to delete watchlist entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove symbol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Symbol removed from watchlist"})
}

// Refresh re-values every watched symbol with fresh provider data.
func (h *WatchlistHandler) Refresh(c *gin.Context) {
	var stocks []models.WatchedStock
	if err := h.db.Find(&stocks).Error; err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch watchlist for refresh")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh watchlist"})
		return
	}

	refreshed := make([]string, 0, len(stocks))
	failed := make(map[string]string)
	for _, stock := range stocks {
		_, err := h.svc.EvaluateSymbol(c.Request.Context(), stock.Symbol, marketdata.ResolveOptions{BypassCache: true})
		if err != nil {
			h.logger.Warn().Err(err).Str("symbol", stock.Symbol).Msg("Failed to refresh symbol")
			failed[stock.Symbol] = err.Error()
			continue
		}
		refreshed = append(refreshed, stock.Symbol)
	}

	c.JSON(http.StatusOK, gin.H{"refreshed": refreshed, "failed": failed})
}
