package handlers

import (
	"net/http"
	"strings"

	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OverrideHandler manages the per-symbol manual FCF overrides that take
// precedence over provider figures.
type OverrideHandler struct {
	logger zerolog.Logger
	store  *marketdata.OverrideStore
}

// NewOverrideHandler creates a new override handler.
func NewOverrideHandler(store *marketdata.OverrideStore, logger zerolog.Logger) *OverrideHandler {
	return &OverrideHandler{
		logger: logger,
		store:  store,
	}
}

// List returns every configured override.
func (h *OverrideHandler) List(c *gin.Context) {
	overrides, err := h.store.All()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list overrides")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list overrides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

// Get returns the override for one symbol.
func (h *OverrideHandler) Get(c *gin.Context) {
	symbol := c.Param("symbol")

	override, found, err := h.store.Get(symbol)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to load override")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load override"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No override for symbol"})
		return
	}
	c.JSON(http.StatusOK, override)
}

// SetRequest pins a manual FCF figure for a symbol.
type SetRequest struct {
	FCF  float64 `json:"fcf" binding:"required"`
	Note string  `json:"note"`
}

// Set creates or replaces a symbol's override.
func (h *OverrideHandler) Set(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol is required"})
		return
	}

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-zero fcf value is required"})
		return
	}

	override, err := h.store.Set(symbol, req.FCF, req.Note)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to save override")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save override"})
		return
	}
	c.JSON(http.StatusOK, override)
}

// Delete removes a symbol's override so provider data applies again.
func (h *OverrideHandler) Delete(c *gin.Context) {
	symbol := c.Param("symbol")
	if err := h.store.Delete(symbol); err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to delete override")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete override"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Override removed"})
}
