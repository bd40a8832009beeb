package handlers

import (
	"errors"
	"net/http"

	"github.com/art-pro/valuation-backend/internal/analytics"
	"github.com/art-pro/valuation-backend/internal/marketdata"
	"github.com/art-pro/valuation-backend/internal/pricing"
	"github.com/art-pro/valuation-backend/internal/valuation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondEngineError maps engine and market-data failures onto HTTP status
// codes: bad numeric inputs are the client's problem (422), an unknown
// symbol is a 404 and anything else is a 500.
func respondEngineError(c *gin.Context, logger zerolog.Logger, err error) {
	var (
		invalidInput *valuation.InvalidInputError
		instability  *valuation.NumericalInstabilityError
		invalidParam *pricing.InvalidParameterError
	)
	switch {
	case errors.As(err, &invalidInput), errors.As(err, &instability), errors.As(err, &invalidParam),
		errors.Is(err, analytics.ErrSeriesTooShort), errors.Is(err, analytics.ErrNonPositivePrice):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, marketdata.ErrUnknownSymbol):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown symbol"})
	default:
		logger.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
