package marketdata

import (
	"strings"

	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// OverrideStore persists manual free cash flow figures. While an override
// exists for a symbol it wins over whatever the provider reports.
type OverrideStore struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewOverrideStore creates a new override store.
func NewOverrideStore(db *gorm.DB, logger zerolog.Logger) *OverrideStore {
	return &OverrideStore{
		db:     db,
		logger: logger,
	}
}

// Get returns the override for symbol, reporting through ok whether one
// exists.
func (s *OverrideStore) Get(symbol string) (models.FCFOverride, bool, error) {
	var override models.FCFOverride
	err := s.db.Where("symbol = ?", normalizeSymbol(symbol)).First(&override).Error
	if err == gorm.ErrRecordNotFound {
		return models.FCFOverride{}, false, nil
	}
	if err != nil {
		return models.FCFOverride{}, false, err
	}
	return override, true, nil
}

// Set creates or updates the override for symbol.
func (s *OverrideStore) Set(symbol string, fcf float64, note string) (models.FCFOverride, error) {
	key := normalizeSymbol(symbol)

	var override models.FCFOverride
	err := s.db.Where("symbol = ?", key).First(&override).Error
	if err == gorm.ErrRecordNotFound {
		override = models.FCFOverride{Symbol: key, FCF: fcf, Note: note}
		if err := s.db.Create(&override).Error; err != nil {
			return models.FCFOverride{}, err
		}
		s.logger.Info().Str("symbol", key).Float64("fcf", fcf).Msg("FCF override created")
		return override, nil
	}
	if err != nil {
		return models.FCFOverride{}, err
	}

	override.FCF = fcf
	override.Note = note
	if err := s.db.Save(&override).Error; err != nil {
		return models.FCFOverride{}, err
	}
	s.logger.Info().Str("symbol", key).Float64("fcf", fcf).Msg("FCF override updated")
	return override, nil
}

// Delete removes the override for symbol. Deleting a missing override is
// not an error.
func (s *OverrideStore) Delete(symbol string) error {
	return s.db.Where("symbol = ?", normalizeSymbol(symbol)).Delete(&models.FCFOverride{}).Error
}

// All returns every stored override ordered by symbol.
func (s *OverrideStore) All() ([]models.FCFOverride, error) {
	var overrides []models.FCFOverride
	if err := s.db.Order("symbol").Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
