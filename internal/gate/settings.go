package gate

import (
	"errors"
	"time"

	"adiwals/cinegate-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsKey = "verification"

// Defaults used when the settings row is absent or the database is
// unreachable. Free limit and grace period match what the site ran with.
const (
	defaultEnabled      = true
	defaultFreeLimit    = 3
	defaultValidMinutes = 1440
)

func defaultSettings() Settings {
	return Settings{
		Enabled:      defaultEnabled,
		FreeLimit:    defaultFreeLimit,
		ValidMinutes: defaultValidMinutes,
	}
}

// Settings returns the global gate settings. The row is created with
// defaults on first read and served from a short-lived in-memory cache
// afterwards so the hot watch/download path doesn't pay a database round
// trip per request. This never fails: an unreachable store yields the
// hardcoded defaults.
func (g *Gate) Settings() Settings {
	if v, err := g.cache.Get(settingsKey); err == nil {
		return v.(Settings)
	}

	s := defaultSettings()

	var row model.VerifySettings
	err := g.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = model.VerifySettings{
			ID:           1,
			Enabled:      s.Enabled,
			FreeLimit:    s.FreeLimit,
			ValidMinutes: s.ValidMinutes,
			UpdatedAt:    g.now(),
		}

		if err := g.db.Create(&row).Error; err != nil {
			zap.L().Warn("Failed to seed verification settings, using defaults", zap.Error(err))
			return s
		}
	} else if err != nil {
		zap.L().Warn("Failed to read verification settings, using defaults", zap.Error(err))
		return s
	}

	s = Settings{
		Enabled:      row.Enabled,
		FreeLimit:    row.FreeLimit,
		ValidMinutes: row.ValidMinutes,
	}

	g.cache.Set(settingsKey, s)
	return s
}

// UpdateSettings upserts the single settings row and drops the cached
// copy so the next read sees the new values immediately. Negative values
// are clamped to 0, anything else is trusted (admin-only caller).
func (g *Gate) UpdateSettings(enabled bool, freeLimit, validMinutes int) error {
	freeLimit = max(freeLimit, 0)
	validMinutes = max(validMinutes, 0)

	row := model.VerifySettings{
		ID:           1,
		Enabled:      enabled,
		FreeLimit:    freeLimit,
		ValidMinutes: validMinutes,
		UpdatedAt:    g.now(),
	}

	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return err
	}

	g.cache.Remove(settingsKey)
	return nil
}

// nextMidnight returns the instant the current calendar day ends in the
// reference zone.
func (g *Gate) nextMidnight() time.Time {
	local := g.now().In(g.zone)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.zone).AddDate(0, 0, 1)
}
