package gate

import (
	"errors"
	"time"

	"adiwals/cinegate-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// State loads the session's ledger for today, lazily rolling the row over
// when its stored day no longer matches. A day value that was never
// written or fails to match (including malformed values) takes the same
// reset path as a legitimate rollover. The reset clears any active grace
// period.
//
// The returned open flag is true when the store couldn't be read or
// written; callers treat that as "ungated" rather than an error.
func (g *Gate) State(sessionID string) (Settings, State, string, bool) {
	settings := g.Settings()
	today := g.Today()

	var row model.SessionLedger
	err := g.db.Where("session_id = ?", sessionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = model.SessionLedger{
			SessionID: sessionID,
			Day:       today,
			UpdatedAt: g.now(),
		}

		if err := g.db.Create(&row).Error; err != nil {
			zap.L().Warn("Failed to create session ledger, allowing access", zap.Error(err))
			return settings, State{}, today, true
		}

		return settings, State{}, today, false
	}
	if err != nil {
		zap.L().Warn("Failed to read session ledger, allowing access", zap.Error(err))
		return settings, State{}, today, true
	}

	if row.Day != today {
		err := g.db.
			Model(model.SessionLedger{}).
			Where("session_id = ?", sessionID).
			Updates(map[string]any{
				"day":            today,
				"free_used":      0,
				"verified_until": nil,
				"updated_at":     g.now(),
			}).
			Error
		if err != nil {
			zap.L().Warn("Failed to roll over session ledger, allowing access", zap.Error(err))
			return settings, State{}, today, true
		}

		return settings, State{}, today, false
	}

	return settings, State{FreeUsed: row.FreeUsed, VerifiedUntil: row.VerifiedUntil}, today, false
}

// ConsumeFree records that one access was granted. It decides nothing by
// itself; the caller has already passed Check. The increment is a single
// atomic upsert so concurrent requests never lose counts to a
// read-modify-write race.
func (g *Gate) ConsumeFree(sessionID string) {
	now := g.now()

	err := g.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"day":        g.Today(),
			"free_used":  gorm.Expr("free_used + 1"),
			"updated_at": now,
		}),
	}).Create(&model.SessionLedger{
		SessionID: sessionID,
		Day:       g.Today(),
		FreeUsed:  1,
		UpdatedAt: now,
	}).Error
	if err != nil {
		zap.L().Warn("Failed to count free click", zap.Error(err), zap.String("sessionID", sessionID))
	}
}

// MarkVerified grants the session its grace period. The state load runs
// first so a row left over from yesterday rolls over before the grace
// is written; a token issued before midnight and redeemed after it must
// not carry the old day's count into the new one. With valid_minutes
// set to 0 the grace lasts until the next day rollover: the stored
// instant is the upcoming midnight in the reference zone, so the gate
// check and the lazy reset agree without a special sentinel.
func (g *Gate) MarkVerified(sessionID string) {
	settings, _, _, _ := g.State(sessionID)
	now := g.now()

	var until time.Time
	if settings.ValidMinutes <= 0 {
		until = g.nextMidnight()
	} else {
		until = now.Add(time.Duration(settings.ValidMinutes) * time.Minute)
	}

	err := g.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"day":            g.Today(),
			"verified_until": until,
			"updated_at":     now,
		}),
	}).Create(&model.SessionLedger{
		SessionID:     sessionID,
		Day:           g.Today(),
		VerifiedUntil: &until,
		UpdatedAt:     now,
	}).Error
	if err != nil {
		zap.L().Warn("Failed to mark session verified", zap.Error(err), zap.String("sessionID", sessionID))
	}
}

// LedgerCountToday returns how many sessions have touched the gate today.
// Shown on the admin settings page as a cheap usage signal.
func (g *Gate) LedgerCountToday() int64 {
	var n int64

	err := g.db.
		Model(model.SessionLedger{}).
		Where("day = ?", g.Today()).
		Count(&n).
		Error
	if err != nil {
		zap.L().Warn("Failed to count ledger rows", zap.Error(err))
	}

	return n
}
