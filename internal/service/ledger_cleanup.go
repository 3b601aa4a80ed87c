package service

import (
	"time"

	"adiwals/cinegate-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger rows roll over in place, so a row only becomes garbage once its
// session stops coming back entirely.
const ledgerMaxIdle = 30 * 24 * time.Hour

// LedgerCleanup periodically deletes ledger rows for sessions that
// haven't been seen in a month
func LedgerCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Ledger cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("updated_at < ?", time.Now().Add(-ledgerMaxIdle)).
				Delete(model.SessionLedger{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup idle ledger rows", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up idle ledger rows", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
