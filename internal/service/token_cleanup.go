// Package service contains background sweeps that keep the database from
// accumulating dead rows
package service

import (
	"time"

	"adiwals/cinegate-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// tokenMaxAge is how long an unredeemed verification token may sit
// around. Users either finish the shortlink within minutes or never,
// so two days is generous.
const tokenMaxAge = 48 * time.Hour

// TokenCleanup defines a function used to periodically cleanup
// verification tokens that were issued but never redeemed
func TokenCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("created_at < ?", time.Now().Add(-tokenMaxAge)).
				Delete(model.VerifyToken{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup abandoned tokens", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up abandoned tokens", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
