package gate

import (
	"errors"
	"fmt"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// tokenBytes is the entropy carried by a verification token. 16 random
// bytes hex-encoded is unguessable enough that collisions are a
// unique-index problem, not a generation problem.
const tokenBytes = 16

const issueRetries = 3

// IssueToken mints a one-time token binding the session to the URL it
// was trying to reach. If the unique index on token ever rejects the
// insert, a fresh token is generated and the insert retried.
func (g *Gate) IssueToken(sessionID, next string) (string, error) {
	var lastErr error

	for range issueRetries {
		token, err := util.GenerateToken(tokenBytes)
		if err != nil {
			return "", fmt.Errorf("failed to generate verification token, %w", err)
		}

		err = g.db.Create(&model.VerifyToken{
			Token:     token,
			SessionID: sessionID,
			Next:      next,
			CreatedAt: g.now(),
		}).Error
		if err == nil {
			return token, nil
		}

		lastErr = err
	}

	return "", fmt.Errorf("failed to store verification token, %w", lastErr)
}

// RedeemToken consumes a token exactly once. The read and delete run in
// one transaction and the delete's row count is checked, so two requests
// racing on the same token can't both succeed. Any holder of a valid
// token redeems it for the session bound to the token, not necessarily
// the session presenting it.
func (g *Gate) RedeemToken(token string) (*model.VerifyToken, bool) {
	var row model.VerifyToken

	err := g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&row).Error; err != nil {
			return err
		}

		res := tx.Where("token = ?", token).Delete(model.VerifyToken{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Warn("Failed to redeem verification token", zap.Error(err))
		}

		return nil, false
	}

	return &row, true
}
