package api

import (
	"net/http"
	"strings"
	"time"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

type noticeBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Active  bool   `json:"active"`
}

// AdminNoticeUpdate upserts the single site banner row.
func (a *API) AdminNoticeUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data noticeBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Type == "" {
		data.Type = "info"
	}

	if err := validators.NoticeTypeValidator(data.Type); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	notice := model.Notice{
		ID:        1,
		Message:   strings.TrimSpace(data.Message),
		Type:      data.Type,
		Icon:      data.Icon,
		Active:    data.Active,
		UpdatedAt: time.Now(),
	}

	err := a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&notice).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update notice", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, notice)
}
