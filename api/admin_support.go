package api

import (
	"net/http"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) AdminSupportList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.Order("created_at desc").Limit(100)

	if status := c.Query("status"); status != "" {
		if err := validators.SupportStatusValidator(status); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		q = q.Where("status = ?", status)
	}

	var messages []model.SupportMessage
	if err := q.Find(&messages).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list support messages", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, messages)
}

type supportStatusBody struct {
	Status string `json:"status"`
}

func (a *API) AdminSupportStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data supportStatusBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.SupportStatusValidator(data.Status); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	res := a.DB.
		Model(model.SupportMessage{}).
		Where("id = ?", c.Param("id")).
		Update("status", data.Status)
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update support status", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Message not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
