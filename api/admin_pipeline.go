package api

import (
	"net/http"

	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) AdminPipelineRun(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if a.Pipeline == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Pipeline is disabled",
			"requestID": requestID,
		})
		return
	}

	go func() {
		if err := a.Pipeline.Run(); err != nil {
			zap.L().Error("Manual pipeline run failed", zap.Error(err), zap.String("requestID", requestID))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
	})
}

func (a *API) AdminPipelineReleases(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.Order("updated_at desc").Limit(100)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var releases []model.Release
	if err := q.Find(&releases).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list releases", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, releases)
}
