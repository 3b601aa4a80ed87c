package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) AdminSettingsFetch(c *gin.Context) {
	settings := a.Gate.Settings()

	c.JSON(http.StatusOK, gin.H{
		"settings":       settings,
		"sessions_today": a.Gate.LedgerCountToday(),
	})
}

type settingsBody struct {
	Enabled      bool `json:"enabled"`
	FreeLimit    int  `json:"free_limit"`
	ValidMinutes int  `json:"valid_minutes"`
}

func (a *API) AdminSettingsUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data settingsBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Gate.UpdateSettings(data.Enabled, data.FreeLimit, data.ValidMinutes); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update gate settings", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": a.Gate.Settings(),
	})
}
