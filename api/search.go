package api

import (
	"net/http"
	"strings"

	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) Search(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{
			"movies": []model.Movie{},
			"series": []model.Series{},
		})
		return
	}

	var movies []model.Movie
	err := a.DB.
		Where("LOWER(title) LIKE ?", "%"+q+"%").
		Order("created_at desc").
		Limit(30).
		Find(&movies).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to search movies", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var series []model.Series
	err = a.DB.
		Where("LOWER(title) LIKE ?", "%"+q+"%").
		Order("created_at desc").
		Limit(30).
		Find(&series).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to search series", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movies": movies,
		"series": series,
	})
}
