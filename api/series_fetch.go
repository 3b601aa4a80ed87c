package api

import (
	"errors"
	"net/http"
	"strings"

	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) SeriesList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var series []model.Series
	err := a.DB.
		Order("created_at desc").
		Limit(20).
		Find(&series).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load series", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, series)
}

func (a *API) SeriesBrowse(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.Order("created_at desc")

	if genre := strings.TrimSpace(c.Query("genre")); genre != "" {
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(genre)+"%")
	}

	var series []model.Series
	if err := q.Find(&series).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to browse series", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, series)
}

func (a *API) SeriesFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var series model.Series
	err := a.DB.
		Preload("Seasons", func(db *gorm.DB) *gorm.DB {
			return db.Order("number asc")
		}).
		Preload("Seasons.Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("number asc")
		}).
		First(&series, "id = ?", c.Param("id")).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Series not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load series", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, series)
}

func (a *API) EpisodeFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var episode model.Episode
	err := a.DB.First(&episode, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Episode not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load episode", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"episode":      episode,
		"has_watch":    episode.WatchURL != "",
		"has_download": episode.DownloadURL != "",
	})
}
