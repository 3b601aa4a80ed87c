package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type episodeBody struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	WatchURL    string `json:"watch_url"`
	DownloadURL string `json:"download_url"`
}

func (a *API) AdminEpisodeCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	seasonID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid season ID provided",
			"requestID": requestID,
		})
		return
	}

	var season model.Season
	if err := a.DB.First(&season, "id = ?", seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Season not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load season", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var data episodeBody
	if err := c.ShouldBind(&data); err != nil || data.Number <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.MovieValidator("episode", 0, data.WatchURL, data.DownloadURL); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	episode := model.Episode{
		SeasonID:    season.ID,
		Number:      data.Number,
		Title:       strings.TrimSpace(data.Title),
		WatchURL:    data.WatchURL,
		DownloadURL: data.DownloadURL,
	}

	if err := a.DB.Create(&episode).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create episode", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, episode)
}

func (a *API) AdminEpisodeUpdate(c *gin.Context) {
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

	var data episodeBody
	if err := c.ShouldBind(&data); err != nil || data.Number <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.MovieValidator("episode", 0, data.WatchURL, data.DownloadURL); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	episode.Number = data.Number
	episode.Title = strings.TrimSpace(data.Title)
	episode.WatchURL = data.WatchURL
	episode.DownloadURL = data.DownloadURL

	if err := a.DB.Save(&episode).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update episode", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, episode)
}

func (a *API) AdminEpisodeDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	res := a.DB.Delete(model.Episode{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete episode", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Episode not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
