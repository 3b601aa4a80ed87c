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

func (a *API) MovieFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var movie model.Movie
	err := a.DB.First(&movie, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Movie not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load movie", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	audio := movie.Language
	if len(movie.Languages) > 0 {
		audio = strings.Join(movie.Languages, ", ")
	}

	c.JSON(http.StatusOK, gin.H{
		"movie":          movie,
		"audio":          audio,
		"is_multi_dubbed": len(movie.Languages) > 1,
		"has_watch":      movie.WatchURL != "",
		"has_download":   movie.DownloadURL != "",
	})
}

func (a *API) MovieBrowse(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.Order("created_at desc")

	if genre := strings.TrimSpace(c.Query("genre")); genre != "" {
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(genre)+"%")
	}

	var movies []model.Movie
	if err := q.Find(&movies).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to browse movies", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, movies)
}
