package api

import (
	"net/http"

	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var homeLanguages = []string{"Tamil", "Telugu", "Hindi", "Malayalam", "Kannada"}

// Home returns the landing page payload: the latest uploads plus one
// short row per language. Cached at the router so the language fan-out
// doesn't run per visitor.
func (a *API) Home(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var latest []model.Movie
	err := a.DB.
		Order("created_at desc").
		Limit(20).
		Find(&latest).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load latest movies", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	rows := make(map[string][]model.Movie, len(homeLanguages))

	for _, lang := range homeLanguages {
		var movies []model.Movie

		err := a.DB.
			Where("language = ?", lang).
			Order("created_at desc").
			Limit(12).
			Find(&movies).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load language row", zap.String("language", lang), zap.Error(err))
			return
		}

		rows[lang] = movies
	}

	c.JSON(http.StatusOK, gin.H{
		"latest":    latest,
		"languages": rows,
	})
}
