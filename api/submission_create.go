package api

import (
	"net/http"
	"strings"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

type submissionBody struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Language    string   `json:"language"`
	Languages   []string `json:"languages"`
	Quality     string   `json:"quality"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	WatchURL    string   `json:"watch_url"`
	DownloadURL string   `json:"download_url"`
	SubmittedBy string   `json:"submitted_by"`
}

// SubmissionCreate files a community movie suggestion into the
// moderation queue. Nothing becomes visible until an admin approves it.
func (a *API) SubmissionCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data submissionBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.MovieValidator(data.Title, data.Year, data.WatchURL, data.DownloadURL); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	id, err := gonanoid.New(12)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate submission id", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	sub := model.Submission{
		ID:          id,
		Title:       strings.TrimSpace(data.Title),
		Year:        data.Year,
		Language:    data.Language,
		Languages:   data.Languages,
		Quality:     data.Quality,
		Category:    data.Category,
		Description: data.Description,
		WatchURL:    data.WatchURL,
		DownloadURL: data.DownloadURL,
		SubmittedBy: strings.TrimSpace(data.SubmittedBy),
		Status:      "pending",
	}

	if err := a.DB.Create(&sub).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store submission", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      sub.ID,
	})
}
