package api

import (
	"errors"
	"net/http"
	"time"

	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) AdminSubmissionList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.
		Order("case when status = 'pending' then 0 else 1 end").
		Order("created_at desc").
		Limit(100)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var subs []model.Submission
	if err := q.Find(&subs).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list submissions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, subs)
}

func (a *API) AdminSubmissionApprove(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var sub model.Submission
	if err := a.DB.First(&sub, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Submission not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load submission", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if sub.Status != "pending" {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     "Submission already reviewed",
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

		zap.L().Error("Failed to generate movie id", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	movie := model.Movie{
		ID:          id,
		Title:       sub.Title,
		Year:        sub.Year,
		Language:    sub.Language,
		Languages:   sub.Languages,
		Quality:     sub.Quality,
		Category:    sub.Category,
		Description: sub.Description,
		WatchURL:    sub.WatchURL,
		DownloadURL: sub.DownloadURL,
		PosterPath:  sub.PosterPath,
		Source:      "submission",
	}

	now := time.Now()

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&movie).Error; err != nil {
			return err
		}

		return tx.Model(&sub).Updates(map[string]any{
			"status":      "approved",
			"reviewed_at": now,
		}).Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to approve submission", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"movieID": movie.ID,
	})
}

func (a *API) AdminSubmissionReject(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	now := time.Now()

	res := a.DB.
		Model(model.Submission{}).
		Where("id = ? AND status = 'pending'", c.Param("id")).
		Updates(map[string]any{
			"status":      "rejected",
			"reviewed_at": now,
		})
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reject submission", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Submission not found or already reviewed",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
