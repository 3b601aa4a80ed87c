package api

import (
	"errors"
	"net/http"
	"strings"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seriesBody struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Language    string   `json:"language"`
	Languages   []string `json:"languages"`
	Quality     string   `json:"quality"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	PosterPath  string   `json:"poster_path"`
}

func (a *API) AdminSeriesCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data seriesBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.MovieValidator(data.Title, data.Year, "", ""); err != nil {
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

		zap.L().Error("Failed to generate series id", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	series := model.Series{
		ID:          id,
		Title:       strings.TrimSpace(data.Title),
		Year:        data.Year,
		Language:    data.Language,
		Languages:   data.Languages,
		Quality:     data.Quality,
		Category:    data.Category,
		Description: data.Description,
		PosterPath:  data.PosterPath,
	}

	if err := a.DB.Create(&series).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create series", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, series)
}

func (a *API) AdminSeriesUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var existing model.Series
	err := a.DB.First(&existing, "id = ?", c.Param("id")).Error
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

	var data seriesBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.MovieValidator(data.Title, data.Year, "", ""); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	existing.Title = strings.TrimSpace(data.Title)
	existing.Year = data.Year
	existing.Language = data.Language
	existing.Languages = data.Languages
	existing.Quality = data.Quality
	existing.Category = data.Category
	existing.Description = data.Description
	if data.PosterPath != "" {
		existing.PosterPath = data.PosterPath
	}

	if err := a.DB.Save(&existing).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update series", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, existing)
}

// AdminSeriesDelete removes a series together with its seasons and
// episodes so no orphan rows survive.
func (a *API) AdminSeriesDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	seriesID := c.Param("id")

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var seasonIDs []uint
		if err := tx.Model(model.Season{}).Where("series_id = ?", seriesID).Select("id").Find(&seasonIDs).Error; err != nil {
			return err
		}

		if len(seasonIDs) > 0 {
			if err := tx.Where("season_id IN ?", seasonIDs).Delete(model.Episode{}).Error; err != nil {
				return err
			}

			if err := tx.Where("series_id = ?", seriesID).Delete(model.Season{}).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(model.Series{}, "id = ?", seriesID)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
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

		zap.L().Error("Failed to delete series", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

type seasonBody struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

func (a *API) AdminSeasonCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	seriesID := c.Param("id")

	var series model.Series
	err := a.DB.First(&series, "id = ?", seriesID).Error
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

	var data seasonBody
	if err := c.ShouldBind(&data); err != nil || data.Number <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	season := model.Season{
		SeriesID: series.ID,
		Number:   data.Number,
		Title:    strings.TrimSpace(data.Title),
	}

	if err := a.DB.Create(&season).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create season", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, season)
}
