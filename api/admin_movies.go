package api

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) AdminMovieList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.Order("created_at desc").Limit(50)

	if search := strings.ToLower(strings.TrimSpace(c.Query("q"))); search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+search+"%")
	}

	var movies []model.Movie
	if err := q.Find(&movies).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list movies", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	type langCount struct {
		Language string `json:"language"`
		Count    int64  `json:"count"`
	}

	var counts []langCount
	err := a.DB.
		Model(model.Movie{}).
		Select("language, COUNT(*) as count").
		Group("language").
		Scan(&counts).
		Error
	if err != nil {
		zap.L().Warn("Failed to count languages", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"movies":    movies,
		"languages": counts,
	})
}

// movieForm reads the shared multipart fields for creates and updates.
func movieForm(c *gin.Context) model.Movie {
	year, _ := strconv.Atoi(c.PostForm("year"))
	rating, _ := strconv.ParseFloat(c.PostForm("rating"), 64)

	var languages model.StringSlice
	for _, l := range strings.Split(c.PostForm("languages"), ",") {
		if l = strings.TrimSpace(l); l != "" {
			languages = append(languages, l)
		}
	}

	return model.Movie{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Year:        year,
		Language:    strings.TrimSpace(c.PostForm("language")),
		Languages:   languages,
		Quality:     strings.TrimSpace(c.PostForm("quality")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Rating:      rating,
		WatchURL:    strings.TrimSpace(c.PostForm("watch_url")),
		DownloadURL: strings.TrimSpace(c.PostForm("download_url")),
	}
}

func (a *API) AdminMovieCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	movie := movieForm(c)
	movie.Source = "admin"

	if err := validators.MovieValidator(movie.Title, movie.Year, movie.WatchURL, movie.DownloadURL); err != nil {
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

		zap.L().Error("Failed to generate movie id", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	movie.ID = id

	if posterPath, done := a.storePosterUpload(c, movie.ID); done {
		return
	} else if posterPath != "" {
		movie.PosterPath = posterPath
	}

	if err := a.DB.Create(&movie).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create movie", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (a *API) AdminMovieUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var existing model.Movie
	err := a.DB.First(&existing, "id = ?", c.Param("id")).Error
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

	movie := movieForm(c)
	movie.ID = existing.ID
	movie.Source = existing.Source
	movie.Views = existing.Views
	movie.PosterPath = existing.PosterPath
	movie.CreatedAt = existing.CreatedAt

	if err := validators.MovieValidator(movie.Title, movie.Year, movie.WatchURL, movie.DownloadURL); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if posterPath, done := a.storePosterUpload(c, movie.ID); done {
		return
	} else if posterPath != "" {
		// Replacing means the old object is garbage; removal is best effort
		if existing.PosterPath != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.Store.Delete(ctx, path.Base(existing.PosterPath)); err != nil {
				zap.L().Warn("Failed to delete old poster", zap.Error(err))
			}
			cancel()
		}

		movie.PosterPath = posterPath
	}

	if err := a.DB.Save(&movie).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update movie", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (a *API) AdminMovieDelete(c *gin.Context) {
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

	if err := a.DB.Delete(model.Movie{}, "id = ?", movie.ID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete movie", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if movie.PosterPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.Store.Delete(ctx, path.Base(movie.PosterPath)); err != nil {
			zap.L().Warn("Failed to delete poster", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// storePosterUpload validates and stores the optional "poster" multipart
// file. Returns the public poster path, or done=true when the request
// was already aborted with an error response.
func (a *API) storePosterUpload(c *gin.Context, movieID string) (string, bool) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("poster")
	if err != nil {
		// No file attached is fine
		return "", false
	}

	code, f, err := validators.PosterValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate poster", zap.Error(err), zap.String("requestID", requestID))
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return "", true
	}
	defer f.Close()

	ext := strings.ToLower(path.Ext(fh.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := "poster_" + movieID + ext

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := a.Store.Put(ctx, key, f, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store poster", zap.Error(err), zap.String("requestID", requestID))
		return "", true
	}

	return a.Store.URL(key), false
}
