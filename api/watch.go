package api

import (
	"errors"
	"net/http"
	"net/url"

	"adiwals/cinegate-api/internal/gate"
	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) WatchMovie(c *gin.Context)    { a.movieAccess(c, false) }
func (a *API) DownloadMovie(c *gin.Context) { a.movieAccess(c, true) }

func (a *API) WatchEpisode(c *gin.Context)    { a.episodeAccess(c, false) }
func (a *API) DownloadEpisode(c *gin.Context) { a.episodeAccess(c, true) }

// movieAccess is the gate's consumer for movie clicks. The protocol is
// check first, consume after: the free click is only counted once the
// decision to let the access through has been made.
func (a *API) movieAccess(c *gin.Context, download bool) {
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

	target := movie.WatchURL
	if download {
		target = movie.DownloadURL
	}

	if target == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "No link available for this title yet",
			"requestID": requestID,
		})
		return
	}

	if !a.passGate(c) {
		return
	}

	a.DB.Model(model.Movie{}).Where("id = ?", movie.ID).Update("views", gorm.Expr("views + 1"))

	c.Redirect(http.StatusSeeOther, target)
}

func (a *API) episodeAccess(c *gin.Context, download bool) {
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

	target := episode.WatchURL
	if download {
		target = episode.DownloadURL
	}

	if target == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "No link available for this episode yet",
			"requestID": requestID,
		})
		return
	}

	if !a.passGate(c) {
		return
	}

	a.DB.Model(model.Episode{}).Where("id = ?", episode.ID).Update("views", gorm.Expr("views + 1"))

	c.Redirect(http.StatusSeeOther, target)
}

// passGate runs the two-phase check-then-consume protocol. Returns false
// after redirecting to the verification flow when the click is gated.
// A fail-open decision skips the counter since the store is down anyway.
func (a *API) passGate(c *gin.Context) bool {
	sessionID := c.MustGet("sessionID").(string)

	decision := a.Gate.Check(sessionID)
	if decision.Gated {
		c.Redirect(http.StatusSeeOther, "/verify/start?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		return false
	}

	if decision.Reason != gate.ReasonFailOpen {
		a.Gate.ConsumeFree(sessionID)
	}

	return true
}
