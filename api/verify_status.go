package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyStatus exposes the gate decision to the frontend so it can show
// "N free views left" without consuming anything.
func (a *API) VerifyStatus(c *gin.Context) {
	sessionID := c.MustGet("sessionID").(string)

	decision := a.Gate.Check(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"allowed":        !decision.Gated,
		"reason":         decision.Reason,
		"free_used":      decision.FreeUsed,
		"free_limit":     decision.FreeLimit,
		"verified_until": decision.VerifiedUntil,
	})
}
