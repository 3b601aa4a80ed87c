package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyAuto is the callback the shortlink service sends the browser
// back to. Redemption is one-time; a missing, spent or made-up token is
// never proof of verification, so those cases silently land on the home
// page instead of the destination.
func (a *API) VerifyAuto(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	row, ok := a.Gate.RedeemToken(token)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	// Grace goes to the session bound to the token
	a.Gate.MarkVerified(row.SessionID)

	c.Redirect(http.StatusSeeOther, sanitizeNext(row.Next))
}
