package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// The one server-rendered page in the app: the interstitial that shows
// the monetized shortlink to the visitor.
const verifyPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>Verification required</title>
<style>
body{font-family:system-ui,sans-serif;background:#0f1115;color:#e7e9ee;display:flex;min-height:100vh;align-items:center;justify-content:center;margin:0}
.card{background:#1a1d24;border-radius:12px;padding:2.5rem;max-width:26rem;text-align:center}
a.btn{display:inline-block;margin-top:1.5rem;padding:.75rem 2rem;border-radius:8px;background:#e50914;color:#fff;text-decoration:none;font-weight:600}
p{color:#9aa1ad;line-height:1.5}
</style>
</head>
<body>
<div class="card">
<h1>One quick step</h1>
<p>You've used your free views for today. Complete the link below and you'll be brought right back to what you were watching.</p>
<a class="btn" href="{{.ShortURL}}" rel="nofollow">Continue</a>
</div>
</body>
</html>`

// sanitizeNext keeps the round-trip destination on this site. Anything
// that isn't a same-site relative path (absolute URLs, protocol-relative
// //host paths) collapses to the home page.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}

	return next
}

// VerifyStart begins the verification flow for a gated click: mint a
// one-time token bound to this session and its destination, wrap the
// callback URL in the monetized shortlink, and show it.
func (a *API) VerifyStart(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	sessionID := c.MustGet("sessionID").(string)

	next := sanitizeNext(c.Query("next"))

	// Re-check: already verified or still within the free allowance
	// means no ad-wall detour
	if !a.Gate.Check(sessionID).Gated {
		c.Redirect(http.StatusSeeOther, next)
		return
	}

	token, err := a.Gate.IssueToken(sessionID, next)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	callback := strings.TrimSuffix(viper.GetString("host.base_url"), "/") + "/verify/auto?token=" + url.QueryEscape(token)

	shortURL := a.Short.Shorten(c.Request.Context(), callback)

	c.HTML(http.StatusOK, "verify", gin.H{
		"ShortURL": shortURL,
	})
}
