package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter() *gin.Engine {
	viper.Set("jwt.secret", "test-secret")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewSessionMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("sessionID"))
	})

	return router
}

func TestSessionIDStableAcrossRequests(t *testing.T) {
	router := sessionRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	sid := w.Body.String()
	require.NotEmpty(t, sid)

	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "cg_session" {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "first request should set the session cookie")
	assert.True(t, cookie.HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, sid, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "a valid cookie should be reused, not reissued")
}

func TestSessionTamperedCookieReplaced(t *testing.T) {
	router := sessionRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cg_session", Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Body.String())
	require.Len(t, w.Result().Cookies(), 1, "a bad cookie should be replaced")
}
