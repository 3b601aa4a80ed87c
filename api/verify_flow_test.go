package api

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adiwals/cinegate-api/internal/gate"
	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/internal/shortlink"
	"adiwals/cinegate-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	viper.Set("jwt.secret", "test-secret")
	viper.Set("verification.timezone", "Asia/Kolkata")
	viper.Set("verification.settings_cache_ttl", "30s")
	viper.Set("host.base_url", "http://localhost:8080")
	viper.Set("shortlink.api_url", "")
	viper.Set("shortlink.api_key", "")

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Movie{},
		&model.VerifySettings{},
		&model.SessionLedger{},
		&model.VerifyToken{},
	)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(
		middleware.NewRequestIDMiddleware(),
		middleware.NewSessionMiddleware(),
	)
	router.SetHTMLTemplate(template.Must(template.New("verify").Parse(verifyPage)))

	a := &API{
		DB:     db,
		Router: router,
		Gate:   gate.New(db),
		Short:  shortlink.New(),
	}

	router.GET("/watch/:id", a.WatchMovie)
	router.GET("/verify/start", a.VerifyStart)
	router.GET("/verify/auto", a.VerifyAuto)
	router.GET("/api/verify/status", a.VerifyStatus)

	return a
}

// browser replays the session cookie between requests the way a real
// client would.
type browser struct {
	api    *API
	cookie *http.Cookie
}

func (b *browser) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	w := httptest.NewRecorder()
	b.api.Router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "cg_session" {
			b.cookie = ck
		}
	}

	return w
}

func TestVerifyFlowEndToEnd(t *testing.T) {
	a := newTestAPI(t)
	require.NoError(t, a.Gate.UpdateSettings(true, 1, 60))

	require.NoError(t, a.DB.Create(&model.Movie{
		ID:       "m1",
		Title:    "Test Movie",
		WatchURL: "https://player.example.com/m1",
	}).Error)

	b := &browser{api: a}

	// Click 1: within the free allowance, straight to the player
	w := b.get(t, "/watch/m1")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://player.example.com/m1", w.Header().Get("Location"))
	require.NotNil(t, b.cookie, "first response should set the session cookie")

	// Click 2: allowance spent, bounced into the verification flow
	w = b.get(t, "/watch/m1")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/verify/start?next=%2Fwatch%2Fm1", w.Header().Get("Location"))

	// The interstitial shows the callback (no shortener configured, so
	// the callback URL appears verbatim)
	w = b.get(t, w.Header().Get("Location"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/verify/auto?token=")

	var tok model.VerifyToken
	require.NoError(t, a.DB.First(&tok).Error)
	assert.Equal(t, "/watch/m1", tok.Next)

	// Completing the shortlink lands on the callback, which grants grace
	// and sends the visitor back to the original destination
	w = b.get(t, "/verify/auto?token="+tok.Token)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/watch/m1", w.Header().Get("Location"))

	// Click 3: inside the grace period
	w = b.get(t, "/watch/m1")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://player.example.com/m1", w.Header().Get("Location"))

	// Status endpoint agrees
	w = b.get(t, "/api/verify/status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allowed":true`)
	assert.Contains(t, w.Body.String(), `"reason":"verified"`)

	// The token is gone: replaying the callback must not extend anything
	w = b.get(t, "/verify/auto?token="+tok.Token)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestVerifyStartRedirectsWhenNotGated(t *testing.T) {
	a := newTestAPI(t)
	require.NoError(t, a.Gate.UpdateSettings(true, 3, 60))

	b := &browser{api: a}

	w := b.get(t, "/verify/start?next=%2Fwatch%2Fm1")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/watch/m1", w.Header().Get("Location"))
}

func TestVerifyStartSanitizesNext(t *testing.T) {
	a := newTestAPI(t)
	require.NoError(t, a.Gate.UpdateSettings(true, 3, 60))

	b := &browser{api: a}

	for _, next := range []string{"https://evil.example.com", "//evil.example.com", ""} {
		w := b.get(t, "/verify/start?next="+next)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	}
}

func TestWatchUnknownMovie(t *testing.T) {
	a := newTestAPI(t)

	b := &browser{api: a}

	w := b.get(t, "/watch/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
