// Package api contains all endpoints available
package api

import (
	"fmt"
	"html/template"
	"time"

	"adiwals/cinegate-api/db"
	"adiwals/cinegate-api/internal/bot"
	"adiwals/cinegate-api/internal/gate"
	"adiwals/cinegate-api/internal/pipeline"
	"adiwals/cinegate-api/internal/shortlink"
	"adiwals/cinegate-api/internal/storage"
	"adiwals/cinegate-api/middleware"
	"adiwals/cinegate-api/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginzap "github.com/gin-contrib/zap"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store persist.CacheStore

type API struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Argon    *security.ArgonHash
	Gate     *gate.Gate
	Store    storage.Store
	Short    *shortlink.Client
	Bot      *bot.Bot
	Pipeline *pipeline.Runner
}

func NewRouter() (*API, error) {
	a := &API{}

	d, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = d

	makeLogger()
	makeCacheStore()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{viper.GetString("host.base_url")},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		middleware.NewSessionMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("sessionID"); v != "" {
					fields = append(fields, zap.String("sessionID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	router.SetHTMLTemplate(template.Must(template.New("verify").Parse(verifyPage)))

	if viper.GetString("storage.type") == "local" {
		router.Static("/static/posters", viper.GetString("storage.local_dir"))
	}

	admin := middleware.NewAdminMiddleware()

	// GET /health			-> Used by load balancers
	router.GET("/health", a.Heartbeat)

	// GET /robots.txt		-> Static crawler policy
	router.GET("/robots.txt", a.Robots)

	content := router.Group("", middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 10,
		Burst:             20,
	}))
	{
		// GET /watch/:id		-> Gate-checked redirect to the external player
		content.GET("/watch/:id", a.WatchMovie)

		// GET /download/:id		-> Gate-checked redirect to the external download
		content.GET("/download/:id", a.DownloadMovie)

		// GET /watch/episode/:id	-> Same for series episodes
		content.GET("/watch/episode/:id", a.WatchEpisode)

		// GET /download/episode/:id
		content.GET("/download/episode/:id", a.DownloadEpisode)

		// GET /verify/start		-> Shows the shortlink page for a gated click
		content.GET("/verify/start", a.VerifyStart)

		// GET /verify/auto		-> Callback the shortlink service sends the browser back to
		content.GET("/verify/auto", a.VerifyAuto)
	}

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// GET /api/home		-> Latest movies plus per-language rows
		main.GET("/home", cacheFor(60), a.Home)

		// GET /api/search		-> Title search over movies and series
		main.GET("/search", a.Search)

		// GET /api/movies/browse	-> All movies, optional genre filter
		main.GET("/movies/browse", a.MovieBrowse)

		// GET /api/movies/:id		-> Movie detail
		main.GET("/movies/:id", a.MovieFetch)

		// GET /api/series		-> Latest series
		main.GET("/series", a.SeriesList)

		// GET /api/series/browse	-> All series, optional genre filter
		main.GET("/series/browse", a.SeriesBrowse)

		// GET /api/series/:id		-> Series detail with seasons and episodes
		main.GET("/series/:id", a.SeriesFetch)

		// GET /api/episodes/:id	-> Single episode
		main.GET("/episodes/:id", a.EpisodeFetch)

		// GET /api/notice		-> Active site notice, if any
		main.GET("/notice", a.NoticeFetch)

		// GET /api/verify/status	-> Gate decision as JSON for the frontend
		main.GET("/verify/status", a.VerifyStatus)

		// POST /api/support		-> Stores a support message
		main.POST("/support", middleware.BodySizeLimiter(64<<10), a.SupportCreate)

		// POST /api/submissions	-> Community movie suggestion, lands in the moderation queue
		main.POST("/submissions", middleware.BodySizeLimiter(64<<10), a.SubmissionCreate)
	}

	adm := main.Group("/admin")
	{
		// POST /api/admin/login 	-> Checks the admin password and sets the cookie
		adm.POST("/login", middleware.BodySizeLimiter(4<<10), a.AdminLogin)

		// POST /api/admin/logout
		adm.POST("/logout", a.AdminLogout)

		movies := adm.Group("/movies", admin)
		{
			movies.GET("", a.AdminMovieList)
			movies.POST("", a.AdminMovieCreate)
			movies.PUT("/:id", a.AdminMovieUpdate)
			movies.DELETE("/:id", a.AdminMovieDelete)
		}

		series := adm.Group("/series", admin)
		{
			series.POST("", a.AdminSeriesCreate)
			series.PUT("/:id", a.AdminSeriesUpdate)
			series.DELETE("/:id", a.AdminSeriesDelete)
			series.POST("/:id/seasons", a.AdminSeasonCreate)
		}

		adm.POST("/seasons/:id/episodes", admin, a.AdminEpisodeCreate)
		adm.PUT("/episodes/:id", admin, a.AdminEpisodeUpdate)
		adm.DELETE("/episodes/:id", admin, a.AdminEpisodeDelete)

		// GET+PUT /api/admin/settings	-> The verification gate knobs
		adm.GET("/settings", admin, a.AdminSettingsFetch)
		adm.PUT("/settings", admin, a.AdminSettingsUpdate)

		adm.PUT("/notice", admin, a.AdminNoticeUpdate)

		adm.GET("/support", admin, a.AdminSupportList)
		adm.PUT("/support/:id/status", admin, a.AdminSupportStatus)

		adm.GET("/submissions", admin, a.AdminSubmissionList)
		adm.POST("/submissions/:id/approve", admin, a.AdminSubmissionApprove)
		adm.POST("/submissions/:id/reject", admin, a.AdminSubmissionReject)

		// POST /api/admin/pipeline/run	-> Manual pipeline trigger
		adm.POST("/pipeline/run", admin, a.AdminPipelineRun)
		adm.GET("/pipeline/releases", admin, a.AdminPipelineReleases)
	}

	a.Argon = security.New()
	a.Gate = gate.New(d)
	a.Short = shortlink.New()

	st, err := storage.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage, %w", err)
	}
	a.Store = st

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func makeCacheStore() {
	if addr := viper.GetString("cache.redis_addr"); addr != "" {
		store = persist.NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}))
		return
	}

	store = persist.NewMemoryStore(time.Minute)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
