package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"imoveis/internal/infra/config"
	"imoveis/internal/infra/obs"
)

type ListingHTTP interface {
	Catalog(c *gin.Context)
}

type ChatHTTP interface {
	Ask(c *gin.Context)
}

type AdminHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
}

type Handlers struct {
	Listing   ListingHTTP
	Chat      ChatHTTP
	Admin     AdminHTTP
	AdminAuth gin.HandlerFunc
	// ServeUploads exposes UploadDir under /uploads for the disk uploader.
	ServeUploads bool
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the engine without touching the global gin mode.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(SecurityHeaders())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if cfg.RateLimit > 0 {
		router.Use(NewRateLimiter(cfg.RateLimit, cfg.RateWindow).Middleware())
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api", BodyLimit(maxJSONBodyBytes))
	if h.Listing != nil {
		api.GET("/imoveis", h.Listing.Catalog)
	}
	if h.Chat != nil {
		api.POST("/ai/chat", h.Chat.Ask)
	}

	if h.Admin != nil {
		guard := h.AdminAuth
		if guard == nil {
			guard = func(c *gin.Context) {
				c.String(http.StatusServiceUnavailable, msgAuthUnavailable)
				c.Abort()
			}
		}
		admin := router.Group("/admin", guard)
		admin.POST("", BodyLimit(maxAdminBodyBytes), h.Admin.Create)
		adminAPI := admin.Group("/api", BodyLimit(maxJSONBodyBytes))
		adminAPI.GET("/imoveis", h.Admin.List)
		adminAPI.DELETE("/imoveis/:id", h.Admin.Delete)
	}

	if h.ServeUploads && cfg.UploadDir != "" {
		router.Static("/uploads", cfg.UploadDir)
	}
	static := staticSite{guard: h.AdminAuth}
	if dirExists(cfg.StaticDir) {
		static.dir = cfg.StaticDir
	}
	router.NoRoute(static.serve)
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
			"RateLimit-Limit",
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
