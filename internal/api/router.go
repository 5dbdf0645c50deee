package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/valuepulse/internal/middleware"
)

// RouterOptions tunes the global middlewares.
type RouterOptions struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultRouterOptions mirror the configuration defaults.
var DefaultRouterOptions = RouterOptions{
	RequestTimeout: 2 * time.Minute,
	RateLimitRPS:   1,
	RateLimitBurst: 60,
}

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter, Timeout).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		middleware.Timeout(opts.RequestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/evaluate", handler.GetEvaluate)
		v1.POST("/evaluate", handler.PostEvaluate)
		v1.GET("/tickers/:ticker/sections", handler.GetSections)
		v1.POST("/tickers/validate", handler.PostValidate)
		v1.GET("/watchlist", handler.GetWatchlist)
		v1.GET("/ratelimit", handler.GetRateLimit)
		v1.GET("/history/:ticker", handler.GetHistory)
	}

	return router
}
