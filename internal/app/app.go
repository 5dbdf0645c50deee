package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/valuepulse/config"
	"github.com/guttosm/valuepulse/internal/api"
	"github.com/guttosm/valuepulse/internal/scheduler"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the shared core (provider, cache, fetcher, history) via BuildCore().
//   - Creates the HTTP handler layer and configures the Gin router.
//   - Registers health and readiness probes.
//   - Starts the watchlist warm-up job when WATCHLIST_REFRESH_CRON is set.
//   - Provides a cleanup function stopping the scheduler and closing the database.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	core, closeCore, err := BuildCore(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Initialize HTTP handler layer and router
	handler := api.NewHandler(core.Service)
	router := api.NewRouter(handler, routerOptions(cfg))

	// Register health and readiness probes
	var ping api.PingFunc
	if core.DB != nil {
		ping = core.DB.PingContext
	}
	api.NewHealthHandler(ping, core.Service.Cooldown).Register(router)

	// Optional cache warm-up
	var sched *scheduler.Scheduler
	if cfg.Watchlist.RefreshCron != "" && !cfg.Smoke {
		sched = scheduler.New()
		warmup := scheduler.NewWarmup(core.Fetcher, core.Validator, cfg.Watchlist.Path)
		if err := sched.AddJob(cfg.Watchlist.RefreshCron, warmup); err != nil {
			closeCore()
			return nil, nil, fmt.Errorf("failed to schedule warm-up: %w", err)
		}
		sched.Start()
	}

	// Cleanup resources on shutdown
	cleanup := func() {
		if sched != nil {
			sched.Stop()
		}
		closeCore()
	}

	return router, cleanup, nil
}

func routerOptions(cfg config.Config) api.RouterOptions {
	opts := api.DefaultRouterOptions
	if cfg.Server.RequestTimeout > 0 {
		opts.RequestTimeout = cfg.Server.RequestTimeout
	}
	if cfg.Server.RateLimitRPS > 0 {
		opts.RateLimitRPS = cfg.Server.RateLimitRPS
	}
	if cfg.Server.RateLimitBurst > 0 {
		opts.RateLimitBurst = cfg.Server.RateLimitBurst
	}
	return opts
}
