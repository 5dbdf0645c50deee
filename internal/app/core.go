package app

import (
	"database/sql"
	"fmt"

	"github.com/guttosm/valuepulse/config"
	"github.com/guttosm/valuepulse/internal/cache"
	"github.com/guttosm/valuepulse/internal/fetch"
	"github.com/guttosm/valuepulse/internal/provider"
	"github.com/guttosm/valuepulse/internal/provider/yahoo"
	"github.com/guttosm/valuepulse/internal/ratelimit"
	"github.com/guttosm/valuepulse/internal/service"
	"github.com/guttosm/valuepulse/internal/storage"
	"github.com/guttosm/valuepulse/internal/tickers"
)

// Core holds the components shared by the CLI and the HTTP server.
type Core struct {
	Factory   provider.Factory
	Fetcher   *fetch.Fetcher
	Validator *tickers.Validator
	History   storage.HistoryRepository
	Service   service.EvaluationService
	DB        *sql.DB // nil unless history is enabled
}

// providerFactory is an indirection for unit testing; defaults to the Yahoo
// Finance client configured from cfg.Yahoo.
var providerFactory = func(cfg config.Config) (provider.Factory, error) {
	return yahoo.NewFactory(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithCookieURL(cfg.Yahoo.CookieURL),
		yahoo.WithTimeout(cfg.Yahoo.Timeout),
		yahoo.WithRequestsPerSecond(cfg.Yahoo.RequestsPerSecond),
	)
}

// BuildCore wires provider, cache, rate-limit tracker, fetcher, validator,
// history repository and evaluation service from cfg.
//
// Responsibilities:
//   - Connects to PostgreSQL only when history is enabled, applying
//     migrations when configured to.
//   - Falls back to a no-op history repository otherwise.
//   - Provides a cleanup function closing the database, if any.
func BuildCore(cfg config.Config) (*Core, func(), error) {
	factory, err := providerFactory(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	sectionCache := cache.New(cache.Config{
		Disabled: cfg.Cache.Disabled || cfg.Smoke,
		FastTTL:  cfg.Cache.FastTTL,
		SlowTTL:  cfg.Cache.SlowTTL,
	})
	tracker := ratelimit.NewTracker(ratelimit.WithDefaultRetryAfter(cfg.RateLimit.DefaultRetryAfter))
	fetcher := fetch.New(factory, sectionCache, tracker, fetch.Options{
		Smoke:     cfg.Smoke,
		JitterMin: cfg.Fetch.JitterMin,
		JitterMax: cfg.Fetch.JitterMax,
	})
	validator := tickers.NewValidator(factory, cfg.Smoke, tickers.WithTracker(tracker))

	core := &Core{
		Factory:   factory,
		Fetcher:   fetcher,
		Validator: validator,
		History:   storage.NewNoopRepository(),
	}

	if cfg.History.Enabled {
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if cfg.History.AutoMigrate {
			if err := migrator(db); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
			}
		}
		core.DB = db
		core.History = storage.NewHistoryRepository(db)
	}

	core.Service = service.NewEvaluationService(service.Options{
		Fetcher:       fetcher,
		Validator:     validator,
		History:       core.History,
		WatchlistPath: cfg.Watchlist.Path,
		Parallel:      cfg.Fetch.Parallel,
	})

	cleanup := func() {
		if core.DB != nil {
			_ = core.DB.Close()
		}
	}
	return core, cleanup, nil
}
