package scheduler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/guttosm/valuepulse/internal/fetch"
	"github.com/guttosm/valuepulse/internal/logger"
	"github.com/guttosm/valuepulse/internal/tickers"
)

// ErrCooldown is returned when a warm-up pass stops because the provider is
// throttling.
var ErrCooldown = errors.New("warm-up interrupted by provider cooldown")

// Warmup re-fetches the watchlist through the fetcher so the section cache
// stays populated. Cache TTLs and cooldowns apply as for any other caller.
type Warmup struct {
	fetcher   *fetch.Fetcher
	validator *tickers.Validator
	path      string
	log       zerolog.Logger
}

// NewWarmup builds the cache warm-up job for the watchlist at path.
func NewWarmup(fetcher *fetch.Fetcher, validator *tickers.Validator, path string) *Warmup {
	return &Warmup{
		fetcher:   fetcher,
		validator: validator,
		path:      path,
		log:       logger.Component("scheduler").With().Str("job", "watchlist-warmup").Logger(),
	}
}

// Name implements Job.
func (w *Warmup) Name() string { return "watchlist-warmup" }

// Run implements Job.
func (w *Warmup) Run(ctx context.Context) error {
	if w.fetcher.Cache().Disabled() {
		w.log.Debug().Msg("cache disabled, nothing to warm")
		return nil
	}
	if active := w.fetcher.Tracker().Active(); active != nil {
		w.log.Info().Int("remaining", active.Remaining).Msg("cooldown active, skipping warm-up")
		return nil
	}

	symbols := w.validator.LoadWatchlist(ctx, w.path)
	if len(symbols) == 0 {
		return nil
	}

	shared := w.fetcher.SharedClient(symbols)
	warmed := 0
	for _, ticker := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := w.fetcher.Fetch(ctx, ticker, shared)
		if b.Error.RateLimited() {
			w.log.Warn().Str("ticker", ticker).Int("warmed", warmed).Msg("provider throttled, stopping warm-up")
			return ErrCooldown
		}
		warmed++
	}
	w.log.Info().Int("tickers", warmed).Msg("watchlist warmed")
	return nil
}
