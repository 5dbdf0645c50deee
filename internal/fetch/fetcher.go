// Package fetch assembles per-ticker section bundles from the cache and the
// quote provider while honouring rate-limit cooldowns.
package fetch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rs/zerolog"

	"github.com/guttosm/valuepulse/internal/cache"
	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/logger"
	"github.com/guttosm/valuepulse/internal/provider"
	"github.com/guttosm/valuepulse/internal/ratelimit"
)

// HistoryPeriod is the price history window used to derive buybacks.
const HistoryPeriod = "5y"

// Options tunes a Fetcher.
type Options struct {
	// Smoke returns canned data and never touches the network.
	Smoke bool
	// JitterMin and JitterMax bound the random pause before network reads.
	JitterMin time.Duration
	JitterMax time.Duration
}

// Fetcher builds section bundles. It never returns an error: failures are
// reported inside the bundle.
type Fetcher struct {
	factory provider.Factory
	cache   *cache.SectionCache
	tracker *ratelimit.Tracker
	opts    Options
	sleep   func(ctx context.Context, d time.Duration)
	now     func() time.Time
	log     zerolog.Logger
}

// New wires a Fetcher. A nil cache behaves as disabled; a nil tracker gets a
// fresh one.
func New(factory provider.Factory, c *cache.SectionCache, tracker *ratelimit.Tracker, opts Options) *Fetcher {
	if c == nil {
		c = cache.New(cache.Config{Disabled: true})
	}
	if tracker == nil {
		tracker = ratelimit.NewTracker()
	}
	return &Fetcher{
		factory: factory,
		cache:   c,
		tracker: tracker,
		opts:    opts,
		sleep:   sleepCtx,
		now:     time.Now,
		log:     logger.Component("fetch"),
	}
}

// Tracker exposes the rate-limit tracker the fetcher reports to.
func (f *Fetcher) Tracker() *ratelimit.Tracker { return f.tracker }

// Cache exposes the section cache.
func (f *Fetcher) Cache() *cache.SectionCache { return f.cache }

// SharedClient builds one client for a whole batch. It returns nil in smoke
// mode, during a cooldown or when the factory fails, in which case Fetch
// builds per-ticker clients on demand.
func (f *Fetcher) SharedClient(symbols []string) provider.Client {
	if f.opts.Smoke || f.factory == nil || len(symbols) == 0 {
		return nil
	}
	if f.tracker.Active() != nil {
		return nil
	}
	client, err := f.factory.NewClient(symbols)
	if err != nil {
		f.log.Warn().Err(err).Strs("symbols", symbols).Msg("shared client unavailable")
		return nil
	}
	return client
}

// Fetch returns the bundle for ticker. When shared is nil and the network is
// needed, a client for ticker alone is created.
func (f *Fetcher) Fetch(ctx context.Context, ticker string, shared provider.Client) models.Bundle {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if f.opts.Smoke {
		return f.demoBundle(ticker)
	}

	b := models.NewBundle(ticker)
	b.CacheInfo.CacheDisabled = f.cache.Disabled()

	var missing []string
	for _, name := range models.CoreSections {
		if s, ok := f.cache.Section(ticker, name); ok {
			b.Sections[name] = s
			b.CacheInfo.SectionsCached = append(b.CacheInfo.SectionsCached, name)
			continue
		}
		missing = append(missing, name)
	}
	flag, buybacksCached := f.cache.Buybacks(ticker)
	if buybacksCached {
		b.Buybacks = flag
		b.CacheInfo.SectionsCached = append(b.CacheInfo.SectionsCached, models.SectionBuybacks)
	}
	b.CacheInfo.ServedFromCache = len(missing) == 0 && buybacksCached

	log := f.log.With().Str("ticker", ticker).Logger()

	if len(missing) == 0 && buybacksCached {
		return b
	}
	if active := f.tracker.Active(); active != nil {
		log.Info().Str("host", active.Host).Int("remaining", active.Remaining).Msg("cooldown active, skipping network")
		if len(missing) > 0 {
			b.Error = cooldownError(active)
		}
		return b
	}

	client := shared
	if client == nil {
		c, err := f.newClient(ticker)
		if err != nil {
			log.Error().Err(err).Msg("provider client unavailable")
			b.Error = &models.FetchError{Message: fmt.Sprintf("create provider client: %v", err)}
			return b
		}
		client = c
	}

	f.jitter(ctx)

	for _, name := range missing {
		payload, err := f.section(ctx, client, name)
		if err == nil {
			err = provider.SymbolError(payload, ticker)
		}
		if err != nil {
			detail := f.describe(name, client, err)
			log.Warn().Err(err).Str("section", name).Int("status", detail.StatusCode).Msg("section fetch failed")
			if b.Error == nil {
				b.Error = detail
			}
			continue
		}
		s := provider.Normalize(payload, ticker)
		b.Sections[name] = s
		f.cache.PutSection(ticker, name, s)
	}

	if !buybacksCached && f.tracker.Active() == nil {
		flag, ok := f.buybacks(ctx, client, ticker, b.Section(models.SectionKeyStats))
		b.Buybacks = flag
		if ok {
			f.cache.PutBuybacks(ticker, flag)
		}
	}

	log.Debug().
		Int("fetched", len(missing)).
		Int("cached", len(b.CacheInfo.SectionsCached)).
		Bool("error", b.Error != nil).
		Msg("bundle assembled")
	return b
}

func (f *Fetcher) newClient(ticker string) (provider.Client, error) {
	if f.factory == nil {
		return nil, fmt.Errorf("no provider configured")
	}
	return f.factory.NewClient([]string{ticker})
}

// section shields the fetch loop from provider panics.
func (f *Fetcher) section(ctx context.Context, client provider.Client, name string) (p provider.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("section %s: provider panic: %v", name, r)
		}
	}()
	return client.Section(ctx, name)
}

// describe turns a section failure into structured detail and installs a
// cooldown when the failure is a throttle.
func (f *Fetcher) describe(section string, client provider.Client, err error) *models.FetchError {
	detail := &models.FetchError{Section: section, Message: err.Error()}

	var (
		retryAfter int
		hinted     bool
		payload    any
	)
	if re, ok := provider.AsResponseError(err); ok && re.Response != nil {
		detail.StatusCode = re.Response.StatusCode
		detail.Headers = re.Response.FlatHeaders()
		detail.Host = re.Response.Host()
		retryAfter, hinted = ratelimit.ParseRetryAfter(re.Response.Header, re.Response.Body, f.now())
		if hinted {
			detail.RetryAfter = &retryAfter
		}
		if js := re.Response.JSON(); js != nil {
			payload = js
		} else if len(re.Response.Body) > 0 {
			payload = string(re.Response.Body)
		}
	}
	if detail.Host == "" && client != nil {
		detail.Host = client.Host()
	}

	if ratelimit.IsThrottle(detail.StatusCode, hinted) {
		rec := f.tracker.Record(models.RateLimit{
			StatusCode: detail.StatusCode,
			Message:    err.Error(),
			RetryAfter: retryAfter,
			Headers:    detail.Headers,
			Host:       detail.Host,
			Payload:    payload,
		})
		detail.RateLimit = &rec
		if detail.RetryAfter == nil {
			ra := rec.RetryAfter
			detail.RetryAfter = &ra
		}
	}
	return detail
}

// buybacks derives the buyback flag. The second result is false when the
// derivation failed and the outcome should not be cached.
func (f *Fetcher) buybacks(ctx context.Context, client provider.Client, ticker string, keyStats models.Section) (flag null.Bool, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Warn().Str("ticker", ticker).Interface("panic", r).Msg("buyback derivation panicked")
			flag, ok = null.Bool{}, false
		}
	}()

	hist, err := client.History(ctx, ticker, HistoryPeriod)
	if err != nil {
		f.log.Debug().Err(err).Str("ticker", ticker).Msg("history unavailable")
		return null.Bool{}, false
	}
	if hist.Empty() {
		return null.Bool{}, true
	}

	series := shareSeries(keyStats)
	if len(series) < 2 {
		if r, isReporter := client.(provider.ShareCountReporter); isReporter {
			counts, err := r.ShareCounts(ctx, ticker)
			if err != nil {
				f.log.Debug().Err(err).Str("ticker", ticker).Msg("share counts unavailable")
				return null.Bool{}, false
			}
			series = counts
		}
	}
	if len(series) < 2 {
		return null.Bool{}, true
	}
	return null.BoolFrom(series[len(series)-1] < series[0]), true
}

// shareSeries reads sharesOutstanding as a series. Scalars and mixed lists
// yield nil.
func shareSeries(keyStats models.Section) []float64 {
	switch v := keyStats.Get("sharesOutstanding").(type) {
	case []float64:
		return append([]float64(nil), v...)
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			n, ok := models.ToFloat(item)
			if !ok {
				return nil
			}
			out = append(out, n)
		}
		return out
	default:
		return nil
	}
}

func cooldownError(active *models.RateLimit) *models.FetchError {
	remaining := active.Remaining
	host := active.Host
	if host == "" {
		host = "provider"
	}
	return &models.FetchError{
		Message:    fmt.Sprintf("rate limited by %s; retry in %ds", host, remaining),
		StatusCode: active.StatusCode,
		Host:       active.Host,
		RetryAfter: &remaining,
		RateLimit:  active,
	}
}

func (f *Fetcher) jitter(ctx context.Context) {
	lo, hi := f.opts.JitterMin, f.opts.JitterMax
	if hi <= 0 {
		return
	}
	if lo < 0 {
		lo = 0
	}
	d := lo
	if hi > lo {
		d += rand.N(hi - lo + 1)
	}
	f.sleep(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
