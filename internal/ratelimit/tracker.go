// Package ratelimit tracks per-host cooldowns installed after the provider
// throttles requests.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/logger"
)

// DefaultRetryAfter applies when a throttling response carries no hint.
const DefaultRetryAfter = 60 * time.Second

// Tracker records host cooldowns. It is safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	until        map[string]time.Time
	details      map[string]models.RateLimit
	defaultRetry time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDefaultRetryAfter overrides DefaultRetryAfter.
func WithDefaultRetryAfter(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.defaultRetry = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker returns an empty Tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		until:        make(map[string]time.Time),
		details:      make(map[string]models.RateLimit),
		defaultRetry: DefaultRetryAfter,
		now:          time.Now,
		log:          logger.Component("ratelimit"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record installs a cooldown for rec.Host lasting rec.RetryAfter seconds,
// falling back to the default when no positive hint is given. The stored
// record is returned.
func (t *Tracker) Record(rec models.RateLimit) models.RateLimit {
	if rec.RetryAfter <= 0 {
		rec.RetryAfter = int(t.defaultRetry / time.Second)
	}
	if rec.Message == "" {
		rec.Message = fmt.Sprintf("rate limited by %s", hostLabel(rec.Host))
	}
	rec.Remaining = rec.RetryAfter

	t.mu.Lock()
	t.until[rec.Host] = t.now().Add(time.Duration(rec.RetryAfter) * time.Second)
	t.details[rec.Host] = rec
	t.mu.Unlock()

	t.log.Warn().
		Str("host", rec.Host).
		Int("status", rec.StatusCode).
		Int("retry_after", rec.RetryAfter).
		Msg("cooldown installed")
	return rec
}

// Set installs a cooldown ending at until without a triggering response.
func (t *Tracker) Set(host string, until time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.until[host] = until
	delete(t.details, host)
}

// Until returns the cooldown expiry for host and whether one is stored.
func (t *Tracker) Until(host string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	u, ok := t.until[host]
	return u, ok
}

// Active describes the cooldown that ends soonest among hosts still cooling
// down, or nil when none is active. Expired entries are dropped.
func (t *Tracker) Active() *models.RateLimit {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var (
		host  string
		until time.Time
		found bool
	)
	for h, u := range t.until {
		if !u.After(now) {
			delete(t.until, h)
			delete(t.details, h)
			continue
		}
		if !found || u.Before(until) {
			host, until, found = h, u, true
		}
	}
	if !found {
		return nil
	}

	rec, ok := t.details[host]
	if !ok {
		rec = models.RateLimit{Host: host, Message: fmt.Sprintf("rate limited by %s", hostLabel(host))}
	}
	rec.Remaining = remainingSeconds(until.Sub(now))
	if rec.RetryAfter <= 0 {
		rec.RetryAfter = rec.Remaining
	}
	return &rec
}

// Clear drops every cooldown.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.until = make(map[string]time.Time)
	t.details = make(map[string]models.RateLimit)
}

func remainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}

func hostLabel(host string) string {
	if host == "" {
		return "provider"
	}
	return host
}
