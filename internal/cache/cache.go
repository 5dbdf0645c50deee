// Package cache keeps provider sections in memory for a per-section TTL.
package cache

import (
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

// Default TTLs per freshness category.
const (
	DefaultFastTTL = 5 * time.Minute
	DefaultSlowTTL = 6 * time.Hour
)

// Category groups sections by how quickly their data goes stale.
type Category int

const (
	Slow Category = iota
	Fast
)

// CategoryOf returns the freshness category of a section. Quotes and summary
// detail move with the market; everything else, including the buyback flag,
// changes with filings.
func CategoryOf(section string) Category {
	switch section {
	case models.SectionPrice, models.SectionSummaryDetail:
		return Fast
	default:
		return Slow
	}
}

// Config configures a SectionCache.
type Config struct {
	Disabled bool
	FastTTL  time.Duration
	SlowTTL  time.Duration
}

type key struct {
	ticker  string
	section string
}

type entry struct {
	expiresAt time.Time
	section   models.Section
	flag      null.Bool
}

// SectionCache is a process-wide (ticker, section) cache with lazy eviction.
// It is safe for concurrent use.
type SectionCache struct {
	mu      sync.Mutex
	entries map[key]entry
	cfg     Config
	now     func() time.Time
}

// Option configures a SectionCache.
type Option func(*SectionCache)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *SectionCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a cache. Zero TTLs fall back to the defaults.
func New(cfg Config, opts ...Option) *SectionCache {
	if cfg.FastTTL <= 0 {
		cfg.FastTTL = DefaultFastTTL
	}
	if cfg.SlowTTL <= 0 {
		cfg.SlowTTL = DefaultSlowTTL
	}
	c := &SectionCache{
		entries: make(map[key]entry),
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Disabled reports whether reads and writes are no-ops.
func (c *SectionCache) Disabled() bool {
	return c == nil || c.cfg.Disabled
}

// TTL returns the lifetime of entries for section.
func (c *SectionCache) TTL(section string) time.Duration {
	if CategoryOf(section) == Fast {
		return c.cfg.FastTTL
	}
	return c.cfg.SlowTTL
}

// Section returns a copy of the cached section, if present and fresh.
func (c *SectionCache) Section(ticker, section string) (models.Section, bool) {
	e, ok := c.get(ticker, section)
	if !ok {
		return nil, false
	}
	return e.section.Clone(), true
}

// PutSection stores a copy of s.
func (c *SectionCache) PutSection(ticker, section string, s models.Section) {
	c.put(ticker, section, entry{section: s.Clone()})
}

// Buybacks returns the cached buyback flag. A hit may carry a null flag.
func (c *SectionCache) Buybacks(ticker string) (null.Bool, bool) {
	e, ok := c.get(ticker, models.SectionBuybacks)
	if !ok {
		return null.Bool{}, false
	}
	return e.flag, true
}

// PutBuybacks stores the derived buyback flag.
func (c *SectionCache) PutBuybacks(ticker string, flag null.Bool) {
	c.put(ticker, models.SectionBuybacks, entry{flag: flag})
}

// Len returns the number of stored entries, including expired ones not yet
// evicted.
func (c *SectionCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops expired entries and returns how many were removed.
func (c *SectionCache) Purge() int {
	if c.Disabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (c *SectionCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[key]entry)
}

func (c *SectionCache) get(ticker, section string) (entry, bool) {
	if c.Disabled() {
		return entry{}, false
	}
	k := key{ticker: ticker, section: section}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		return entry{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, k)
		return entry{}, false
	}
	return e, true
}

func (c *SectionCache) put(ticker, section string, e entry) {
	if c.Disabled() {
		return
	}
	e.expiresAt = c.now().Add(c.TTL(section))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key{ticker: ticker, section: section}] = e
}
