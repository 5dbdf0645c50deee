package models

import (
	"encoding/json"

	"github.com/guregu/null/v6"
)

// FetchError is the first failure encountered while assembling a Bundle.
type FetchError struct {
	Section    string            `json:"section,omitempty"`
	Message    string            `json:"message"`
	StatusCode int               `json:"status_code,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Host       string            `json:"host,omitempty"`
	RetryAfter *int              `json:"retry_after,omitempty"`
	RateLimit  *RateLimit        `json:"rate_limit,omitempty"`
}

// RateLimited reports whether the failure installed or hit a cooldown.
func (e *FetchError) RateLimited() bool {
	return e != nil && e.RateLimit != nil
}

// CacheInfo tells the caller how much of a Bundle came from the section cache.
type CacheInfo struct {
	SectionsCached  []string `json:"sections_cached"`
	ServedFromCache bool     `json:"served_from_cache"`
	CacheDisabled   bool     `json:"cache_disabled"`
}

// Bundle is the per-ticker aggregate of provider sections plus the derived
// buyback flag.
//
// Sections always holds every core section; missing ones are empty.
type Bundle struct {
	Ticker    string
	Sections  map[string]Section
	Buybacks  null.Bool
	Error     *FetchError
	CacheInfo CacheInfo
}

// NewBundle returns a Bundle with every core section initialised to empty.
func NewBundle(ticker string) Bundle {
	sections := make(map[string]Section, len(CoreSections))
	for _, name := range CoreSections {
		sections[name] = Section{}
	}
	return Bundle{
		Ticker:    ticker,
		Sections:  sections,
		CacheInfo: CacheInfo{SectionsCached: []string{}},
	}
}

// Section returns the named section, never nil.
func (b Bundle) Section(name string) Section {
	if s, ok := b.Sections[name]; ok && s != nil {
		return s
	}
	return Section{}
}

// HasData reports whether at least one core section is non-empty.
func (b Bundle) HasData() bool {
	for _, name := range CoreSections {
		if len(b.Section(name)) > 0 {
			return true
		}
	}
	return false
}

// MarshalJSON renders the bundle as a flat object keyed by section name.
// A nil error is rendered as an empty object.
func (b Bundle) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(CoreSections)+4)
	for _, name := range CoreSections {
		out[name] = b.Section(name)
	}
	out["ticker"] = b.Ticker
	out["buybacks"] = b.Buybacks
	if b.Error != nil {
		out["error"] = b.Error
	} else {
		out["error"] = struct{}{}
	}
	out["cache_info"] = b.CacheInfo
	return json.Marshal(out)
}
