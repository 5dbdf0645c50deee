// Package tickers normalizes and validates ticker symbols and loads the
// default watchlist.
package tickers

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/logger"
	"github.com/guttosm/valuepulse/internal/provider"
	"github.com/guttosm/valuepulse/internal/ratelimit"
)

// Result is the outcome of a validation pass.
//
// Confirmed is false when the provider could not be asked, in which case
// Symbols is the normalized input passed through unchecked.
type Result struct {
	Symbols   []string `json:"symbols"`
	Confirmed bool     `json:"confirmed"`
	Reason    string   `json:"reason,omitempty"`
}

// Validator checks symbols against the quote provider.
type Validator struct {
	factory provider.Factory
	smoke   bool
	tracker *ratelimit.Tracker
	log     zerolog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithTracker shares the fetcher's cooldowns: validation fails open while a
// cooldown is active and throttled responses install one.
func WithTracker(t *ratelimit.Tracker) ValidatorOption {
	return func(v *Validator) {
		v.tracker = t
	}
}

// NewValidator returns a Validator. In smoke mode the provider is never
// contacted.
func NewValidator(factory provider.Factory, smoke bool, opts ...ValidatorOption) *Validator {
	v := &Validator{
		factory: factory,
		smoke:   smoke,
		log:     logger.Component("tickers"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Normalize trims and uppercases symbols, dropping blanks and duplicates
// while keeping first-seen order.
func Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ParseSymbols splits a comma separated list into trimmed, non-empty symbols.
func ParseSymbols(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate returns canonical, uppercase, de-duplicated symbols the provider
// recognises. When the provider cannot be reached the normalized input is
// returned as is.
func (v *Validator) Validate(ctx context.Context, raw []string) []string {
	return v.Check(ctx, raw).Symbols
}

// Check is Validate with the confirmation status attached.
func (v *Validator) Check(ctx context.Context, raw []string) Result {
	normalized := Normalize(raw)
	if len(normalized) == 0 {
		return Result{Symbols: []string{}, Confirmed: true}
	}
	if v.smoke || v.factory == nil {
		return Result{Symbols: normalized, Reason: "provider disabled"}
	}

	if v.tracker != nil {
		if active := v.tracker.Active(); active != nil {
			return v.failOpen(normalized, fmt.Errorf("rate limited by %s; retry in %ds", active.Host, active.Remaining))
		}
	}

	client, err := v.factory.NewClient(normalized)
	if err != nil {
		return v.failOpen(normalized, err)
	}
	quoteType, err := client.Section(ctx, models.SectionQuoteType)
	if err != nil {
		v.observe(client, err)
		return v.failOpen(normalized, err)
	}
	symbols, err := client.Symbols(ctx)
	if err != nil {
		v.observe(client, err)
		return v.failOpen(normalized, err)
	}

	available := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			available = append(available, s)
		}
	}

	validated := make([]string, 0, len(normalized))
	seen := make(map[string]struct{}, len(normalized))
	add := func(symbol string) {
		symbol = strings.ToUpper(symbol)
		if _, dup := seen[symbol]; dup {
			return
		}
		seen[symbol] = struct{}{}
		validated = append(validated, symbol)
	}

	for _, t := range normalized {
		section := provider.Normalize(quoteType, t)
		switch {
		case len(section) > 0:
			add(canonicalSymbol(section, t))
		case slices.Contains(available, t):
			add(t)
		}
	}

	if len(available) > 0 && len(validated) < len(available) {
		for _, s := range available {
			if _, dup := seen[s]; dup {
				continue
			}
			if slices.Contains(normalized, s) || len(validated) == 0 {
				add(s)
			}
		}
	}

	if dropped := len(normalized) - len(validated); dropped > 0 {
		v.log.Info().Strs("input", normalized).Strs("valid", validated).Msg("dropped unrecognised symbols")
	}
	return Result{Symbols: validated, Confirmed: true}
}

func (v *Validator) failOpen(normalized []string, err error) Result {
	v.log.Warn().Err(err).Strs("symbols", normalized).Msg("validation unavailable, passing symbols through")
	return Result{Symbols: normalized, Reason: err.Error()}
}

// observe installs a cooldown when err is a throttled provider response.
func (v *Validator) observe(client provider.Client, err error) {
	if v.tracker == nil {
		return
	}
	rec, ok := ratelimit.Throttle(err, time.Now())
	if !ok {
		return
	}
	if rec.Host == "" {
		rec.Host = client.Host()
	}
	v.tracker.Record(rec)
}

func canonicalSymbol(section models.Section, fallback string) string {
	if s := section.String("symbol"); s != "" {
		return s
	}
	if s := section.String("underlyingSymbol"); s != "" {
		return s
	}
	return fallback
}
