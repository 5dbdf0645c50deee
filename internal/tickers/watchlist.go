package tickers

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

// DefaultFallback is used when the watchlist yields nothing.
const DefaultFallback = "AAPL,MSFT,META"

// ReadWatchlist reads symbols separated by commas or newlines. A missing
// file yields no symbols and no error.
func ReadWatchlist(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return Normalize(strings.Split(strings.ReplaceAll(text, "\n", ","), ",")), nil
}

// LoadWatchlist reads and validates the watchlist at path.
func (v *Validator) LoadWatchlist(ctx context.Context, path string) []string {
	symbols, err := ReadWatchlist(path)
	if err != nil {
		v.log.Warn().Err(err).Str("path", path).Msg("watchlist unreadable")
		return []string{}
	}
	if len(symbols) == 0 {
		return []string{}
	}
	return v.Validate(ctx, symbols)
}

// DefaultWatchlistString returns the validated watchlist joined by commas,
// or DefaultFallback when it is empty.
func (v *Validator) DefaultWatchlistString(ctx context.Context, path string) string {
	if list := v.LoadWatchlist(ctx, path); len(list) > 0 {
		return strings.Join(list, ",")
	}
	return DefaultFallback
}

// ResolveCompanyName picks the most descriptive name available:
// quote type longName, price longName, price shortName, profile longName,
// then the ticker itself.
func ResolveCompanyName(ticker string, quoteType, price, profile models.Section) string {
	candidates := []string{
		quoteType.String("longName"),
		price.String("longName"),
		price.String("shortName"),
		profile.String("longName"),
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ticker
}
