// Package provider defines the contract between the evaluation pipeline and a
// quote provider, and normalizes the payload shapes providers return.
package provider

import (
	"context"
	"time"
)

// Client answers queries for a fixed batch of symbols.
type Client interface {
	// Section returns the raw payload of a named core section for every
	// symbol in the batch.
	Section(ctx context.Context, name string) (Payload, error)
	// Symbols returns the symbols the provider recognised for the batch.
	Symbols(ctx context.Context) ([]string, error)
	// History returns daily closes for symbol over period (e.g. "5y").
	History(ctx context.Context, symbol, period string) (History, error)
	// Host is the upstream host used for rate-limit bookkeeping.
	Host() string
}

// ShareCountReporter is implemented by clients that can return a share
// count time series.
type ShareCountReporter interface {
	ShareCounts(ctx context.Context, symbol string) ([]float64, error)
}

// Factory constructs clients for a batch of symbols.
type Factory interface {
	NewClient(symbols []string) (Client, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(symbols []string) (Client, error)

func (f FactoryFunc) NewClient(symbols []string) (Client, error) {
	return f(symbols)
}

// HistoryPoint is one daily close.
type HistoryPoint struct {
	Time  time.Time
	Close float64
}

// History is a time-ordered series of closes.
type History struct {
	Points []HistoryPoint
}

// Empty reports whether the series has no usable closes.
func (h History) Empty() bool {
	return len(h.Points) == 0
}
