package dto

import (
	"github.com/guttosm/valuepulse/internal/domain/models"
)

// EvaluateRequest is the body of POST /api/v1/evaluate.
type EvaluateRequest struct {
	Tickers []string `json:"tickers" binding:"required,min=1" example:"AAPL,MSFT"`
}

// ValidateRequest is the body of POST /api/v1/tickers/validate.
type ValidateRequest struct {
	Tickers []string `json:"tickers" binding:"required,min=1"`
}

// EvaluateResponse is returned by the evaluate endpoints.
type EvaluateResponse struct {
	Requested   []string            `json:"requested"`
	Tickers     []string            `json:"tickers"`
	Confirmed   bool                `json:"confirmed"`
	Failures    int                 `json:"failures"`
	Evaluations []models.Evaluation `json:"evaluations"`
}

// ValidateResponse lists the symbols accepted by the validator. Confirmed is
// false when the provider could not be reached and the input was passed
// through unchecked.
type ValidateResponse struct {
	Tickers   []string `json:"tickers" example:"AAPL,MSFT"`
	Confirmed bool     `json:"confirmed"`
	Reason    string   `json:"reason,omitempty"`
}

// WatchlistResponse describes the configured watchlist.
type WatchlistResponse struct {
	Path    string   `json:"path" example:"watchlist.txt"`
	Tickers []string `json:"tickers"`
	Default string   `json:"default" example:"AAPL,MSFT,META"`
}

// RateLimitResponse reports the provider cooldown, if any.
type RateLimitResponse struct {
	Active    bool              `json:"active"`
	RateLimit *models.RateLimit `json:"rate_limit,omitempty"`
}

// HistoryResponse lists recent verdicts for one ticker.
type HistoryResponse struct {
	Ticker  string                `json:"ticker" example:"AAPL"`
	Entries []models.HistoryEntry `json:"entries"`
}
