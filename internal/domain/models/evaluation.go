package models

import "time"

// Evaluation statuses.
const (
	StatusOK          = "ok"
	StatusRateLimited = "rate_limited"
	StatusNoData      = "no_data"
)

// Verdicts.
const (
	VerdictBuy  = "Buy"
	VerdictHold = "Hold"
	VerdictSell = "Sell"
)

// Score row statuses.
const (
	ScorePass = "pass"
	ScoreFail = "fail"
	ScoreInfo = "info"
)

// ScoreRow is the outcome of comparing one metric against its threshold.
type ScoreRow struct {
	Label     string `json:"label"`
	Display   string `json:"display"`
	Threshold string `json:"threshold,omitempty"`
	Status    string `json:"status"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// Score aggregates pass and fail counts into a verdict.
type Score struct {
	Pass    int        `json:"pass"`
	Fail    int        `json:"fail"`
	Verdict string     `json:"verdict"`
	Rows    []ScoreRow `json:"rows"`
}

// Profile carries the descriptive fields shown next to a ticker.
type Profile struct {
	CompanyName string   `json:"company_name"`
	Sector      string   `json:"sector,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Website     string   `json:"website,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	MarketCap   *float64 `json:"market_cap,omitempty"`
	Revenue     *float64 `json:"total_revenue,omitempty"`
	TotalDebt   *float64 `json:"total_debt,omitempty"`
}

// Evaluation is the full per-ticker result of a run.
type Evaluation struct {
	Ticker      string      `json:"ticker"`
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	Profile     Profile     `json:"profile"`
	Metrics     MetricSet   `json:"metrics"`
	Report      DataReport  `json:"warnings"`
	Score       *Score      `json:"score,omitempty"`
	CacheInfo   CacheInfo   `json:"cache_info"`
	Error       *FetchError `json:"error,omitempty"`
	EvaluatedAt time.Time   `json:"evaluated_at"`
}

// HistoryEntry is a persisted evaluation summary.
type HistoryEntry struct {
	ID          int64      `json:"id"`
	Ticker      string     `json:"ticker"`
	Verdict     string     `json:"verdict"`
	PassCount   int        `json:"pass_count"`
	FailCount   int        `json:"fail_count"`
	Metrics     MetricSet  `json:"metrics"`
	Warnings    DataReport `json:"warnings"`
	EvaluatedAt time.Time  `json:"evaluated_at"`
}
