package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/fetch"
	"github.com/guttosm/valuepulse/internal/logger"
	"github.com/guttosm/valuepulse/internal/metrics"
	"github.com/guttosm/valuepulse/internal/storage"
	"github.com/guttosm/valuepulse/internal/tickers"
)

// ErrNoValidTickers is returned when validation leaves nothing to evaluate.
var ErrNoValidTickers = errors.New("no valid tickers supplied after validation")

// EvaluationService defines the evaluation workflow exposed to the CLI and
// the HTTP API.
type EvaluationService interface {
	Evaluate(ctx context.Context, raw []string) (*Run, error)
	Sections(ctx context.Context, ticker string) models.Bundle
	Validate(ctx context.Context, raw []string) tickers.Result
	Watchlist(ctx context.Context) Watchlist
	Cooldown() *models.RateLimit
	History(ctx context.Context, ticker string, limit int) ([]models.HistoryEntry, error)
}

// Run is the outcome of one Evaluate call.
type Run struct {
	Requested   []string            `json:"requested"`
	Validation  tickers.Result      `json:"validation"`
	Evaluations []models.Evaluation `json:"evaluations"`
}

// Failures counts evaluations that did not produce a score.
func (r *Run) Failures() int {
	n := 0
	for _, e := range r.Evaluations {
		if e.Status != models.StatusOK {
			n++
		}
	}
	return n
}

// Watchlist is the validated default watchlist.
type Watchlist struct {
	Path    string   `json:"path"`
	Symbols []string `json:"symbols"`
	Default string   `json:"default"`
}

// Options wires an EvaluationService.
type Options struct {
	Fetcher       *fetch.Fetcher
	Validator     *tickers.Validator
	History       storage.HistoryRepository
	WatchlistPath string
	Parallel      int
	Now           func() time.Time
}

type evaluationService struct {
	fetcher       *fetch.Fetcher
	validator     *tickers.Validator
	history       storage.HistoryRepository
	watchlistPath string
	parallel      int
	now           func() time.Time
	log           zerolog.Logger
}

// NewEvaluationService builds the service. Missing history falls back to a
// no-op repository and parallelism to 1.
func NewEvaluationService(opts Options) EvaluationService {
	if opts.History == nil {
		opts.History = storage.NewNoopRepository()
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &evaluationService{
		fetcher:       opts.Fetcher,
		validator:     opts.Validator,
		history:       opts.History,
		watchlistPath: opts.WatchlistPath,
		parallel:      opts.Parallel,
		now:           opts.Now,
		log:           logger.Component("service"),
	}
}

// Evaluate validates raw, fetches every symbol through one shared client and
// scores each one. Per-ticker failures are reported in the evaluation status.
func (s *evaluationService) Evaluate(ctx context.Context, raw []string) (*Run, error) {
	run := &Run{Requested: raw}
	run.Validation = s.validator.Check(ctx, raw)
	symbols := run.Validation.Symbols
	if len(symbols) == 0 {
		return run, ErrNoValidTickers
	}
	if !run.Validation.Confirmed {
		s.log.Warn().Strs("symbols", symbols).Str("reason", run.Validation.Reason).Msg("evaluating unconfirmed symbols")
	}

	shared := s.fetcher.SharedClient(symbols)
	run.Evaluations = make([]models.Evaluation, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for i, ticker := range symbols {
		g.Go(func() error {
			bundle := s.fetcher.Fetch(gctx, ticker, shared)
			run.Evaluations[i] = s.evaluate(ticker, bundle)
			return nil
		})
	}
	_ = g.Wait()

	if err := s.history.RecordBatch(ctx, run.Evaluations); err != nil {
		s.log.Error().Err(err).Msg("failed to record evaluation history")
	}

	s.log.Info().
		Int("tickers", len(symbols)).
		Int("failures", run.Failures()).
		Msg("evaluation finished")
	return run, nil
}

func (s *evaluationService) evaluate(ticker string, b models.Bundle) models.Evaluation {
	ev := models.Evaluation{
		Ticker:      ticker,
		Profile:     profileOf(ticker, b),
		CacheInfo:   b.CacheInfo,
		Error:       b.Error,
		EvaluatedAt: s.now().UTC(),
	}
	log := s.log.With().Str("ticker", ticker).Logger()

	fail := func(err error) models.Evaluation {
		ev.Status = models.StatusNoData
		if b.Error.RateLimited() {
			ev.Status = models.StatusRateLimited
		}
		ev.Message = err.Error()
		log.Error().Err(err).Str("status", ev.Status).Msg("ticker not evaluated")
		return ev
	}

	set, err := metrics.Compute(ticker, b)
	if err != nil {
		return fail(err)
	}
	ev.Metrics = set

	report, err := metrics.EnsureDataAvailable(ticker, b.Sections, set)
	if err != nil {
		return fail(err)
	}
	ev.Report = report
	if len(report.MissingFields) > 0 {
		log.Warn().Str("missing_fields", strings.Join(report.MissingFields, ", ")).Msg("incomplete data")
	}
	if len(report.MissingMetrics) > 0 {
		log.Warn().Str("missing_metrics", strings.Join(report.MissingMetrics, ", ")).Msg("incomplete data")
	}

	score := metrics.Score(set)
	ev.Score = &score
	ev.Status = models.StatusOK
	log.Info().Int("metrics", len(set)).Str("verdict", score.Verdict).Msg("computed metrics")
	return ev
}

func profileOf(ticker string, b models.Bundle) models.Profile {
	profile := b.Section(models.SectionAssetProfile)
	critical := metrics.ResolveCriticalFields(b.Sections)
	return models.Profile{
		CompanyName: tickers.ResolveCompanyName(ticker, b.Section(models.SectionQuoteType), b.Section(models.SectionPrice), profile),
		Sector:      profile.String("sector"),
		Industry:    profile.String("industry"),
		Website:     profile.String("website"),
		Summary:     profile.String("longBusinessSummary"),
		MarketCap:   critical.MarketCap,
		Revenue:     critical.TotalRevenue,
		TotalDebt:   critical.TotalDebt,
	}
}

// Sections returns the raw bundle for one ticker.
func (s *evaluationService) Sections(ctx context.Context, ticker string) models.Bundle {
	return s.fetcher.Fetch(ctx, ticker, nil)
}

// Validate runs the ticker validator.
func (s *evaluationService) Validate(ctx context.Context, raw []string) tickers.Result {
	return s.validator.Check(ctx, raw)
}

// Watchlist loads and validates the configured watchlist.
func (s *evaluationService) Watchlist(ctx context.Context) Watchlist {
	symbols := s.validator.LoadWatchlist(ctx, s.watchlistPath)
	def := tickers.DefaultFallback
	if len(symbols) > 0 {
		def = strings.Join(symbols, ",")
	}
	return Watchlist{Path: s.watchlistPath, Symbols: symbols, Default: def}
}

// Cooldown returns the active rate limit, if any.
func (s *evaluationService) Cooldown() *models.RateLimit {
	return s.fetcher.Tracker().Active()
}

// History returns recent verdicts for ticker.
func (s *evaluationService) History(ctx context.Context, ticker string, limit int) ([]models.HistoryEntry, error) {
	return s.history.ListByTicker(ctx, strings.ToUpper(strings.TrimSpace(ticker)), limit)
}
