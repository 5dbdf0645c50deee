package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

// DefaultHistoryLimit caps ListByTicker when no limit is given.
const DefaultHistoryLimit = 20

var (
	// ErrHistoryDisabled is returned by reads when persistence is off.
	ErrHistoryDisabled = errors.New("evaluation history is disabled")
	// ErrSchemaMissing means the evaluations table has not been migrated.
	ErrSchemaMissing = errors.New("evaluations table missing; run migrations")
)

// HistoryRepository defines contract for evaluation history persistence.
type HistoryRepository interface {
	RecordBatch(ctx context.Context, evaluations []models.Evaluation) error
	ListByTicker(ctx context.Context, ticker string, limit int) ([]models.HistoryEntry, error)
	Enabled() bool
}

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository returns a Postgres-backed repository.
func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Enabled() bool { return true }

// RecordBatch stores every scored evaluation in a single COPY. Unscored
// evaluations (rate limited, no data) are skipped.
func (r *historyRepository) RecordBatch(ctx context.Context, evaluations []models.Evaluation) error {
	var scored []models.Evaluation
	for _, e := range evaluations {
		if e.Score != nil {
			scored = append(scored, e)
		}
	}
	if len(scored) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"evaluations",
		"ticker",
		"verdict",
		"pass_count",
		"fail_count",
		"metrics",
		"warnings",
		"evaluated_at",
	))
	if err != nil {
		_ = tx.Rollback()
		return translate(err)
	}

	for _, e := range scored {
		metricsJSON, err := json.Marshal(e.Metrics)
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("encode metrics for %s: %w", e.Ticker, err)
		}
		warningsJSON, err := json.Marshal(e.Report)
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("encode warnings for %s: %w", e.Ticker, err)
		}
		// jsonb columns take text in COPY; []byte would be sent as bytea.
		if _, err := stmt.ExecContext(ctx,
			e.Ticker,
			e.Score.Verdict,
			e.Score.Pass,
			e.Score.Fail,
			string(metricsJSON),
			string(warningsJSON),
			e.EvaluatedAt,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return translate(err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return translate(err)
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ListByTicker returns the most recent evaluations for ticker, newest first.
func (r *historyRepository) ListByTicker(ctx context.Context, ticker string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ticker, verdict, pass_count, fail_count, metrics, warnings, evaluated_at
		FROM evaluations
		WHERE ticker = $1
		ORDER BY evaluated_at DESC, id DESC
		LIMIT $2
	`, ticker, limit)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []models.HistoryEntry{}
	for rows.Next() {
		var (
			e            models.HistoryEntry
			metricsJSON  []byte
			warningsJSON []byte
		)
		if err := rows.Scan(&e.ID, &e.Ticker, &e.Verdict, &e.PassCount, &e.FailCount, &metricsJSON, &warningsJSON, &e.EvaluatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metricsJSON, &e.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics of evaluation %d: %w", e.ID, err)
		}
		if err := json.Unmarshal(warningsJSON, &e.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings of evaluation %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// translate maps a missing table to ErrSchemaMissing.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pqErr.Message)
	}
	return err
}

type noopRepository struct{}

// NewNoopRepository returns a repository that stores nothing.
func NewNoopRepository() HistoryRepository {
	return noopRepository{}
}

func (noopRepository) Enabled() bool { return false }

func (noopRepository) RecordBatch(context.Context, []models.Evaluation) error { return nil }

func (noopRepository) ListByTicker(context.Context, string, int) ([]models.HistoryEntry, error) {
	return nil, ErrHistoryDisabled
}
