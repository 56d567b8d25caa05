package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travel-matrix-service/internal/domain"
)

// SQLite-backed implementation of the RunRepository port.
type SqliteRunRepository struct{ DB *sql.DB }

func NewSqliteRunRepository(db *sql.DB) *SqliteRunRepository {
	return &SqliteRunRepository{DB: db}
}

// Store a completed run with its results and row errors in one transaction.
func (s *SqliteRunRepository) SaveRun(ctx context.Context, run *domain.Run) error {
	if s.DB == nil {
		return errors.New("sqlite run repository: DB is nil")
	}
	if run == nil || run.RunID == "" {
		return errors.New("save run: run with a run_id is required")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRunQuery := `
	INSERT OR REPLACE INTO runs (
		run_id,
		mode,
		created_at,
		rows_total,
		rows_processed,
		rows_skipped
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err = tx.ExecContext(ctx, insertRunQuery,
		run.RunID,
		run.Mode.String(),
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.RowsTotal,
		run.RowsProcessed,
		run.RowsSkipped,
	)
	if err != nil {
		return fmt.Errorf("save run: insert run_id=%s: %w", run.RunID, err)
	}

	resultStmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO run_results (
		run_id,
		position,
		origin,
		destination,
		departure_time,
		distance_text,
		distance_meters,
		duration_text,
		duration_seconds
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare result insert: %w", err)
	}
	defer resultStmt.Close()

	for i, r := range run.Results {
		var meters any
		if r.DistanceMeters != nil {
			meters = *r.DistanceMeters
		}

		_, err := resultStmt.ExecContext(ctx,
			run.RunID,
			i,
			r.Origin,
			r.Destination,
			r.DepartureTime.Format(time.RFC3339Nano),
			r.DistanceText,
			meters,
			r.DurationText,
			r.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("save run: insert result position=%d: %w", i, err)
		}
	}

	errorStmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO run_errors (
		run_id,
		row_index,
		stage,
		warning,
		message
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare error insert: %w", err)
	}
	defer errorStmt.Close()

	for _, re := range run.RowErrors {
		warning := 0
		if re.Warning {
			warning = 1
		}

		if _, err := errorStmt.ExecContext(ctx, run.RunID, re.Row, re.Stage, warning, re.Err.Error()); err != nil {
			return fmt.Errorf("save run: insert error row=%d: %w", re.Row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit tx: %w", err)
	}

	return nil
}

// Load one run with its results (input order) and row errors.
func (s *SqliteRunRepository) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}

	runQuery := `
	SELECT
		run_id,
		mode,
		created_at,
		rows_total,
		rows_processed,
		rows_skipped
	FROM runs
	WHERE run_id = ?;
	`
	var run domain.Run
	var mode, createdAt string
	err := s.DB.QueryRowContext(ctx, runQuery, runID).Scan(
		&run.RunID, &mode, &createdAt, &run.RowsTotal, &run.RowsProcessed, &run.RowsSkipped,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: query runs table: %w", err)
	}

	run.Mode = domain.Mode(mode)
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("get run: parse created_at %q: %w", createdAt, err)
	}

	run.Results, err = s.runResults(ctx, runID)
	if err != nil {
		return nil, err
	}

	run.RowErrors, err = s.runErrors(ctx, runID)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func (s *SqliteRunRepository) runResults(ctx context.Context, runID string) ([]domain.TravelResult, error) {
	query := `
	SELECT
		origin,
		destination,
		departure_time,
		distance_text,
		distance_meters,
		duration_text,
		duration_seconds
	FROM run_results
	WHERE run_id = ?
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: query run_results table: %w", err)
	}
	defer rows.Close()

	results := make([]domain.TravelResult, 0, 64)
	for rows.Next() {
		var r domain.TravelResult
		var departure string
		var meters sql.NullInt64
		if err := rows.Scan(&r.Origin, &r.Destination, &departure, &r.DistanceText, &meters, &r.DurationText, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("get run: scan result row: %w", err)
		}

		r.DepartureTime, err = time.Parse(time.RFC3339Nano, departure)
		if err != nil {
			return nil, fmt.Errorf("get run: parse departure_time %q: %w", departure, err)
		}
		if meters.Valid {
			v := int(meters.Int64)
			r.DistanceMeters = &v
		}

		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: result row iteration: %w", err)
	}

	return results, nil
}

func (s *SqliteRunRepository) runErrors(ctx context.Context, runID string) ([]domain.RowError, error) {
	query := `
	SELECT
		row_index,
		stage,
		warning,
		message
	FROM run_errors
	WHERE run_id = ?
	ORDER BY row_index;
	`
	rows, err := s.DB.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: query run_errors table: %w", err)
	}
	defer rows.Close()

	rowErrors := make([]domain.RowError, 0, 16)
	for rows.Next() {
		var re domain.RowError
		var warning int
		var message string
		if err := rows.Scan(&re.Row, &re.Stage, &warning, &message); err != nil {
			return nil, fmt.Errorf("get run: scan error row: %w", err)
		}

		re.Warning = warning != 0
		re.Err = errors.New(message)
		rowErrors = append(rowErrors, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: error row iteration: %w", err)
	}

	return rowErrors, nil
}

// List run summaries, newest first.
func (s *SqliteRunRepository) ListRuns(ctx context.Context) ([]domain.RunSummary, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}

	query := `
	SELECT
		run_id,
		mode,
		created_at,
		rows_total,
		rows_processed,
		rows_skipped
	FROM runs
	ORDER BY created_at DESC, run_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs table: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.RunSummary, 0, 32)
	for rows.Next() {
		var sum domain.RunSummary
		var mode, createdAt string
		if err := rows.Scan(&sum.RunID, &mode, &createdAt, &sum.RowsTotal, &sum.RowsProcessed, &sum.RowsSkipped); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}

		sum.Mode = domain.Mode(mode)
		sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: parse created_at %q: %w", createdAt, err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return summaries, nil
}
