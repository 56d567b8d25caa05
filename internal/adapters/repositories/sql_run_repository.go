package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/platform/obs"
)

// SQLRunRepository is the Postgres implementation of the RunRepository port.
// Timestamps ride native TIMESTAMPTZ columns instead of text.
type SQLRunRepository struct{ DB *sql.DB }

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

func (s *SQLRunRepository) SaveRun(ctx context.Context, run *domain.Run) (err error) {
	defer obs.Time(ctx, "runs.repo.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("run repository: DB is nil")
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
	INSERT INTO runs (run_id, mode, created_at, rows_total, rows_processed, rows_skipped)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (run_id) DO UPDATE
	SET mode = EXCLUDED.mode,
		created_at = EXCLUDED.created_at,
		rows_total = EXCLUDED.rows_total,
		rows_processed = EXCLUDED.rows_processed,
		rows_skipped = EXCLUDED.rows_skipped;
	`
	_, err = tx.ExecContext(ctx, insertRunQuery,
		run.RunID, run.Mode.String(), run.CreatedAt, run.RowsTotal, run.RowsProcessed, run.RowsSkipped,
	)
	if err != nil {
		return fmt.Errorf("save run: insert run_id=%s: %w", run.RunID, err)
	}

	resultStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO run_results (
		run_id, position, origin, destination, departure_time,
		distance_text, distance_meters, duration_text, duration_seconds
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (run_id, position) DO UPDATE
	SET origin = EXCLUDED.origin,
		destination = EXCLUDED.destination,
		departure_time = EXCLUDED.departure_time,
		distance_text = EXCLUDED.distance_text,
		distance_meters = EXCLUDED.distance_meters,
		duration_text = EXCLUDED.duration_text,
		duration_seconds = EXCLUDED.duration_seconds;
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
			run.RunID, i, r.Origin, r.Destination, r.DepartureTime,
			r.DistanceText, meters, r.DurationText, r.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("save run: insert result position=%d: %w", i, err)
		}
	}

	errorStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO run_errors (run_id, row_index, stage, warning, message)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (run_id, row_index) DO UPDATE
	SET stage = EXCLUDED.stage,
		warning = EXCLUDED.warning,
		message = EXCLUDED.message;
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare error insert: %w", err)
	}
	defer errorStmt.Close()

	for _, re := range run.RowErrors {
		if _, err := errorStmt.ExecContext(ctx, run.RunID, re.Row, re.Stage, re.Warning, re.Err.Error()); err != nil {
			return fmt.Errorf("save run: insert error row=%d: %w", re.Row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit tx: %w", err)
	}

	return nil
}

func (s *SQLRunRepository) GetRun(ctx context.Context, runID string) (_ *domain.Run, err error) {
	defer obs.Time(ctx, "runs.repo.GetRun")(&err)

	if s.DB == nil {
		return nil, errors.New("run repository: DB is nil")
	}

	runQuery := `
	SELECT run_id, mode, created_at, rows_total, rows_processed, rows_skipped
	FROM runs
	WHERE run_id = $1;
	`
	var run domain.Run
	var mode string
	err = s.DB.QueryRowContext(ctx, runQuery, runID).Scan(
		&run.RunID, &mode, &run.CreatedAt, &run.RowsTotal, &run.RowsProcessed, &run.RowsSkipped,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: query runs table: %w", err)
	}
	run.Mode = domain.Mode(mode)

	resultsQuery := `
	SELECT origin, destination, departure_time, distance_text, distance_meters, duration_text, duration_seconds
	FROM run_results
	WHERE run_id = $1
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, resultsQuery, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: query run_results table: %w", err)
	}
	defer rows.Close()

	run.Results = make([]domain.TravelResult, 0, 64)
	for rows.Next() {
		var r domain.TravelResult
		var meters sql.NullInt64
		if err := rows.Scan(&r.Origin, &r.Destination, &r.DepartureTime, &r.DistanceText, &meters, &r.DurationText, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("get run: scan result row: %w", err)
		}
		if meters.Valid {
			v := int(meters.Int64)
			r.DistanceMeters = &v
		}
		run.Results = append(run.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: result row iteration: %w", err)
	}

	errorsQuery := `
	SELECT row_index, stage, warning, message
	FROM run_errors
	WHERE run_id = $1
	ORDER BY row_index;
	`
	errRows, err := s.DB.QueryContext(ctx, errorsQuery, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: query run_errors table: %w", err)
	}
	defer errRows.Close()

	run.RowErrors = make([]domain.RowError, 0, 16)
	for errRows.Next() {
		var re domain.RowError
		var message string
		if err := errRows.Scan(&re.Row, &re.Stage, &re.Warning, &message); err != nil {
			return nil, fmt.Errorf("get run: scan error row: %w", err)
		}
		re.Err = errors.New(message)
		run.RowErrors = append(run.RowErrors, re)
	}
	if err := errRows.Err(); err != nil {
		return nil, fmt.Errorf("get run: error row iteration: %w", err)
	}

	return &run, nil
}

func (s *SQLRunRepository) ListRuns(ctx context.Context) (_ []domain.RunSummary, err error) {
	defer obs.Time(ctx, "runs.repo.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("run repository: DB is nil")
	}

	query := `
	SELECT run_id, mode, created_at, rows_total, rows_processed, rows_skipped
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
		var mode string
		if err := rows.Scan(&sum.RunID, &mode, &sum.CreatedAt, &sum.RowsTotal, &sum.RowsProcessed, &sum.RowsSkipped); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		sum.Mode = domain.Mode(mode)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return summaries, nil
}
