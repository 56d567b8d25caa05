package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		created_at TEXT NOT NULL,
		rows_total INTEGER NOT NULL,
		rows_processed INTEGER NOT NULL,
		rows_skipped INTEGER NOT NULL
	);
	`

	createRunResultsQuery := `
	CREATE TABLE IF NOT EXISTS run_results (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		departure_time TEXT NOT NULL,
		distance_text TEXT NOT NULL,
		distance_meters INTEGER,
		duration_text TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	createRunErrorsQuery := `
	CREATE TABLE IF NOT EXISTS run_errors (
		run_id TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		stage TEXT NOT NULL,
		warning INTEGER NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, row_index)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_created_at
    ON runs(created_at);
	`

	statements := []string{
		createRunsQuery,
		createRunResultsQuery,
		createRunErrorsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		rows_total INTEGER NOT NULL,
		rows_processed INTEGER NOT NULL,
		rows_skipped INTEGER NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS run_results (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		distance_text TEXT NOT NULL,
		distance_meters INTEGER,
		duration_text TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS run_errors (
		run_id TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		stage TEXT NOT NULL,
		warning BOOLEAN NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, row_index)
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_runs_created_at
    ON runs(created_at);
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
