package ports

import (
	"context"

	"travel-matrix-service/internal/domain"
)

// Port: a boundary for persisting and retrieving matrix runs.
type RunRepository interface {
	// Store a completed run with its results and row errors.
	SaveRun(ctx context.Context, run *domain.Run) error
	// Load one run by id. Returns domain.ErrRunNotFound for unknown ids.
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	// List run summaries, newest first.
	ListRuns(ctx context.Context) ([]domain.RunSummary, error)
}
