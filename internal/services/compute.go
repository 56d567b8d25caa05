package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/platform/obs"
	"travel-matrix-service/internal/ports"
)

type MatrixRequest struct {
	Table *domain.Table
	Mode  domain.Mode
}

// Outcome of one pass over a table: surviving results in input order plus a
// row error for every skipped row.
type Outcome struct {
	Results   []domain.TravelResult
	RowErrors []domain.RowError
	RowsTotal int
}

func (o *Outcome) RowsProcessed() int { return len(o.Results) }
func (o *Outcome) RowsSkipped() int   { return len(o.RowErrors) }

// ComputeMatrix runs the full pipeline over every row of the table.
//
// Rows are dispatched strictly one at a time: each provider lookup completes
// before the next row starts, so the service sees the same call pattern the
// row order implies. A failed row is recorded and skipped, never retried;
// only context cancellation aborts the pass.
func ComputeMatrix(
	ctx context.Context,
	req MatrixRequest,
	provider ports.TravelProvider,
) (*Outcome, error) {
	return computeMatrix(ctx, req, provider, time.Now)
}

func computeMatrix(
	ctx context.Context,
	req MatrixRequest,
	provider ports.TravelProvider,
	now func() time.Time,
) (_ *Outcome, err error) {
	defer obs.Time(ctx, "services.ComputeMatrix")(&err)

	if req.Table == nil {
		return nil, errors.New("compute matrix: table must be non-nil")
	}
	if provider == nil {
		return nil, errors.New("compute matrix: provider must be non-nil")
	}

	// Missing columns halt the pass before any row is touched.
	if err := ValidateColumns(req.Table); err != nil {
		return nil, fmt.Errorf("compute matrix: %w", err)
	}

	out := &Outcome{
		Results:   make([]domain.TravelResult, 0, req.Table.RowCount()),
		RowErrors: make([]domain.RowError, 0),
		RowsTotal: req.Table.RowCount(),
	}

	for i := 0; i < req.Table.RowCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("compute matrix: aborted at row %d: %w", i, err)
		}

		q, err := ToQuery(req.Table, i, req.Mode, now())
		if err != nil {
			out.RowErrors = append(out.RowErrors, domain.RowError{Row: i, Stage: domain.StageTransform, Err: err})
			log.Printf("compute matrix: row=%d stage=%s err=%v", i, domain.StageTransform, err)
			continue
		}

		el, err := provider.FetchTravel(ctx, q)
		if err != nil {
			out.RowErrors = append(out.RowErrors, domain.RowError{Row: i, Stage: domain.StageQuery, Err: err})
			log.Printf("compute matrix: row=%d stage=%s err=%v", i, domain.StageQuery, err)
			continue
		}

		result, err := ExtractResult(q, el)
		if err != nil {
			var statusErr *domain.ElementStatusError
			if errors.As(err, &statusErr) {
				out.RowErrors = append(out.RowErrors, domain.RowError{Row: i, Stage: domain.StageStatus, Warning: true, Err: err})
				log.Printf("compute matrix: row=%d stage=%s warning=%v skipping", i, domain.StageStatus, err)
			} else {
				out.RowErrors = append(out.RowErrors, domain.RowError{Row: i, Stage: domain.StageExtract, Err: err})
				log.Printf("compute matrix: row=%d stage=%s err=%v", i, domain.StageExtract, err)
			}
			continue
		}

		out.Results = append(out.Results, result)
	}

	return out, nil
}
