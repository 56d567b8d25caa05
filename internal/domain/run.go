package domain

import "time"

// Run is one complete pass over an uploaded table: the surviving results in
// input order plus the per-row failures recorded along the way.
type Run struct {
	RunID         string
	Mode          Mode
	CreatedAt     time.Time
	RowsTotal     int
	RowsProcessed int
	RowsSkipped   int
	Results       []TravelResult
	RowErrors     []RowError
}

// RunSummary is the listing view of a run (no result payload).
type RunSummary struct {
	RunID         string
	Mode          Mode
	CreatedAt     time.Time
	RowsTotal     int
	RowsProcessed int
	RowsSkipped   int
}
