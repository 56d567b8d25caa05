package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResults signals that a run produced zero surviving rows, so there is
// nothing to export. Callers surface it as an informational message, not a
// failure.
var ErrNoResults = errors.New("no valid results")

// ErrRunNotFound is returned by run repositories for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// Processing stage a row-scoped failure occurred in.
const (
	StageTransform = "transform"
	StageQuery     = "query"
	StageStatus    = "status"
	StageExtract   = "extract"
)

// MissingColumnsError reports every required column absent from an uploaded
// header. It is fatal for the whole run: no row is processed when set.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ElementStatusError marks a response element whose status was not OK.
// Rows failing this way are skipped with a warning rather than an error.
type ElementStatusError struct {
	Status string
}

func (e *ElementStatusError) Error() string {
	return fmt.Sprintf("element status %s", e.Status)
}

// RowError ties a failure to the zero-based input row it occurred on.
// A row error never aborts the run; the remaining rows still process.
type RowError struct {
	Row     int
	Stage   string
	Warning bool
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %v", e.Row, e.Stage, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
