package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"travel-matrix-service/internal/domain"
)

const (
	ExportFilename    = "distance_matrix.csv"
	ExportContentType = "text/csv"

	// Shown instead of a file when a run produced nothing exportable.
	NoResultsMessage = "No valid results to display."
)

var exportHeader = []string{
	"Origin",
	"Destination",
	"Departure_Time",
	"Distance (text)",
	"Distance (meters)",
	"Duration (text)",
	"Duration (seconds)",
}

// WriteResultsCSV serializes results as UTF-8 comma-separated text with a
// fixed header row and no index column. A nil meters value renders as an
// empty field. Zero results write nothing and return domain.ErrNoResults.
func WriteResultsCSV(w io.Writer, results []domain.TravelResult) error {
	if len(results) == 0 {
		return domain.ErrNoResults
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write results csv: header: %w", err)
	}

	for i, r := range results {
		meters := ""
		if r.DistanceMeters != nil {
			meters = strconv.Itoa(*r.DistanceMeters)
		}

		record := []string{
			r.Origin,
			r.Destination,
			r.DepartureTime.Format(domain.DepartureTimeLayout),
			r.DistanceText,
			meters,
			r.DurationText,
			strconv.Itoa(r.DurationSeconds),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write results csv: row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
