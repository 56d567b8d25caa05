package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"travel-matrix-service/internal/domain"
)

// Columns every uploaded file must carry, matched by exact name.
var RequiredColumns = []string{"OriginLat", "OriginLon", "DestLat", "DestLon", "endTime"}

// LoadTable parses comma-separated input with a header row. Header cells are
// trimmed and stripped of quotes; extra columns are kept and ignored later.
// Any parse failure is fatal for the whole upload.
func LoadTable(r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("load table: read header: %w", err)
	}

	columns := make([]string, 0, len(header))
	for _, h := range header {
		clean := strings.TrimSpace(h)
		clean = strings.ReplaceAll(clean, `"`, "")
		columns = append(columns, clean)
	}

	rows := make([][]string, 0, 64)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load table: read row: %w", err)
		}
		rows = append(rows, record)
	}

	return domain.NewTable(columns, rows), nil
}

// ValidateColumns checks the header for every required column. All missing
// names are reported together in a single error.
func ValidateColumns(t *domain.Table) error {
	missing := make([]string, 0, len(RequiredColumns))
	for _, c := range RequiredColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return &domain.MissingColumnsError{Missing: missing}
	}

	return nil
}
