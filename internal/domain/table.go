package domain

// Table is an in-memory view of a parsed delimited file: one header row
// plus zero or more data rows. Column lookup is by exact header name.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

func NewTable(columns []string, rows [][]string) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		// First occurrence wins for duplicate headers.
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return &Table{Columns: columns, Rows: rows, index: idx}
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value at (row, column name). The second return is false
// when the column does not exist or the row is ragged short of it.
func (t *Table) Cell(row int, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	if row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return "", false
	}
	return t.Rows[row][i], true
}

func (t *Table) RowCount() int { return len(t.Rows) }
