package source

// RawTable is an untyped columnar table as read from the source file:
// a header row plus string cells. Type coercion happens in the cleaner.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows (excluding the header).
func (t *RawTable) NumRows() int { return len(t.Rows) }
