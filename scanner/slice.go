package scanner

import (
	"errors"
	"fmt"
	"io"
)

// sliceRowsScanner implements Rows over a slice of rows.
// It is useful for testing or small in-memory data sources.
type sliceRowsScanner struct {
	rows    [][]any
	names   []string
	columns []Column
	lastRow []any
	cursor  int
}

// FromData creates a Rows cursor from a 2D slice of data. Column types are
// inferred from the first row. Column names default to column_N unless names
// are given.
func FromData(rows [][]any, names ...string) Rows {
	s := &sliceRowsScanner{rows: rows, names: names}
	s.columns, _ = s.Columns()
	return s
}

// Driver identifies the data source as an in-memory slice.
func (s *sliceRowsScanner) Driver() string {
	return "go-slice"
}

// Err always returns nil since errors are reported by ScanRow.
func (s *sliceRowsScanner) Err() error {
	return nil
}

// Next prepares the next row for reading.
func (s *sliceRowsScanner) Next() bool {
	if s.cursor >= len(s.rows) {
		return false
	}
	s.lastRow = s.rows[s.cursor]
	return true
}

// ScanRow returns the current row. It must be called after a successful Next.
func (s *sliceRowsScanner) ScanRow() ([]any, error) {
	if s.cursor >= len(s.rows) {
		return nil, io.EOF
	}
	if s.lastRow == nil {
		return nil, errors.New("scanner: scan called without calling Next")
	}
	if len(s.lastRow) != len(s.columns) {
		return nil, fmt.Errorf("scanner: length of row %d != length of the first row: %d != %d", s.cursor+1, len(s.lastRow), len(s.columns))
	}
	s.cursor++
	row := s.lastRow
	s.lastRow = nil
	return row, nil
}

// Columns returns the inferred column metadata. With no data, it returns an
// empty slice.
func (s *sliceRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	if len(s.rows) == 0 {
		return s.columns, nil
	}
	for i, v := range s.rows[0] {
		name := fmt.Sprintf("column_%d", i)
		if i < len(s.names) && s.names[i] != "" {
			name = s.names[i]
		}
		s.columns = append(s.columns, sampledColumn(name, v))
	}
	return s.columns, nil
}
