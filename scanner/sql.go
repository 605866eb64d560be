package scanner

import "database/sql"

// sqlRowsScanner wraps a *sql.Rows and implements Rows.
type sqlRowsScanner struct {
	*sql.Rows

	driver  string
	columns []Column
}

// FromSQL creates a Rows wrapper around *sql.Rows. The driver name is only
// reported back through Driver.
func FromSQL(rows *sql.Rows, driver string) Rows {
	return &sqlRowsScanner{Rows: rows, driver: driver}
}

// Columns returns the column metadata of the result set.
func (s *sqlRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	cc, err := s.Rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	for _, c := range cc {
		s.columns = append(s.columns, c)
	}
	return s.columns, nil
}

// ScanRow reads the current row into a fresh slice. Byte slices are copied by
// database/sql when scanning into *any, so the returned row is safe to keep.
func (s *sqlRowsScanner) ScanRow() ([]any, error) {
	if s.columns == nil {
		if _, err := s.Columns(); err != nil {
			return nil, err
		}
	}
	row := make([]any, len(s.columns))
	ptrs := make([]any, len(s.columns))
	for i := range row {
		ptrs[i] = &row[i]
	}
	if err := s.Rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return row, nil
}

// Driver returns the name of the SQL driver used.
func (s *sqlRowsScanner) Driver() string {
	return s.driver
}
