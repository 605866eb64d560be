// Package scanner defines the row sources an export reads from.
//
// Two shapes exist. Rows is a forward-only cursor, the way database/sql and
// Hive hand out results. Source is the paged shape the export engine drives:
// Fetch(offset, count) returns the records at that logical position. FromRows
// bridges the first to the second.
package scanner

import "context"

// Rows is a forward-only cursor over tabular data.
type Rows interface {
	Next() bool
	ScanRow() ([]any, error)
	Columns() ([]Column, error)
	Driver() string
	Err() error
}

// Record maps a field name to its value. Keys need not be uniform across
// records of one export.
type Record map[string]any

// Source supplies records by logical offset. Fetching beyond the end returns
// an empty batch rather than an error. Returning fewer records than requested
// tells the caller the source is exhausted.
type Source interface {
	Fetch(ctx context.Context, offset, count int) ([]Record, error)
}

// FetchFunc adapts a plain function to Source.
type FetchFunc func(ctx context.Context, offset, count int) ([]Record, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, offset, count int) ([]Record, error) {
	return f(ctx, offset, count)
}
