// Package column describes the output columns of an export: which record
// field feeds each column, the header text, the cell type and an optional
// value formatter.
package column

import (
	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/scanner"
)

// MaxCount is the largest number of columns any format accepts. It matches
// the spreadsheet column limit (XFD).
const MaxCount = 16384

// DataType tags the cell type a column produces in typed formats.
type DataType int

const (
	// Auto keeps the value's Go type.
	Auto DataType = iota
	String
	Number
	Integer
	Bool
	Date
)

var dataTypeNames = [...]string{"auto", "string", "number", "integer", "bool", "date"}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "unknown"
}

// Descriptor is the immutable description of one output column.
type Descriptor struct {
	Field  string // record key the value is read from
	Header string // header text; Field when empty
	Type   DataType
	// Format renders the value as text. When set, the cell is written as a
	// string regardless of Type.
	Format func(v any) string
}

// HeaderName returns the header text of the column.
func (d Descriptor) HeaderName() string {
	if d.Header != "" {
		return d.Header
	}
	return d.Field
}

// Resolve reads the column's value from rec. A missing field is an
// ErrFieldNotFound error when strict is set, and nil otherwise.
func (d Descriptor) Resolve(rec scanner.Record, strict bool) (any, error) {
	v, ok := rec[d.Field]
	if !ok && strict {
		return nil, exporterr.Newf("column", "Resolve", d.Field, exporterr.ErrFieldNotFound, "record has no field %q", d.Field)
	}
	return v, nil
}

// Headers returns the header text of every column, in order.
func Headers(cols []Descriptor) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.HeaderName()
	}
	return out
}

// Validate checks that cols is usable by a format accepting at most max
// columns. component and operation identify the caller in the returned error.
func Validate(component, operation string, cols []Descriptor, max int) error {
	if cols == nil {
		return exporterr.New(component, operation, "cols", exporterr.ErrMissingArgument)
	}
	if len(cols) == 0 {
		return exporterr.New(component, operation, "cols", exporterr.ErrEmptyCollection)
	}
	if max <= 0 || max > MaxCount {
		max = MaxCount
	}
	if len(cols) > max {
		return exporterr.Newf(component, operation, "cols", exporterr.ErrColumnLimitExceeded, "%d columns, limit %d", len(cols), max)
	}
	for i, c := range cols {
		if c.Field == "" {
			return exporterr.Newf(component, operation, "cols", exporterr.ErrMissingArgument, "column %d has no field name", i)
		}
	}
	return nil
}
