package column

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-data-exporter/bookexport/scanner"
)

// FromScanner derives descriptors from cursor metadata, one per column, with
// the column name as both field and header.
func FromScanner(cols []scanner.Column) []Descriptor {
	out := make([]Descriptor, len(cols))
	for i, c := range cols {
		out[i] = Descriptor{
			Field: c.Name(),
			Type:  inferType(c),
		}
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

func inferType(c scanner.Column) DataType {
	name := strings.ToUpper(c.DatabaseTypeName())
	switch {
	case name == "":
	case strings.Contains(name, "INT"):
		return Integer
	case strings.Contains(name, "BOOL"):
		return Bool
	case strings.Contains(name, "DATE"), strings.Contains(name, "TIME"):
		return Date
	case strings.Contains(name, "REAL"), strings.Contains(name, "FLOA"),
		strings.Contains(name, "DOUB"), strings.Contains(name, "DEC"),
		strings.Contains(name, "NUM"):
		return Number
	case strings.Contains(name, "CHAR"), strings.Contains(name, "TEXT"),
		strings.Contains(name, "STRING"), strings.Contains(name, "CLOB"):
		return String
	}

	t := c.ScanType()
	if t == nil {
		return Auto
	}
	if t == timeType {
		return Date
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer
	case reflect.Float32, reflect.Float64:
		return Number
	case reflect.Bool:
		return Bool
	case reflect.String:
		return String
	}
	return Auto
}
