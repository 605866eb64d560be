package tostring

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-data-exporter/bookexport/column"
)

// dateLayouts are tried in order when a Date column receives text.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ToCell converts v to a value a spreadsheet engine can store with the cell
// type t. Values that cannot be coerced are kept as text, so no data is lost.
// nil is returned for NULL values.
func ToCell(v any, t column.DataType) any {
	if v == nil {
		return nil
	}
	switch t {
	case column.String:
		s := ToString(v)
		if s.IsNULL {
			return nil
		}
		return s.String
	case column.Number:
		if f, ok := toFloat(v); ok {
			return f
		}
	case column.Integer:
		if i, ok := toInt(v); ok {
			return i
		}
		if f, ok := toFloat(v); ok {
			return f
		}
	case column.Bool:
		if b, ok := toBool(v); ok {
			return b
		}
	case column.Date:
		if d, ok := toTime(v); ok {
			return d
		}
	case column.Auto:
		switch v.(type) {
		case string, bool, time.Time,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return v
		}
	}
	s := ToString(v)
	if s.IsNULL {
		return nil
	}
	return s.String
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case []byte:
		return toFloat(string(v))
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return toInt(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	case []byte:
		return toInt(string(v))
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	case []byte:
		return toBool(string(v))
	}
	if i, ok := toInt(v); ok {
		return i != 0, true
	}
	return false, false
}

func toTime(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return toTime(*v)
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, true
			}
		}
	case []byte:
		return toTime(string(v))
	}
	return time.Time{}, false
}
