// Package tostring converts arbitrary Go values into cell content: a string
// with a NULL flag for text formats, or a typed value for spreadsheets.
package tostring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var jsonStd = jsoniter.ConfigCompatibleWithStandardLibrary

// String is a string value along with a flag telling whether it was NULL.
type String struct {
	String string
	IsNULL bool
}

// ToString converts v to its string representation.
//
// nil, the zero time and values whose JSON form is null, [] or {} are NULL.
// Types implementing json.Marshaler or fmt.Stringer are rendered through
// those; anything else falls back to JSON and finally to %v.
func ToString(v any) String {
	if v == nil {
		return String{"", true}
	}
	if s, ok := scalar(v); ok {
		return String{s, false}
	}
	switch v := v.(type) {
	case time.Time:
		if v.IsZero() {
			return String{"", true}
		}
		return String{v.Format(time.RFC3339Nano), false}
	case *time.Time:
		if v == nil {
			return String{"", true}
		}
		return ToString(*v)
	}
	if m, ok := v.(json.Marshaler); ok {
		if data, err := m.MarshalJSON(); err == nil {
			return fromJSON(data)
		}
	}
	if s, ok := v.(fmt.Stringer); ok {
		return String{s.String(), false}
	}
	if data, err := jsonStd.Marshal(v); err == nil {
		return fromJSON(data)
	}
	return String{fmt.Sprintf("%v", v), false}
}

func fromJSON(data []byte) String {
	s := strings.Trim(string(data), `"`)
	if s == "[]" || s == "{}" || s == "null" {
		return String{"", true}
	}
	return String{s, false}
}

func scalar(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}
