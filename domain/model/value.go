package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// textDatetimeLayout renders time values held in text columns
const textDatetimeLayout = "2006-01-02 15:04:05.999999999"

// missingMarkers are text cells read as a missing value, matching the
// defaults of common spreadsheet/dataframe readers.
var missingMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// IsMissingMarker reports whether a text cell stands for a missing value.
// The empty string is a missing marker.
func IsMissingMarker(s string) bool {
	if s == "" {
		return true
	}
	_, ok := missingMarkers[s]
	return ok
}

// IsMissing reports whether v is a missing value: nil or a NaN float.
func IsMissing(v any) bool {
	return NormalizeValue(v) == nil
}

// NormalizeValue converts v to one of the canonical value types
// (nil, int64, float64, bool, time.Time, string, []byte).
// Missing values become nil.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int64, bool, string, time.Time, []byte:
		return x
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
		return float64(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return normalizeUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return normalizeUint(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	default:
		return v
	}
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// FormatValue renders v as text. Missing values render as "".
func FormatValue(v any) string {
	switch x := NormalizeValue(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(textDatetimeLayout)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// CoerceValue converts a normalized value to the representation bound for
// a column of type ct. Text columns receive the text rendering and REAL
// columns receive float64.
func CoerceValue(v any, ct ColumnType) any {
	v = NormalizeValue(v)
	if v == nil {
		return nil
	}

	switch {
	case ct.IsText():
		return FormatValue(v)
	case ct == ColumnTypeReal:
		if i, ok := v.(int64); ok {
			return float64(i)
		}
	}
	return v
}

// ParseTextColumn converts the text cells of one column to native values.
//
// The column is converted as a whole: when every present cell parses as an
// integer the column becomes int64, then float64, then bool, then time.Time.
// Otherwise the cells stay strings. Missing markers become nil in every case.
func ParseTextColumn(cells []string) []any {
	out := make([]any, len(cells))
	present := make([]int, 0, len(cells))
	for i, c := range cells {
		if IsMissingMarker(strings.TrimSpace(c)) {
			continue
		}
		present = append(present, i)
	}

	parsers := []func(string) (any, bool){parseInt, parseFloat, parseBool, parseTime}
	for _, parse := range parsers {
		if len(present) == 0 {
			break
		}
		if convertAll(cells, present, out, parse) {
			return out
		}
	}

	for _, i := range present {
		out[i] = cells[i]
	}
	return out
}

// convertAll parses every present cell with parse. On the first failure it
// returns false and out is left for the next attempt to overwrite.
func convertAll(cells []string, present []int, out []any, parse func(string) (any, bool)) bool {
	for _, i := range present {
		v, ok := parse(strings.TrimSpace(cells[i]))
		if !ok {
			return false
		}
		out[i] = v
	}
	return true
}

func parseInt(s string) (any, bool) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return i, true
}

func parseFloat(s string) (any, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil, false
	}
	return f, true
}

func parseBool(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return nil, false
}

func parseTime(s string) (any, bool) {
	t, ok := ParseDatetime(s)
	if !ok {
		return nil, false
	}
	return t, true
}
