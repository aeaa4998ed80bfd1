package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Common datetime patterns to detect
var datetimePatterns = []struct {
	pattern *regexp.Regexp
	formats []string // Multiple formats for the same pattern
}{
	// ISO8601 formats with timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	// ISO8601 formats without timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	// ISO8601 date and time with space
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	// ISO8601 date only
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	// US formats
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}( (AM|PM))?$`),
		[]string{"1/2/2006 15:04:05", "1/2/2006 3:04:05 PM", "01/02/2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
	// European formats
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}$`),
		[]string{"2.1.2006 15:04:05", "02.01.2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),
		[]string{"2.1.2006", "02.01.2006"},
	},
	// Time only
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"15:04:05", "15:04:05.000", "3:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}$`),
		[]string{"15:04", "3:04"},
	},
}

// ParseDatetime parses value with the first matching known datetime layout.
func ParseDatetime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, dp := range datetimePatterns {
		if !dp.pattern.MatchString(value) {
			continue
		}
		for _, format := range dp.formats {
			if t, err := time.Parse(format, value); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// IsDatetime checks if a string value represents a datetime
func IsDatetime(value string) bool {
	_, ok := ParseDatetime(value)
	return ok
}

// InferColumnType decides the destination type of a column from all of its
// values. Missing values (see IsMissing) do not take part in the decision.
//
// Priority: INTEGER, REAL, BOOLEAN, DATETIME, then text. Integer and float
// values together make a REAL column. Any other mix is text, bounded when
// the longest rendered value fits MaxBoundedTextLength. A column without
// any present value is bounded text.
func InferColumnType(values []any) ColumnType {
	var present, ints, floats, bools, times int
	maxLen := 0

	for _, v := range values {
		v = NormalizeValue(v)
		if v == nil {
			continue
		}
		present++

		switch v.(type) {
		case int64:
			ints++
		case float64:
			floats++
		case bool:
			bools++
		case time.Time:
			times++
		}

		if n := utf8.RuneCountInString(FormatValue(v)); n > maxLen {
			maxLen = n
		}
	}

	switch {
	case present == 0:
		return ColumnTypeText
	case ints == present:
		return ColumnTypeInteger
	case ints+floats == present:
		return ColumnTypeReal
	case bools == present:
		return ColumnTypeBoolean
	case times == present:
		return ColumnTypeDatetime
	case maxLen <= MaxBoundedTextLength:
		return ColumnTypeText
	default:
		return ColumnTypeLongText
	}
}

// InferColumnTypes applies InferColumnType to each column.
func InferColumnTypes(columns [][]any) []ColumnType {
	types := make([]ColumnType, len(columns))
	for i, column := range columns {
		types[i] = InferColumnType(column)
	}
	return types
}
