// Package model provides the domain model for sheetimport: identifier
// sanitization, collision-free name resolution, column type inference and
// value normalization. Nothing in this package performs I/O.
package model

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultMaxColumnNameLength is the default upper bound for column identifiers
	DefaultMaxColumnNameLength = 30
	// MinColumnNameLength is the smallest bound that keeps "c_2000", the last
	// suffix 2000 identical headers need, within maxLen
	MinColumnNameLength = 6
	// fallbackColumnName replaces a column name that sanitizes to nothing
	fallbackColumnName = "col"
	// fallbackTableName replaces a sheet name that sanitizes to nothing
	fallbackTableName = "Sheet"
	// digitPrefix is prepended to identifiers that would start with a digit
	digitPrefix = "c_"
	// suffixFallbackBase is used when a bounded identifier has no room left for its base
	suffixFallbackBase = "c"
	// firstSuffix is the first disambiguation suffix index
	firstSuffix = 2
)

// SanitizeIdentifier turns arbitrary header text into a bare identifier.
//
// Surrounding whitespace is trimmed, every run of characters that are not
// letters, digits or underscore becomes a single underscore, consecutive
// underscores collapse, and leading/trailing underscores are stripped.
// An empty result becomes "col"; a result starting with a digit gets the
// "c_" prefix. The function never fails and is idempotent.
func SanitizeIdentifier(raw string) string {
	return sanitize(raw, fallbackColumnName)
}

// SanitizeTableName is SanitizeIdentifier with "Sheet" as the fallback.
func SanitizeTableName(raw string) string {
	return sanitize(raw, fallbackTableName)
}

func sanitize(raw, fallback string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingUnderscore := false
	for _, r := range strings.TrimSpace(raw) {
		if !isWordRune(r) || r == '_' {
			// Runs of separators and literal underscores both fold into one.
			pendingUnderscore = true
			continue
		}
		if pendingUnderscore && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingUnderscore = false
		b.WriteRune(r)
	}

	s := b.String()
	if s == "" {
		s = fallback
	}
	if startsWithDigit(s) {
		s = digitPrefix + s
	}
	return s
}

// isWordRune reports whether r is a letter, a number or underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// foldKey is the key used for collision checks. SQLite compares
// identifiers case-insensitively for ASCII letters only.
func foldKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// nameSet tracks identifiers already handed out within one scope.
type nameSet map[string]struct{}

func (s nameSet) has(name string) bool {
	_, ok := s[foldKey(name)]
	return ok
}

func (s nameSet) add(name string) {
	s[foldKey(name)] = struct{}{}
}

// ResolveUnique maps every name to a sanitized identifier of at most maxLen
// characters that is unique within the call.
//
// Names are processed in input order and the first occurrence always keeps
// its plain form. Later collisions receive "_2", "_3", ... appended to the
// base truncated so the whole candidate fits maxLen. When no base
// characters fit next to the suffix, "c" + suffix is used, so the bound
// only holds for maxLen of at least MinColumnNameLength.
func ResolveUnique(names []string, maxLen int) NameMapping {
	used := make(nameSet, len(names))
	mapping := make(NameMapping, 0, len(names))

	for _, original := range names {
		base := truncateRunes(SanitizeIdentifier(original), maxLen)
		if base == "" {
			base = fallbackColumnName
		}

		candidate := base
		for i := firstSuffix; used.has(candidate); i++ {
			suffix := "_" + strconv.Itoa(i)
			trimmed := ""
			if maxLen > len(suffix) {
				trimmed = truncateRunes(base, maxLen-len(suffix))
			}
			if trimmed != "" {
				candidate = trimmed + suffix
			} else {
				candidate = suffixFallbackBase + suffix
			}
		}

		used.add(candidate)
		mapping = append(mapping, NamePair{Original: original, Short: candidate})
	}

	return mapping
}

// ColumnLetters returns the spreadsheet column label for a 0-based index:
// 0 -> "A", 25 -> "Z", 26 -> "AA". It is bijective base-26 with no zero digit.
func ColumnLetters(index int) string {
	if index < 0 {
		return ""
	}
	n := index + 1
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ResolveLetters assigns spreadsheet column labels by position, ignoring
// the original text.
func ResolveLetters(names []string) NameMapping {
	mapping := make(NameMapping, len(names))
	for i, original := range names {
		mapping[i] = NamePair{Original: original, Short: ColumnLetters(i)}
	}
	return mapping
}

// ResolveColumns dispatches to the resolver selected by mode.
func ResolveColumns(names []string, mode NamingMode, maxLen int) NameMapping {
	if mode == NamingModeLetters {
		return ResolveLetters(names)
	}
	return ResolveUnique(names, maxLen)
}
