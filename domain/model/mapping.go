package model

import (
	"fmt"
	"strings"
)

// NamingMode selects how destination column identifiers are produced
type NamingMode int

const (
	// NamingModeShort sanitizes, truncates and disambiguates the original header (default)
	NamingModeShort NamingMode = iota
	// NamingModeLetters assigns spreadsheet column labels (A, B, ..., AA) by position
	NamingModeLetters
)

// String returns the configuration spelling of the naming mode
func (m NamingMode) String() string {
	switch m {
	case NamingModeLetters:
		return "letters"
	default:
		return "short"
	}
}

// ParseNamingMode parses "short" or "letters" (case-insensitive).
func ParseNamingMode(s string) (NamingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "short":
		return NamingModeShort, nil
	case "letters":
		return NamingModeLetters, nil
	default:
		return NamingModeShort, fmt.Errorf("unknown naming mode %q (want short or letters)", s)
	}
}

// NamePair links one original header to its destination identifier
type NamePair struct {
	// Original is the header text exactly as read from the source
	Original string
	// Short is the resolved destination identifier
	Short string
}

// NameMapping is the ordered, position-keyed result of name resolution.
// Duplicate originals are kept as separate entries.
type NameMapping []NamePair

// Shorts returns the destination identifiers in column order
func (m NameMapping) Shorts() []string {
	shorts := make([]string, len(m))
	for i, p := range m {
		shorts[i] = p.Short
	}
	return shorts
}

// Originals returns the original header texts in column order
func (m NameMapping) Originals() []string {
	originals := make([]string, len(m))
	for i, p := range m {
		originals[i] = p.Original
	}
	return originals
}

// TableNameRegistry hands out table names that are unique for one import run.
// The zero value is not usable; call NewTableNameRegistry.
type TableNameRegistry struct {
	used nameSet
}

// NewTableNameRegistry creates an empty registry. Reserved names are treated
// as already taken.
func NewTableNameRegistry(reserved ...string) *TableNameRegistry {
	r := &TableNameRegistry{used: make(nameSet)}
	for _, name := range reserved {
		r.used.add(name)
	}
	return r
}

// Resolve sanitizes desired (falling back to "Sheet") and appends "_2",
// "_3", ... until the name is free. The returned name is recorded.
// Table names carry no length bound.
func (r *TableNameRegistry) Resolve(desired string) string {
	base := SanitizeTableName(desired)

	candidate := base
	for i := firstSuffix; r.used.has(candidate); i++ {
		candidate = fmt.Sprintf("%s_%d", base, i)
	}

	r.used.add(candidate)
	return candidate
}

// Contains reports whether name has already been assigned.
func (r *TableNameRegistry) Contains(name string) bool {
	return r.used.has(name)
}
