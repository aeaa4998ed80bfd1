package driver

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// MaxColumnCount defines the maximum number of columns allowed in a table
// (SQLITE_MAX_COLUMN default)
const MaxColumnCount = 2000

// reservedPrefix marks object names SQLite keeps for internal use
const reservedPrefix = "sqlite_"

// ErrInvalidPath is returned when a path is empty or contains a NUL byte
var ErrInvalidPath = errors.New("sheetimport driver: invalid path")

// ValidatePath rejects empty paths and paths with NUL bytes
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	if strings.Contains(path, "\x00") {
		return ErrInvalidPath
	}
	return nil
}

// CheckDestination verifies that path names an existing regular file.
func CheckDestination(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDestinationNotFound, path)
		}
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrDestinationNotFile, path)
	}
	return nil
}

// ValidateIdentifier checks that name is usable as a table or column name:
// non-empty, made of letters, digits and underscores, and outside the
// "sqlite_" namespace.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidIdentifier)
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidIdentifier, name, r)
		}
	}
	if IsReserved(name) {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateColumnCount checks if the number of columns is within acceptable limits
func ValidateColumnCount(columnCount int) error {
	if columnCount > MaxColumnCount {
		return fmt.Errorf("%w: %d > %d", ErrTooManyColumns, columnCount, MaxColumnCount)
	}
	return nil
}

// QuoteIdent quotes an identifier for use in SQL text.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteIdents quotes each name and joins them with ", ".
func QuoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
