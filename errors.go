package sheetimport

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error messages and error creation functions for consistency
var (
	// ErrUsage indicates that required arguments are missing
	ErrUsage = errors.New("sheetimport: missing source or destination argument")

	// ErrSourceNotFound indicates that the source workbook does not exist
	ErrSourceNotFound = errors.New("sheetimport: source file not found")

	// ErrUnsupportedFormat indicates an unsupported source file format
	ErrUnsupportedFormat = errors.New("sheetimport: unsupported file format")

	// ErrEmptyWorkbook indicates that the source contains no sheets
	ErrEmptyWorkbook = errors.New("sheetimport: workbook contains no sheets")

	// ErrInvalidConfig indicates a configuration value out of range
	ErrInvalidConfig = errors.New("sheetimport: invalid configuration")

	// ErrSchema indicates a DDL or mapping-table failure while building a table
	ErrSchema = errors.New("sheetimport: schema operation failed")

	// ErrWrite indicates a failure while inserting rows
	ErrWrite = errors.New("sheetimport: row insert failed")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	SheetName string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithSheet adds sheet context to the error
func (ec *ErrorContext) WithSheet(sheetName string) *ErrorContext {
	ec.SheetName = sheetName
	return ec
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("sheetimport: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.SheetName != "" {
		parts = append(parts, "sheet: "+ec.SheetName)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
