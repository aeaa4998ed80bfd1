package driver

import "errors"

// Predefined errors
var (
	// ErrDestinationNotFound is returned when the destination database file does not exist
	ErrDestinationNotFound = errors.New("sheetimport driver: destination database not found")

	// ErrDestinationNotFile is returned when the destination path is a directory or device
	ErrDestinationNotFile = errors.New("sheetimport driver: destination is not a regular file")

	// ErrConnect is returned when the destination cannot be opened or is not a usable database
	ErrConnect = errors.New("sheetimport driver: cannot connect to destination database")

	// ErrInvalidIdentifier is returned when an SQL identifier is invalid
	ErrInvalidIdentifier = errors.New("sheetimport driver: invalid SQL identifier")

	// ErrTooManyColumns is returned when a table has more columns than SQLite accepts
	ErrTooManyColumns = errors.New("sheetimport driver: too many columns")
)
