package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/nao1215/sheetimport"
	"github.com/nao1215/sheetimport/driver"
)

// printError reports a failed run in red, followed by remediation hints.
func printError(w io.Writer, err error) {
	errorColor := color.New(color.FgRed, color.Bold)
	_, _ = errorColor.Fprintf(w, "Error: %v\n", err)
	for _, line := range hints(err) {
		_, _ = fmt.Fprintln(w, line)
	}
}

// hints returns what the operator can do about err.
func hints(err error) []string {
	switch {
	case errors.Is(err, sheetimport.ErrUsage):
		return []string{
			"Usage: sheetimport <source> <destination> [flags]",
			"Run 'sheetimport --help' for details.",
		}
	case errors.Is(err, sheetimport.ErrSourceNotFound):
		return []string{"Check that the source path is correct and points to a file."}
	case errors.Is(err, sheetimport.ErrUnsupportedFormat):
		return []string{
			"Supported sources: .xlsx, .csv, .tsv, .ltsv and .parquet,",
			"optionally compressed with .gz, .bz2, .xz or .zst.",
		}
	case errors.Is(err, driver.ErrDestinationNotFound), errors.Is(err, driver.ErrDestinationNotFile):
		return []string{
			"The destination database is never created by sheetimport. Create an empty one first:",
			`  1. sqlite3 <destination> "VACUUM;"`,
			"     or create a zero-byte file: touch <destination>",
			"  2. Run the import again with the same destination path.",
		}
	case errors.Is(err, driver.ErrConnect):
		return []string{
			"Possible causes:",
			"  - the file is corrupted or is not an SQLite database",
			"  - the database is open and locked by another program",
			"  - the file or its directory is not writable",
		}
	case errors.Is(err, sheetimport.ErrMemoryLimit):
		return []string{"Raise --memory-limit or split the workbook into smaller files."}
	case errors.Is(err, sheetimport.ErrInvalidConfig):
		return []string{"Check the flags, SHEETIMPORT_* environment variables and config file."}
	default:
		return nil
	}
}
