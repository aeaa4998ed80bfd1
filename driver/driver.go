package driver

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// DriverName is the database/sql driver used for destinations
const DriverName = "sqlite"

// uriEscaper escapes characters that carry meaning in a SQLite URI filename
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// DSN builds the connection string for an existing database file.
// mode=rw makes SQLite fail instead of creating a missing file.
func DSN(path string) string {
	p := filepath.ToSlash(path)
	if vol := filepath.VolumeName(path); vol != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file:" + uriEscaper.Replace(p) + "?mode=rw"
}

// Open connects to the destination database at path.
//
// The file must already exist. The pool is limited to a single connection
// because one import run owns the destination exclusively. The schema
// catalog is read once so that corrupt, locked or non-database files fail
// here instead of in the middle of a sheet.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := CheckDestination(path); err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	db.SetMaxOpenConns(1)

	if err := probe(ctx, db); err != nil {
		_ = db.Close() // Ignore close error since we're already returning an error
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return db, nil
}

func probe(ctx context.Context, db *sql.DB) error {
	var n int
	return db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master`).Scan(&n)
}

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TableExists reports whether a table named name exists. The lookup is
// case-insensitive like SQLite's own name resolution.
func TableExists(ctx context.Context, q Queryer, name string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=? COLLATE NOCASE`,
		name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return count > 0, nil
}

// IsReserved reports whether name falls in SQLite's internal namespace.
func IsReserved(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), reservedPrefix)
}
