package sheetimport

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nao1215/sheetimport/driver"
)

// newDestination creates an empty database file and returns its path
func newDestination(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dest.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

// openDestination creates an empty database file and opens it
func openDestination(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := newDestination(t)
	db, err := driver.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

// writeFile writes content to name inside a fresh temp dir
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// xlsxSheet describes one worksheet of a generated workbook
type xlsxSheet struct {
	name string
	rows [][]any
}

// writeXLSX builds a workbook with the given sheets. The default
// "Sheet1" is renamed to the first sheet.
func writeXLSX(t *testing.T, name string, sheets ...xlsxSheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(sheet.name, cell, &values))
		}
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// queryRows returns every row of query as a slice of values
func queryRows(t *testing.T, db *sql.DB, query string, args ...any) [][]any {
	t.Helper()

	rows, err := db.Query(query, args...)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)

	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		require.NoError(t, rows.Scan(ptrs...))
		out = append(out, values)
	}
	require.NoError(t, rows.Err())
	return out
}

// countRows returns the row count of table
func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+driver.QuoteIdent(table)).Scan(&n))
	return n
}

// mappingRows returns (original_name, short_name) pairs stored for table
func mappingRows(t *testing.T, db *sql.DB, table string) [][2]string {
	t.Helper()

	rows, err := db.Query(
		`SELECT original_name, short_name FROM "__column_map" WHERE table_name = ? ORDER BY rowid`, table)
	require.NoError(t, err)
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var pair [2]string
		require.NoError(t, rows.Scan(&pair[0], &pair[1]))
		out = append(out, pair)
	}
	require.NoError(t, rows.Err())
	return out
}
