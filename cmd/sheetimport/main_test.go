package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sheetimport"
	"github.com/nao1215/sheetimport/driver"
)

// fixture writes a CSV source and an empty destination into a temp dir
func fixture(t *testing.T) (source, destination string) {
	t.Helper()

	dir := t.TempDir()
	source = filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(source, []byte("Order ID,Customer Name,Amount\n1,Ann,9.5\n2,Ben,12\n"), 0o600))
	destination = filepath.Join(dir, "orders.db")
	require.NoError(t, os.WriteFile(destination, nil, 0o600))
	return source, destination
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := driver.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func shortNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query(`SELECT short_name FROM "__column_map" WHERE table_name = ? ORDER BY rowid`, table)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	source, destination := fixture(t)
	code, stdout, stderr := execute(t, "--log-format", "json", source, destination)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Sheet 'orders' exported -> Table [orders] (2 rows)")
	assert.Contains(t, stdout, "All sheets successfully exported!")
	assert.Contains(t, stdout, "Column mapping saved in table [__column_map] (per table).")
	assert.Contains(t, stderr, `"message":"sheet exported"`)

	db := openDB(t, destination)
	assert.Equal(t, []string{"Order_ID", "Customer_Name", "Amount"}, shortNames(t, db, "orders"))
}

func TestRun_Flags(t *testing.T) {
	t.Parallel()

	source, destination := fixture(t)
	code, _, stderr := execute(t,
		"--naming", "letters",
		"--batch-size", "1",
		"--bulk-insert",
		"--log-level", "disabled",
		source, destination,
	)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)

	db := openDB(t, destination)
	assert.Equal(t, []string{"A", "B", "C"}, shortNames(t, db, "orders"))
}

func TestRun_ConfigFile(t *testing.T) {
	t.Parallel()

	source, destination := fixture(t)
	config := filepath.Join(t.TempDir(), "sheetimport.yaml")
	require.NoError(t, os.WriteFile(config, []byte("max-column-length: 6\nlog-level: warn\n"), 0o600))

	code, _, stderr := execute(t, "--config", config, source, destination)
	require.Equal(t, 0, code, stderr)

	db := openDB(t, destination)
	assert.Equal(t, []string{"Order_", "Custom", "Amount"}, shortNames(t, db, "orders"))
}

func TestRun_Environment(t *testing.T) {
	t.Setenv("SHEETIMPORT_NAMING", "letters")
	t.Setenv("SHEETIMPORT_LOG_LEVEL", "error")

	source, destination := fixture(t)
	code, _, stderr := execute(t, source, destination)
	require.Equal(t, 0, code, stderr)

	db := openDB(t, destination)
	assert.Equal(t, []string{"A", "B", "C"}, shortNames(t, db, "orders"))
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	source, destination := fixture(t)
	missingDB := filepath.Join(t.TempDir(), "missing.db")
	notDB := filepath.Join(t.TempDir(), "notes.db")
	require.NoError(t, os.WriteFile(notDB, []byte("this file only holds some plain text, nothing else"), 0o600))

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "no arguments",
			args: nil,
			want: []string{"Error:", "Usage: sheetimport <source> <destination>"},
		},
		{
			name: "one argument",
			args: []string{source},
			want: []string{"got 1 argument(s)"},
		},
		{
			name: "missing source",
			args: []string{filepath.Join(t.TempDir(), "missing.xlsx"), destination},
			want: []string{"source file not found", "Check that the source path"},
		},
		{
			name: "missing destination",
			args: []string{source, missingDB},
			want: []string{"destination database not found", `sqlite3 <destination> "VACUUM;"`},
		},
		{
			name: "destination is not a database",
			args: []string{source, notDB},
			want: []string{"cannot connect", "Possible causes:", "locked by another program"},
		},
		{
			name: "invalid naming mode",
			args: []string{"--naming", "random", source, destination},
			want: []string{"unknown naming mode", "SHEETIMPORT_*"},
		},
		{
			name: "invalid log format",
			args: []string{"--log-format", "xml", source, destination},
			want: []string{"unknown log format"},
		},
		{
			name: "batch size out of range",
			args: []string{"--batch-size", "0", source, destination},
			want: []string{"batch size must be positive"},
		},
		{
			name: "missing config file",
			args: []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), source, destination},
			want: []string{"config file"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			for _, want := range tt.want {
				assert.Contains(t, stderr, want)
			}
		})
	}

	_, err := os.Stat(missingDB)
	assert.True(t, os.IsNotExist(err), "the destination is never created")
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	code, stdout, _ := execute(t, "version")
	require.Equal(t, 0, code)
	assert.Equal(t, fmt.Sprintf("sheetimport %s (%s)\n", version, commit), stdout)
}

func TestHints(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, hints(sheetimport.ErrMemoryLimit))
	assert.NotEmpty(t, hints(fmt.Errorf("wrap: %w", driver.ErrDestinationNotFile)))
	assert.Nil(t, hints(sheetimport.ErrSchema))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", logFormatJSON)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	_, err = newLogger(&buf, "loud", logFormatJSON)
	require.ErrorIs(t, err, sheetimport.ErrInvalidConfig)
}
