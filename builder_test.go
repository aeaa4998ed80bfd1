package sheetimport

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sheetimport/driver"
)

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	source := writeFile(t, "data.csv", "a\n1\n")

	tests := []struct {
		name    string
		builder func(t *testing.T) *Builder
		wantErr error
	}{
		{
			name:    "missing source argument",
			builder: func(t *testing.T) *Builder { return NewBuilder().SetDestination(newDestination(t)) },
			wantErr: ErrUsage,
		},
		{
			name:    "missing destination argument",
			builder: func(t *testing.T) *Builder { return NewBuilder().SetSource(source) },
			wantErr: ErrUsage,
		},
		{
			name: "source not found",
			builder: func(t *testing.T) *Builder {
				return NewBuilder().
					SetSource(filepath.Join(t.TempDir(), "missing.xlsx")).
					SetDestination(newDestination(t))
			},
			wantErr: ErrSourceNotFound,
		},
		{
			name: "destination not found",
			builder: func(t *testing.T) *Builder {
				return NewBuilder().
					SetSource(source).
					SetDestination(filepath.Join(t.TempDir(), "missing.db"))
			},
			wantErr: driver.ErrDestinationNotFound,
		},
		{
			name: "destination is a directory",
			builder: func(t *testing.T) *Builder {
				return NewBuilder().SetSource(source).SetDestination(t.TempDir())
			},
			wantErr: driver.ErrDestinationNotFile,
		},
		{
			name: "invalid option",
			builder: func(t *testing.T) *Builder {
				return NewBuilder().
					SetSource(source).
					SetDestination(newDestination(t)).
					WithOptions(WithBatchSize(0))
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "unsupported source",
			builder: func(t *testing.T) *Builder {
				return NewBuilder().
					SetSource(writeFile(t, "book.xls", "legacy")).
					SetDestination(newDestination(t))
			},
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.builder(t).Build(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuilder_BuildDoesNotTouchDestination(t *testing.T) {
	t.Parallel()

	dest := newDestination(t)
	b, err := NewBuilder().
		SetSource(writeFile(t, "data.csv", "a\n1\n")).
		SetDestination(dest).
		WithOptions(WithBatchSize(10), WithBulkInsert(true)).
		Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, b.Config().BatchSize())
	assert.True(t, b.Config().BulkInsert())

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestBuilder_RunRequiresBuild(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder().Run(context.Background())
	require.Error(t, err)
}

func TestBuilder_SourceFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"fixtures/inventory.csv": &fstest.MapFile{Data: []byte("sku,qty\nA-1,5\nB-2,7\n")},
	}

	t.Run("imports the file under its base name", func(t *testing.T) {
		t.Parallel()

		db, dest := openDestination(t)
		b, err := NewBuilder().
			SetSourceFS(fsys, "fixtures/inventory.csv").
			SetDestination(dest).
			Build(context.Background())
		require.NoError(t, err)
		defer func() { require.NoError(t, b.Cleanup()) }()

		report, err := b.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Sheets, 1)
		assert.Equal(t, "inventory", report.Sheets[0].TableName)
		assert.Equal(t, 2, countRows(t, db, "inventory"))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewBuilder().
			SetSourceFS(fsys, "fixtures/missing.csv").
			SetDestination(newDestination(t)).
			Build(context.Background())
		require.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := NewBuilder().
			SetSourceFS(fsys, "").
			SetDestination(newDestination(t)).
			Build(context.Background())
		require.ErrorIs(t, err, ErrUsage)
	})
}

func TestBuilder_Cleanup(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder().
		SetSourceFS(fstest.MapFS{"a.csv": &fstest.MapFile{Data: []byte("x\n1\n")}}, "a.csv").
		SetDestination(newDestination(t)).
		Build(context.Background())
	require.NoError(t, err)

	require.Len(t, b.tempDirs, 1)
	dir := b.tempDirs[0]
	require.NoError(t, b.Cleanup())
	require.NoError(t, b.Cleanup(), "cleanup is safe to repeat")

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestBuilder_RunLogsStart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b, err := NewBuilder().
		SetSource(writeFile(t, "data.csv", "a\n1\n")).
		SetDestination(newDestination(t)).
		WithLogger(zerolog.New(&buf)).
		Build(context.Background())
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"starting import"`)
	assert.Contains(t, buf.String(), `"message":"all sheets exported"`)
}

func TestBuilder_RunRejectsNonDatabase(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder().
		SetSource(writeFile(t, "data.csv", "a\n1\n")).
		SetDestination(writeFile(t, "notes.db", "this is not a database file, just some text that is long enough")).
		Build(context.Background())
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.ErrorIs(t, err, driver.ErrConnect)
}
