package sheetimport

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sheetimport/domain/model"
)

var writerColumns = []Column{
	{Original: "id", Name: "id", Type: model.ColumnTypeInteger},
	{Original: "label", Name: "label", Type: model.ColumnTypeText},
	{Original: "ratio", Name: "ratio", Type: model.ColumnTypeReal},
}

// writerRows returns n rows matching writerColumns
func writerRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		var label any = fmt.Sprintf("row %d", i)
		if i%7 == 0 {
			label = nil
		}
		rows[i] = []any{int64(i), label, int64(i) * 2}
	}
	return rows
}

// writeInTx builds the writer table and writes rows in one transaction
func writeInTx(t *testing.T, db *sql.DB, cfg Config, table string, rows [][]any) (int, error) {
	t.Helper()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, newTableBuilder(cfg.MappingTable()).build(ctx, tx, table, writerColumns))
	n, err := newRowWriter(cfg).writeRows(ctx, tx, table, writerColumns, slices.Values(rows))
	if err != nil {
		_ = tx.Rollback()
		return n, err
	}
	require.NoError(t, tx.Commit())
	return n, nil
}

func TestRowWriter_BatchSizesProduceSameContent(t *testing.T) {
	t.Parallel()

	rows := writerRows(1001)

	tests := []struct {
		name string
		opts []ConfigOption
	}{
		{name: "batch 1", opts: []ConfigOption{WithBatchSize(1)}},
		{name: "default batch", opts: nil},
		{name: "batch 7 bulk", opts: []ConfigOption{WithBatchSize(7), WithBulkInsert(true)}},
		{name: "default batch bulk", opts: []ConfigOption{WithBulkInsert(true)}},
		{name: "batch larger than input", opts: []ConfigOption{WithBatchSize(5000), WithBulkInsert(true)}},
	}

	var want [][]any
	for _, tt := range tests {
		db, _ := openDestination(t)
		cfg, err := NewConfig(tt.opts...)
		require.NoError(t, err)

		n, err := writeInTx(t, db, cfg, "Data", rows)
		require.NoError(t, err, tt.name)
		assert.Equal(t, len(rows), n, tt.name)

		got := queryRows(t, db, `SELECT id, label, ratio FROM "Data" ORDER BY rowid`)
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, tt.name)
	}

	require.Len(t, want, 1001)
	assert.Equal(t, []any{int64(1), "row 1", 2.0}, want[1], "real columns receive floats")
	assert.Nil(t, want[0][1])
}

func TestRowWriter_EmptyInput(t *testing.T) {
	t.Parallel()

	for _, bulk := range []bool{false, true} {
		db, _ := openDestination(t)
		cfg, err := NewConfig(WithBulkInsert(bulk))
		require.NoError(t, err)

		n, err := writeInTx(t, db, cfg, "Empty", nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, countRows(t, db, "Empty"))
	}
}

func TestRowWriter_MissingTable(t *testing.T) {
	t.Parallel()

	for _, bulk := range []bool{false, true} {
		t.Run(fmt.Sprintf("bulk=%v", bulk), func(t *testing.T) {
			t.Parallel()

			db, _ := openDestination(t)
			ctx := context.Background()
			tx, err := db.BeginTx(ctx, nil)
			require.NoError(t, err)
			defer func() { _ = tx.Rollback() }()

			w := &rowWriter{batchSize: 2, bulk: bulk}
			n, err := w.writeRows(ctx, tx, "missing", writerColumns, slices.Values(writerRows(3)))
			require.ErrorIs(t, err, ErrWrite)
			assert.Zero(t, n)
		})
	}
}

func TestCoerceRow(t *testing.T) {
	t.Parallel()

	got := coerceRow([]any{int64(5), int64(6)}, writerColumns)
	assert.Equal(t, []any{int64(5), "6", nil}, got, "short rows are padded and text columns get text")

	got = coerceRow([]any{int64(1), "a", int64(3), "extra"}, writerColumns)
	assert.Equal(t, []any{int64(1), "a", 3.0}, got)
}

func TestInsertQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`INSERT INTO "T" ("id", "label", "ratio") VALUES (?, ?, ?)`,
		insertQuery("T", writerColumns, 1))
	assert.Equal(t,
		`INSERT INTO "T" ("id", "label", "ratio") VALUES (?, ?, ?), (?, ?, ?)`,
		insertQuery("T", writerColumns, 2))
}

func TestNewRowWriter(t *testing.T) {
	t.Parallel()

	w := newRowWriter(DefaultConfig())
	assert.Equal(t, DefaultBatchSize, w.batchSize)
	assert.False(t, w.SupportsBulk())

	cfg, err := NewConfig(WithBulkInsert(true))
	require.NoError(t, err)
	assert.True(t, newRowWriter(cfg).SupportsBulk())
}
