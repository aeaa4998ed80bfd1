package sheetimport

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	"github.com/nao1215/sheetimport/domain/model"
	"github.com/nao1215/sheetimport/driver"
)

// maxBindVariables is SQLITE_MAX_VARIABLE_NUMBER for SQLite 3.32+
const maxBindVariables = 32766

// batchInserter submits one batch of already coerced rows
type batchInserter interface {
	insertBatch(ctx context.Context, rows [][]any) error
	close() error
}

// rowWriter streams rows into a table in fixed-size batches
type rowWriter struct {
	batchSize int
	bulk      bool
}

func newRowWriter(cfg Config) *rowWriter {
	return &rowWriter{batchSize: cfg.BatchSize(), bulk: cfg.BulkInsert()}
}

// SupportsBulk reports whether the multi-row INSERT path is used
func (w *rowWriter) SupportsBulk() bool {
	return w.bulk
}

// writeRows inserts rows in order and returns how many were written.
// The final partial batch is flushed after rows is exhausted.
func (w *rowWriter) writeRows(ctx context.Context, tx txExecer, table string, columns []Column, rows iter.Seq[[]any]) (int, error) {
	inserter, err := w.newInserter(ctx, tx, table, columns)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = inserter.close() // Ignore close error
	}()

	var (
		batch   = make([][]any, 0, w.batchSize)
		written int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := inserter.insertBatch(ctx, batch); err != nil {
			return fmt.Errorf("%w: table %s after %d rows: %w", ErrWrite, table, written, err)
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	for row := range rows {
		batch = append(batch, coerceRow(row, columns))
		if len(batch) == w.batchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}

func (w *rowWriter) newInserter(ctx context.Context, tx txExecer, table string, columns []Column) (batchInserter, error) {
	if w.bulk {
		perStmt := max(1, min(w.batchSize, maxBindVariables/max(1, len(columns))))
		return &bulkInserter{tx: tx, table: table, columns: columns, rowsPerStmt: perStmt, stmts: make(map[int]*sql.Stmt)}, nil
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery(table, columns, 1))
	if err != nil {
		return nil, fmt.Errorf("%w: prepare insert into %s: %w", ErrWrite, table, err)
	}
	return &singleRowInserter{stmt: stmt}, nil
}

// coerceRow fits row to the column count and converts each value to the
// representation of its column type.
func coerceRow(row []any, columns []Column) []any {
	out := make([]any, len(columns))
	for i, col := range columns {
		if i < len(row) {
			out[i] = model.CoerceValue(row[i], col.Type)
		}
	}
	return out
}

// insertQuery builds an INSERT with n value tuples.
func insertQuery(table string, columns []Column, n int) string {
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	tuples := make([]string, n)
	for i := range tuples {
		tuples[i] = tuple
	}
	return fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES %s`,
		driver.QuoteIdent(table),
		driver.QuoteIdents(columnNames(columns)),
		strings.Join(tuples, ", "),
	)
}

// singleRowInserter executes one prepared single-row INSERT per row.
type singleRowInserter struct {
	stmt *sql.Stmt
}

func (s *singleRowInserter) insertBatch(ctx context.Context, rows [][]any) error {
	for _, row := range rows {
		if _, err := s.stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return nil
}

func (s *singleRowInserter) close() error {
	return s.stmt.Close()
}

// bulkInserter sends a batch as multi-row INSERT statements. Statements
// are prepared once per tuple count: one for full batches and one for the
// trailing partial batch.
type bulkInserter struct {
	tx          txExecer
	table       string
	columns     []Column
	rowsPerStmt int
	stmts       map[int]*sql.Stmt
}

func (b *bulkInserter) insertBatch(ctx context.Context, rows [][]any) error {
	for start := 0; start < len(rows); start += b.rowsPerStmt {
		chunk := rows[start:min(start+b.rowsPerStmt, len(rows))]

		stmt, err := b.stmt(ctx, len(chunk))
		if err != nil {
			return err
		}

		args := make([]any, 0, len(chunk)*len(b.columns))
		for _, row := range chunk {
			args = append(args, row...)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert %d records: %w", len(chunk), err)
		}
	}
	return nil
}

func (b *bulkInserter) stmt(ctx context.Context, n int) (*sql.Stmt, error) {
	if stmt, ok := b.stmts[n]; ok {
		return stmt, nil
	}
	stmt, err := b.tx.PrepareContext(ctx, insertQuery(b.table, b.columns, n))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert of %d records: %w", n, err)
	}
	b.stmts[n] = stmt
	return stmt, nil
}

func (b *bulkInserter) close() error {
	var firstErr error
	for _, stmt := range b.stmts {
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
