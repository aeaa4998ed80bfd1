package sheetimport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nao1215/sheetimport/domain/model"
	"github.com/nao1215/sheetimport/driver"
)

// Column is one destination column
type Column struct {
	// Original is the header text as read from the sheet
	Original string
	// Name is the resolved destination identifier
	Name string
	// Type is the inferred storage type
	Type model.ColumnType
}

// columnNames returns the destination identifiers in order
func columnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// txExecer is the part of *sql.Tx used by the builder and the writer
type txExecer interface {
	driver.Queryer
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// tableBuilder drops and recreates destination tables and maintains the
// column mapping table. It never commits or rolls back.
type tableBuilder struct {
	mappingTable string
}

func newTableBuilder(mappingTable string) *tableBuilder {
	return &tableBuilder{mappingTable: mappingTable}
}

// build replaces table with a fresh one holding columns, then refreshes
// the mapping rows for table.
func (b *tableBuilder) build(ctx context.Context, tx txExecer, table string, columns []Column) error {
	if err := b.dropIfExists(ctx, tx, table); err != nil {
		return err
	}
	if err := b.createTable(ctx, tx, table, columns); err != nil {
		return err
	}
	if err := b.ensureMappingTable(ctx, tx); err != nil {
		return err
	}
	return b.replaceMapping(ctx, tx, table, columns)
}

func (b *tableBuilder) dropIfExists(ctx context.Context, tx txExecer, table string) error {
	exists, err := driver.TableExists(ctx, tx, table)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if !exists {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE "+driver.QuoteIdent(table)); err != nil {
		return fmt.Errorf("%w: drop table %s: %w", ErrSchema, table, err)
	}
	return nil
}

func (b *tableBuilder) createTable(ctx context.Context, tx txExecer, table string, columns []Column) error {
	if err := driver.ValidateColumnCount(len(columns)); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}

	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("%s %s", driver.QuoteIdent(col.Name), col.Type.SQL()))
	}

	query := fmt.Sprintf(
		`CREATE TABLE %s (%s)`,
		driver.QuoteIdent(table),
		strings.Join(defs, ", "),
	)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: create table %s: %w", ErrSchema, table, err)
	}
	return nil
}

// ensureMappingTable creates the mapping table on first use.
func (b *tableBuilder) ensureMappingTable(ctx context.Context, tx txExecer) error {
	exists, err := driver.TableExists(ctx, tx, b.mappingTable)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if exists {
		return nil
	}

	query := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (table_name VARCHAR(64), original_name TEXT, short_name VARCHAR(64))`,
		driver.QuoteIdent(b.mappingTable),
	)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: create mapping table %s: %w", ErrSchema, b.mappingTable, err)
	}
	return nil
}

// replaceMapping deletes the stored mapping of table and inserts one row per column.
// Rows are matched case-insensitively, like the table names they describe.
func (b *tableBuilder) replaceMapping(ctx context.Context, tx txExecer, table string, columns []Column) error {
	mt := driver.QuoteIdent(b.mappingTable)
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+mt+` WHERE table_name = ? COLLATE NOCASE`, table); err != nil {
		return fmt.Errorf("%w: clear mapping of %s: %w", ErrSchema, table, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+mt+` (table_name, original_name, short_name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare mapping insert: %w", ErrSchema, err)
	}
	defer func() {
		_ = stmt.Close() // Ignore close error
	}()

	for _, col := range columns {
		if _, err := stmt.ExecContext(ctx, table, col.Original, col.Name); err != nil {
			return fmt.Errorf("%w: insert mapping %s.%s: %w", ErrSchema, table, col.Name, err)
		}
	}
	return nil
}
