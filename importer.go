package sheetimport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nao1215/sheetimport/domain/model"
	"github.com/nao1215/sheetimport/driver"
)

// reservedTablePrefix is prepended to sheet names that land in the
// "sqlite_" namespace
const reservedTablePrefix = "t_"

// SheetResult describes what happened to one sheet
type SheetResult struct {
	// SheetName is the sheet name as it appears in the source
	SheetName string
	// TableName is the destination table; empty when skipped
	TableName string
	// Rows is the number of rows written
	Rows int
	// Columns lists the destination columns in order
	Columns []Column
	// Skipped is true for sheets without a header row
	Skipped bool
}

// Mapping returns the ordered (original, short) name pairs of the sheet
func (r SheetResult) Mapping() model.NameMapping {
	m := make(model.NameMapping, len(r.Columns))
	for i, c := range r.Columns {
		m[i] = model.NamePair{Original: c.Original, Short: c.Name}
	}
	return m
}

// Report summarizes one import run
type Report struct {
	// RunID identifies the run in log output
	RunID string
	// MappingTable is the table holding the column mapping
	MappingTable string
	// Sheets holds one result per processed sheet, in workbook order
	Sheets []SheetResult
}

// TotalRows returns the number of rows written across all sheets
func (r *Report) TotalRows() int {
	total := 0
	for _, s := range r.Sheets {
		total += s.Rows
	}
	return total
}

// Importer copies sheets into a destination database, one table per sheet.
//
// An Importer represents one run: table names it hands out are unique
// across every sheet it imports. Each sheet is built and written inside its
// own transaction that is committed before the next sheet starts.
// The first failure rolls back the current sheet and stops the run; sheets
// committed earlier stay in place.
type Importer struct {
	db       *sql.DB
	cfg      Config
	logger   zerolog.Logger
	runID    string
	registry *model.TableNameRegistry
	builder  *tableBuilder
	writer   *rowWriter
	memLimit *MemoryLimit
	cfgErr   error
}

// ImporterOption configures an Importer
type ImporterOption func(*Importer)

// WithLogger sets the logger used for progress events. The default discards everything.
func WithLogger(logger zerolog.Logger) ImporterOption {
	return func(im *Importer) {
		im.logger = logger
	}
}

// NewImporter creates an Importer writing to db with cfg.
// An invalid cfg, such as the zero Config, is reported by Import and
// ImportSheet; build it with NewConfig or DefaultConfig.
func NewImporter(db *sql.DB, cfg Config, opts ...ImporterOption) *Importer {
	im := &Importer{
		db:       db,
		cfg:      cfg,
		logger:   zerolog.Nop(),
		runID:    uuid.NewString(),
		registry: model.NewTableNameRegistry(cfg.MappingTable()),
		builder:  newTableBuilder(cfg.MappingTable()),
		writer:   newRowWriter(cfg),
		memLimit: NewMemoryLimit(cfg.MemoryLimitMB()),
		cfgErr:   cfg.Validate(),
	}
	for _, opt := range opts {
		opt(im)
	}
	im.logger = im.logger.With().Str("run_id", im.runID).Logger()
	return im
}

// RunID returns the identifier attached to this run's log events
func (im *Importer) RunID() string {
	return im.runID
}

// Import processes every sheet of wb in workbook order.
// On error the returned report holds the sheets committed so far.
func (im *Importer) Import(ctx context.Context, wb Workbook) (*Report, error) {
	report := &Report{RunID: im.runID, MappingTable: im.cfg.MappingTable()}
	if im.cfgErr != nil {
		return report, im.cfgErr
	}

	names := wb.SheetNames()
	if len(names) == 0 {
		return report, ErrEmptyWorkbook
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		im.logger.Info().Str("sheet", name).Msg("processing sheet")
		sheet, err := wb.ReadSheet(name)
		if err != nil {
			return report, NewErrorContext("read", "").WithSheet(name).Error(err)
		}
		if err := im.checkMemory(name); err != nil {
			return report, err
		}

		result, err := im.ImportSheet(ctx, sheet)
		if err != nil {
			return report, err
		}
		report.Sheets = append(report.Sheets, result)
	}

	im.logger.Info().
		Int("sheets", len(report.Sheets)).
		Int("rows", report.TotalRows()).
		Str("mapping_table", report.MappingTable).
		Msg("all sheets exported")
	return report, nil
}

// ImportSheet builds the table for one sheet, records its column mapping
// and writes its rows, then commits. A sheet without columns is skipped.
func (im *Importer) ImportSheet(ctx context.Context, sheet *Sheet) (SheetResult, error) {
	result := SheetResult{SheetName: sheet.Name()}
	if im.cfgErr != nil {
		return result, im.cfgErr
	}
	if sheet.NumColumns() == 0 {
		im.logger.Warn().Str("sheet", sheet.Name()).Msg("sheet has no header row, skipped")
		result.Skipped = true
		return result, nil
	}

	table := im.resolveTableName(sheet.Name())
	columns := im.resolveColumns(sheet)
	errCtx := NewErrorContext("import", "").WithSheet(sheet.Name()).WithTable(table)

	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return result, errCtx.Error(fmt.Errorf("%w: %w", driver.ErrConnect, err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback() // Ignore rollback error; the original error is returned
		}
	}()

	if err := im.builder.build(ctx, tx, table, columns); err != nil {
		return result, errCtx.Error(err)
	}

	rows, err := im.writer.writeRows(ctx, tx, table, columns, sheet.Rows())
	if err != nil {
		return result, errCtx.Error(err)
	}

	if err := tx.Commit(); err != nil {
		return result, errCtx.Error(fmt.Errorf("%w: commit: %w", ErrWrite, err))
	}
	committed = true

	result.TableName = table
	result.Rows = rows
	result.Columns = columns
	im.logger.Info().
		Str("sheet", sheet.Name()).
		Str("table", table).
		Int("rows", rows).
		Int("columns", len(columns)).
		Bool("bulk", im.writer.SupportsBulk()).
		Msg("sheet exported")
	return result, nil
}

// checkMemory fails the run when the heap is over the limit after a sheet
// was materialized and collects garbage when it is close to it.
func (im *Importer) checkMemory(sheetName string) error {
	info := im.memLimit.Check()
	switch info.Status {
	case MemoryStatusExceeded:
		return info.Error("reading sheet " + sheetName)
	case MemoryStatusWarning:
		im.logger.Warn().
			Str("sheet", sheetName).
			Int64("heap_mb", info.CurrentMB).
			Int64("limit_mb", info.LimitMB).
			Msg("memory usage close to limit")
		runtime.GC()
	}
	return nil
}

// resolveTableName registers a unique table name for a sheet
func (im *Importer) resolveTableName(sheetName string) string {
	desired := model.SanitizeTableName(sheetName)
	if driver.IsReserved(desired) {
		desired = reservedTablePrefix + desired
	}
	return im.registry.Resolve(desired)
}

// resolveColumns names and types the columns of a sheet
func (im *Importer) resolveColumns(sheet *Sheet) []Column {
	mapping := model.ResolveColumns(sheet.Header(), im.cfg.NamingMode(), im.cfg.MaxColumnNameLength())
	types := model.InferColumnTypes(sheet.Columns())

	columns := make([]Column, len(mapping))
	for i, pair := range mapping {
		columns[i] = Column{Original: pair.Original, Name: pair.Short, Type: types[i]}
	}
	return columns
}

// IsPreconditionError reports whether err is a missing source or destination
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrSourceNotFound) || errors.Is(err, driver.ErrDestinationNotFound)
}
