// Package sheetimport copies every worksheet of a spreadsheet into an
// existing SQLite database file, one table per sheet.
//
// Each run drops and recreates the destination tables, so re-importing the
// same workbook replaces earlier data instead of appending to it. Header
// cells become sanitized, length-bounded and collision-free column names;
// the original header text of every column is kept in a shared mapping
// table (default "__column_map") with one row per column per table.
//
// # Features
//
//   - Excel workbooks (.xlsx) with one table per worksheet
//   - CSV, TSV, LTSV and Parquet files imported as a single sheet
//   - Compressed sources (gzip, bzip2, xz, zstandard)
//   - Column types inferred from all values of a column
//   - One transaction per sheet; the first failure stops the run
//   - Configurable name length, naming mode, batch size and bulk inserts
//
// # Basic Usage
//
// The destination database must already exist. A zero-byte file is a
// valid empty database:
//
//	report, err := sheetimport.Import(ctx, "sales.xlsx", "sales.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d rows imported\n", report.TotalRows())
//
// # Advanced Usage
//
// The Builder validates every precondition before the destination is
// opened, and accepts sources stored in an fs.FS:
//
//	builder, err := sheetimport.NewBuilder().
//	    SetSourceFS(embeddedFiles, "data/sales.xlsx").
//	    SetDestination("sales.db").
//	    WithOptions(
//	        sheetimport.WithMaxColumnNameLength(20),
//	        sheetimport.WithBatchSize(1000),
//	    ).
//	    WithLogger(logger).
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer builder.Cleanup()
//
//	report, err := builder.Run(ctx)
//
// Callers that already hold a *sql.DB and a Workbook can drive an Importer
// directly:
//
//	report, err := sheetimport.NewImporter(db, cfg).Import(ctx, workbook)
//
// # Column Names
//
// In the default short mode, header text is trimmed, runs of characters
// other than letters, digits and underscore become one underscore, and a
// leading digit gets a "c_" prefix. Names are cut to the configured maximum
// length (default 30). Later duplicates receive "_2", "_3", ... with the
// base shortened so the whole name still fits. Comparison ignores ASCII
// case, as SQLite does.
//
// In letters mode columns are named A, B, ..., Z, AA, AB, ... by position.
//
// # Column Types
//
//   - INTEGER when every present value is an integer
//   - REAL when values are integers and floats
//   - BOOLEAN when every present value is a boolean
//   - DATETIME when every present value is a date or time
//   - VARCHAR(255) for other columns whose longest value fits, TEXT otherwise
//
// Empty cells and common markers such as "NA", "N/A" and "NULL" are stored
// as NULL and take no part in the decision.
package sheetimport
