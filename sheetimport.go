package sheetimport

import (
	"context"
)

// Import copies every sheet of the workbook at source into the existing
// database file at destination, one table per sheet.
//
// Supported sources:
//   - Excel workbooks (.xlsx): one table per worksheet
//   - CSV, TSV, LTSV and Parquet files: a single table named after the file
//   - Compressed versions of the above (.gz, .bz2, .xz, .zst)
//
// Destination tables are dropped and recreated on every run. Column names
// are sanitized and shortened; the shared mapping table (default
// "__column_map") records the original header of every column.
//
// Example usage:
//
//	report, err := sheetimport.Import(ctx, "sales.xlsx", "sales.db",
//		sheetimport.WithBatchSize(500))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, s := range report.Sheets {
//		fmt.Printf("%s -> %s (%d rows)\n", s.SheetName, s.TableName, s.Rows)
//	}
func Import(ctx context.Context, source, destination string, opts ...ConfigOption) (*Report, error) {
	builder, err := NewBuilder().
		SetSource(source).
		SetDestination(destination).
		WithOptions(opts...).
		Build(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = builder.Cleanup() // Nothing to clean for path sources
	}()

	return builder.Run(ctx)
}
