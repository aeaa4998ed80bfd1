package sheetimport

import (
	"fmt"
	"iter"

	"github.com/nao1215/sheetimport/domain/model"
)

// Sheet is one named tabular dataset: a raw header row and data rows of
// native values (nil, int64, float64, bool, time.Time, string).
//
// A sheet is fully materialized so that every column's type can be decided
// before the first row is written. This costs memory proportional to the
// sheet; workbooks are read one sheet at a time to bound it.
type Sheet struct {
	name    string
	header  []string
	records [][]any
}

// NewSheet creates a sheet and normalizes its shape: the header is widened
// with empty names to the widest row, short rows are padded with missing
// values, and rows where every cell is missing are dropped.
func NewSheet(name string, header []string, records [][]any) *Sheet {
	width := len(header)
	for _, r := range records {
		width = max(width, len(r))
	}

	h := make([]string, width)
	copy(h, header)

	kept := make([][]any, 0, len(records))
	for _, r := range records {
		row := make([]any, width)
		empty := true
		for i, v := range r {
			v = model.NormalizeValue(v)
			row[i] = v
			if v != nil {
				empty = false
			}
		}
		if empty {
			continue
		}
		kept = append(kept, row)
	}

	return &Sheet{name: name, header: h, records: kept}
}

// Name returns the sheet name as it appears in the source
func (s *Sheet) Name() string {
	return s.name
}

// Header returns the raw header names
func (s *Sheet) Header() []string {
	return s.header
}

// NumColumns returns the number of columns
func (s *Sheet) NumColumns() int {
	return len(s.header)
}

// NumRows returns the number of data rows
func (s *Sheet) NumRows() int {
	return len(s.records)
}

// Column returns every value of column i in row order.
func (s *Sheet) Column(i int) []any {
	col := make([]any, len(s.records))
	for r, row := range s.records {
		col[r] = row[i]
	}
	return col
}

// Columns returns all columns in order.
func (s *Sheet) Columns() [][]any {
	cols := make([][]any, len(s.header))
	for i := range s.header {
		cols[i] = s.Column(i)
	}
	return cols
}

// Rows yields the data rows in order. Each yielded slice is a fresh copy.
func (s *Sheet) Rows() iter.Seq[[]any] {
	return func(yield func([]any) bool) {
		for _, r := range s.records {
			row := make([]any, len(r))
			copy(row, r)
			if !yield(row) {
				return
			}
		}
	}
}

// Workbook is a source of sheets. Sheets are read one at a time in the
// order reported by SheetNames.
type Workbook interface {
	// SheetNames returns the sheet names in workbook order
	SheetNames() []string
	// ReadSheet materializes the named sheet
	ReadSheet(name string) (*Sheet, error)
	// Close releases resources held by the workbook
	Close() error
}

// memoryWorkbook is a Workbook over sheets already in memory
type memoryWorkbook struct {
	names  []string
	sheets map[string]*Sheet
}

// NewWorkbook returns a Workbook serving the given sheets in order.
// Later sheets with an already used name replace earlier ones.
func NewWorkbook(sheets ...*Sheet) Workbook {
	wb := &memoryWorkbook{sheets: make(map[string]*Sheet, len(sheets))}
	for _, s := range sheets {
		if _, exists := wb.sheets[s.Name()]; !exists {
			wb.names = append(wb.names, s.Name())
		}
		wb.sheets[s.Name()] = s
	}
	return wb
}

func (wb *memoryWorkbook) SheetNames() []string {
	return wb.names
}

func (wb *memoryWorkbook) ReadSheet(name string) (*Sheet, error) {
	s, ok := wb.sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return s, nil
}

func (wb *memoryWorkbook) Close() error {
	return nil
}
