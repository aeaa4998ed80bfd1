package sheetimport

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/sheetimport/domain/model"
)

// xlsxWorkbook reads worksheets from an Excel file on demand
type xlsxWorkbook struct {
	file     *excelize.File
	date1904 bool
	// dateStyles caches whether a style index carries a date/time number format
	dateStyles map[int]bool
}

// openXLSXWorkbook opens an XLSX source. Compressed workbooks are
// decompressed into memory first because the ZIP container needs random access.
func openXLSXWorkbook(src source) (*xlsxWorkbook, error) {
	var (
		f   *excelize.File
		err error
	)
	if src.compression == CompressionNone {
		f, err = excelize.OpenFile(src.path)
	} else {
		var data []byte
		data, err = NewCompressionFactory().ReadAllFromFile(src.path)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New("empty XLSX file")
		}
		f, err = excelize.OpenReader(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}

	wb := &xlsxWorkbook{file: f, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

func (wb *xlsxWorkbook) SheetNames() []string {
	return wb.file.GetSheetList()
}

func (wb *xlsxWorkbook) Close() error {
	return wb.file.Close()
}

// ReadSheet reads one worksheet. The first non-empty row is the header;
// cells keep the type Excel stored them with.
func (wb *xlsxWorkbook) ReadSheet(name string) (*Sheet, error) {
	rows, err := wb.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return NewSheet(name, nil, nil), nil
	}

	header, err := wb.readHeader(name, headerIdx+1, len(rows[headerIdx]))
	if err != nil {
		return nil, err
	}

	records := make([][]any, 0, len(rows)-headerIdx-1)
	for r := headerIdx + 1; r < len(rows); r++ {
		record := make([]any, len(rows[r]))
		for c, raw := range rows[r] {
			v, err := wb.cellValue(name, c+1, r+1, raw)
			if err != nil {
				return nil, err
			}
			record[c] = v
		}
		records = append(records, record)
	}
	return NewSheet(name, header, records), nil
}

// readHeader returns the displayed text of the header row so that numeric
// or date headers read as the user sees them.
func (wb *xlsxWorkbook) readHeader(sheet string, row, width int) ([]string, error) {
	header := make([]string, width)
	for c := range width {
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return nil, err
		}
		v, err := wb.file.GetCellValue(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("failed to read header cell %s!%s: %w", sheet, cell, err)
		}
		header[c] = v
	}
	return header, nil
}

// cellValue decodes one stored cell value (1-based coordinates).
func (wb *xlsxWorkbook) cellValue(sheet string, col, row int, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	cellType, err := wb.file.GetCellType(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s!%s: %w", sheet, cell, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b, nil
		}
	case excelize.CellTypeDate:
		if t, ok := model.ParseDatetime(raw); ok {
			return t, nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return wb.numberValue(sheet, cell, f)
		}
	}
	return textValue(raw), nil
}

// numberValue turns a stored number into a time for date-formatted cells,
// an int64 for integral values and a float64 otherwise.
func (wb *xlsxWorkbook) numberValue(sheet, cell string, f float64) (any, error) {
	isDate, err := wb.isDateCell(sheet, cell)
	if err != nil {
		return nil, err
	}
	if isDate {
		if t, err := excelize.ExcelDateToTime(f, wb.date1904); err == nil {
			return t, nil
		}
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f), nil
	}
	return f, nil
}

func (wb *xlsxWorkbook) isDateCell(sheet, cell string) (bool, error) {
	idx, err := wb.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, fmt.Errorf("failed to read style of %s!%s: %w", sheet, cell, err)
	}
	if isDate, ok := wb.dateStyles[idx]; ok {
		return isDate, nil
	}

	isDate := false
	if style, err := wb.file.GetStyle(idx); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	wb.dateStyles[idx] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a number format renders dates or times.
func isDateNumFmt(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	return hasDateTokens(*custom)
}

// hasDateTokens looks for y, m, d, h or s outside quoted literals and
// bracketed sections such as [Red] or [$-409].
func hasDateTokens(format string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}

// textValue returns a text cell, or nil for a missing marker.
func textValue(raw string) any {
	if model.IsMissingMarker(strings.TrimSpace(raw)) {
		return nil
	}
	return raw
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
