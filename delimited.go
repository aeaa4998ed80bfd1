package sheetimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/nao1215/sheetimport/domain/model"
)

// utf8BOM is stripped from the first header cell
const utf8BOM = "\ufeff"

// readDelimited parses a CSV or TSV file. The first record is the header.
func readDelimited(src source, delimiter rune) (*Sheet, error) {
	reader, cleanup, err := NewCompressionFactory().CreateReaderForFile(src.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cleanup() // Ignore close error after a complete read
	}()

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1 // ragged rows are padded by NewSheet
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.fileType, err)
	}

	name := sheetNameFromFilePath(src.path)
	if len(records) == 0 {
		return NewSheet(name, nil, nil), nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return NewSheet(name, header, textRowsToValues(records[1:])), nil
}

// readLTSV parses a Labeled Tab-separated Values file. Labels become
// columns in order of first appearance; absent labels are missing values.
func readLTSV(src source) (*Sheet, error) {
	reader, cleanup, err := NewCompressionFactory().CreateReaderForFile(src.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cleanup() // Ignore close error after a complete read
	}()

	var (
		header  []string
		index   = make(map[string]int)
		records []map[string]string
	)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		record := make(map[string]string)
		for pair := range strings.SplitSeq(line, "\t") {
			key, value, ok := strings.Cut(pair, ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			if _, seen := index[key]; !seen {
				index[key] = len(header)
				header = append(header, key)
			}
			record[key] = strings.TrimSpace(value)
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.fileType, err)
	}
	if len(records) == 0 {
		return NewSheet(sheetNameFromFilePath(src.path), nil, nil), nil
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(header))
		for key, value := range record {
			row[index[key]] = value
		}
		rows[i] = row
	}
	return NewSheet(sheetNameFromFilePath(src.path), header, textRowsToValues(rows)), nil
}

// textRowsToValues converts rows of text cells to native values, deciding
// each column's representation from all of its cells at once.
func textRowsToValues(rows [][]string) [][]any {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}

	out := make([][]any, len(rows))
	for i := range rows {
		out[i] = make([]any, width)
	}

	cells := make([]string, len(rows))
	for col := range width {
		for i, r := range rows {
			cells[i] = ""
			if col < len(r) {
				cells[i] = r[col]
			}
		}
		for i, v := range model.ParseTextColumn(cells) {
			out[i][col] = v
		}
	}
	return out
}
