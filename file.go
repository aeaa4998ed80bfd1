package sheetimport

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileType represents supported source file types (without compression)
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extLTSV is the LTSV file extension
	extLTSV = ".ltsv"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
	// extGZ is the gzip compression extension
	extGZ = ".gz"
	// extBZ2 is the bzip2 compression extension
	extBZ2 = ".bz2"
	// extXZ is the xz compression extension
	extXZ = ".xz"
	// extZSTD is the zstd compression extension
	extZSTD = ".zst"
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// String returns the name of the file type
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeLTSV:
		return "ltsv"
	case FileTypeParquet:
		return "parquet"
	case FileTypeXLSX:
		return "xlsx"
	default:
		return "unsupported"
	}
}

// source describes one input file
type source struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// newSource classifies path by its extensions
func newSource(path string) source {
	factory := NewCompressionFactory()
	return source{
		path:        path,
		fileType:    factory.GetBaseFileType(path),
		compression: factory.DetectCompressionType(path),
	}
}

// isSupportedFile checks if the file has a supported extension
func isSupportedFile(fileName string) bool {
	return newSource(fileName).fileType != FileTypeUnsupported
}

// sheetNameFromFilePath derives the sheet name of a single-sheet source:
// the file name without compression and format extensions.
func sheetNameFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		if strings.HasSuffix(strings.ToLower(fileName), ext) {
			fileName = fileName[:len(fileName)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// OpenWorkbook opens the source at path. XLSX files expose every worksheet;
// CSV, TSV, LTSV and Parquet files expose a single sheet named after the
// file. Any of them may carry a .gz, .bz2, .xz or .zst suffix.
func OpenWorkbook(path string) (Workbook, error) {
	if err := newValidator().validateSource(path); err != nil {
		return nil, err
	}

	src := newSource(path)
	switch src.fileType {
	case FileTypeXLSX:
		return openXLSXWorkbook(src)
	case FileTypeCSV:
		return newSingleSheetWorkbook(src, func() (*Sheet, error) { return readDelimited(src, csvDelimiter) }), nil
	case FileTypeTSV:
		return newSingleSheetWorkbook(src, func() (*Sheet, error) { return readDelimited(src, tsvDelimiter) }), nil
	case FileTypeLTSV:
		return newSingleSheetWorkbook(src, func() (*Sheet, error) { return readLTSV(src) }), nil
	case FileTypeParquet:
		return newSingleSheetWorkbook(src, func() (*Sheet, error) { return readParquet(src) }), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// singleSheetWorkbook serves a file holding exactly one table
type singleSheetWorkbook struct {
	name string
	read func() (*Sheet, error)
}

func newSingleSheetWorkbook(src source, read func() (*Sheet, error)) *singleSheetWorkbook {
	return &singleSheetWorkbook{name: sheetNameFromFilePath(src.path), read: read}
}

func (wb *singleSheetWorkbook) SheetNames() []string {
	return []string{wb.name}
}

func (wb *singleSheetWorkbook) ReadSheet(name string) (*Sheet, error) {
	if name != wb.name {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return wb.read()
}

func (wb *singleSheetWorkbook) Close() error {
	return nil
}
