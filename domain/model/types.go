package model

// MaxBoundedTextLength is the longest value (in characters) a bounded text column holds
const MaxBoundedTextLength = 255

// ColumnType represents the destination storage type of a column
type ColumnType int

const (
	// ColumnTypeText represents bounded text, VARCHAR(255)
	ColumnTypeText ColumnType = iota
	// ColumnTypeLongText represents unbounded text
	ColumnTypeLongText
	// ColumnTypeInteger represents 64-bit integers
	ColumnTypeInteger
	// ColumnTypeReal represents floating point numbers
	ColumnTypeReal
	// ColumnTypeBoolean represents true/false values
	ColumnTypeBoolean
	// ColumnTypeDatetime represents date and time values
	ColumnTypeDatetime
)

const (
	sqlTypeText     = "VARCHAR(255)"
	sqlTypeLongText = "TEXT"
	sqlTypeInteger  = "INTEGER"
	sqlTypeReal     = "REAL"
	sqlTypeBoolean  = "BOOLEAN"
	sqlTypeDatetime = "DATETIME"
)

// SQL returns the declared type used in CREATE TABLE
func (ct ColumnType) SQL() string {
	switch ct {
	case ColumnTypeLongText:
		return sqlTypeLongText
	case ColumnTypeInteger:
		return sqlTypeInteger
	case ColumnTypeReal:
		return sqlTypeReal
	case ColumnTypeBoolean:
		return sqlTypeBoolean
	case ColumnTypeDatetime:
		return sqlTypeDatetime
	default:
		return sqlTypeText
	}
}

// String returns a readable name of the column type
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeText:
		return "text(255)"
	case ColumnTypeLongText:
		return "text"
	case ColumnTypeInteger:
		return "integer"
	case ColumnTypeReal:
		return "real"
	case ColumnTypeBoolean:
		return "boolean"
	case ColumnTypeDatetime:
		return "datetime"
	default:
		return "text(255)"
	}
}

// IsText reports whether values of this type are stored as text
func (ct ColumnType) IsText() bool {
	return ct == ColumnTypeText || ct == ColumnTypeLongText
}
