package sheetimport

import (
	"fmt"

	"github.com/nao1215/sheetimport/domain/model"
	"github.com/nao1215/sheetimport/driver"
)

// Configuration defaults
const (
	// DefaultMaxColumnNameLength is the default maximum column identifier length
	DefaultMaxColumnNameLength = model.DefaultMaxColumnNameLength
	// MinColumnNameLength is the smallest accepted maximum column identifier length
	MinColumnNameLength = model.MinColumnNameLength
	// DefaultBatchSize is the default number of rows per insert batch
	DefaultBatchSize = 300
	// DefaultMappingTable is the default name of the column mapping table
	DefaultMappingTable = "__column_map"
)

// NamingMode selects how destination column identifiers are produced
type NamingMode = model.NamingMode

const (
	// NamingModeShort sanitizes, truncates and disambiguates headers (default)
	NamingModeShort = model.NamingModeShort
	// NamingModeLetters names columns A, B, C, ... by position
	NamingModeLetters = model.NamingModeLetters
)

// Config holds the import tunables. It is built once with NewConfig and
// passed by value to every component; nothing reads global state.
type Config struct {
	maxColumnNameLength int
	namingMode          NamingMode
	batchSize           int
	bulkInsert          bool
	mappingTable        string
	memoryLimitMB       int64
}

// ConfigOption modifies a Config under construction
type ConfigOption func(*Config)

// WithMaxColumnNameLength sets the maximum column identifier length.
func WithMaxColumnNameLength(n int) ConfigOption {
	return func(c *Config) { c.maxColumnNameLength = n }
}

// WithNamingMode sets the column naming mode.
func WithNamingMode(mode NamingMode) ConfigOption {
	return func(c *Config) { c.namingMode = mode }
}

// WithBatchSize sets the number of rows submitted per insert batch.
func WithBatchSize(n int) ConfigOption {
	return func(c *Config) { c.batchSize = n }
}

// WithBulkInsert enables the multi-row INSERT fast path.
// The default single-row path is slower but tolerates every column type mix.
func WithBulkInsert(enabled bool) ConfigOption {
	return func(c *Config) { c.bulkInsert = enabled }
}

// WithMappingTable sets the name of the shared column mapping table.
func WithMappingTable(name string) ConfigOption {
	return func(c *Config) { c.mappingTable = name }
}

// WithMemoryLimitMB stops the run when the heap exceeds n MB after a sheet
// has been read. Zero disables the check.
func WithMemoryLimitMB(n int64) ConfigOption {
	return func(c *Config) { c.memoryLimitMB = n }
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		maxColumnNameLength: DefaultMaxColumnNameLength,
		namingMode:          NamingModeShort,
		batchSize:           DefaultBatchSize,
		bulkInsert:          false,
		mappingTable:        DefaultMappingTable,
	}
}

// NewConfig applies opts over DefaultConfig and validates the result.
func NewConfig(opts ...ConfigOption) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.maxColumnNameLength < MinColumnNameLength {
		return fmt.Errorf("%w: max column name length must be at least %d, got %d",
			ErrInvalidConfig, MinColumnNameLength, c.maxColumnNameLength)
	}
	if c.namingMode != NamingModeShort && c.namingMode != NamingModeLetters {
		return fmt.Errorf("%w: unknown naming mode %d", ErrInvalidConfig, c.namingMode)
	}
	if c.batchSize < 1 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.batchSize)
	}
	if c.memoryLimitMB < 0 {
		return fmt.Errorf("%w: memory limit must not be negative, got %d", ErrInvalidConfig, c.memoryLimitMB)
	}
	if err := driver.ValidateIdentifier(c.mappingTable); err != nil {
		return fmt.Errorf("%w: mapping table %q: %w", ErrInvalidConfig, c.mappingTable, err)
	}
	return nil
}

// MaxColumnNameLength returns the maximum column identifier length
func (c Config) MaxColumnNameLength() int { return c.maxColumnNameLength }

// NamingMode returns the column naming mode
func (c Config) NamingMode() NamingMode { return c.namingMode }

// BatchSize returns the number of rows per insert batch
func (c Config) BatchSize() int { return c.batchSize }

// BulkInsert reports whether the multi-row INSERT fast path is enabled
func (c Config) BulkInsert() bool { return c.bulkInsert }

// MappingTable returns the name of the column mapping table
func (c Config) MappingTable() string { return c.mappingTable }

// MemoryLimitMB returns the heap ceiling in MB; zero means unlimited
func (c Config) MemoryLimitMB() int64 { return c.memoryLimitMB }
