package sheetimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/nao1215/sheetimport/driver"
)

// Builder configures and runs one import. Use NewBuilder to create an
// instance, then chain method calls to configure it.
//
// The typical usage pattern is:
//
//	builder, err := sheetimport.NewBuilder().
//		SetSource("data.xlsx").
//		SetDestination("data.db").
//		Build(ctx)
//	if err != nil {
//		return err
//	}
//	defer builder.Cleanup()
//	report, err := builder.Run(ctx)
type Builder struct {
	// sourcePath is the workbook path as given
	sourcePath string
	// sourceFS and sourceName describe a workbook inside an fs.FS
	sourceFS   fs.FS
	sourceName string
	// destinationPath is the pre-existing database file
	destinationPath string
	// options are applied over DefaultConfig in Build
	options []ConfigOption
	// logger receives progress events
	logger zerolog.Logger

	// resolvedSource is the readable source path after Build
	resolvedSource string
	// config is the validated configuration after Build
	config Config
	built  bool
	// tempDirs tracks temporary directories created for cleanup
	tempDirs []string
}

// NewBuilder creates a new import builder.
func NewBuilder() *Builder {
	return &Builder{
		logger:   zerolog.Nop(),
		tempDirs: make([]string, 0),
	}
}

// SetSource sets the workbook to import.
//
// Supported file extensions: .xlsx, .csv, .tsv, .ltsv, .parquet
// Supported compression: .gz, .bz2, .xz, .zst
//
// Returns the builder for method chaining.
func (b *Builder) SetSource(path string) *Builder {
	b.sourcePath = path
	b.sourceFS = nil
	b.sourceName = ""
	return b
}

// SetSourceFS sets a workbook stored in an fs.FS (for example embed.FS).
// The file is copied to a temporary directory during Build; call Cleanup
// to remove it.
//
// Returns the builder for method chaining.
func (b *Builder) SetSourceFS(filesystem fs.FS, name string) *Builder {
	b.sourceFS = filesystem
	b.sourceName = name
	b.sourcePath = ""
	return b
}

// SetDestination sets the database file to write to. The file must exist.
//
// Returns the builder for method chaining.
func (b *Builder) SetDestination(path string) *Builder {
	b.destinationPath = path
	return b
}

// WithOptions appends configuration options.
//
// Returns the builder for method chaining.
func (b *Builder) WithOptions(opts ...ConfigOption) *Builder {
	b.options = append(b.options, opts...)
	return b
}

// WithLogger sets the logger for progress events.
//
// Returns the builder for method chaining.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and the preconditions of the run:
// both paths are given, the source exists in a supported format, the
// destination file exists, and every tunable is in range. Nothing is opened
// for writing.
//
// Returns the same builder instance for method chaining, or an error if validation fails.
func (b *Builder) Build(ctx context.Context) (*Builder, error) {
	v := newValidator()

	source := b.sourcePath
	if b.sourceFS != nil {
		if b.sourceName == "" {
			return nil, fmt.Errorf("%w: source name in filesystem is empty", ErrUsage)
		}
		tempPath, err := b.copyFSToTemp(ctx, b.sourceFS, b.sourceName)
		if err != nil {
			return nil, err
		}
		source = tempPath
	}

	if err := v.validateArgs(source, b.destinationPath); err != nil {
		return nil, err
	}
	if err := v.validateSource(source); err != nil {
		return nil, err
	}
	if err := driver.CheckDestination(b.destinationPath); err != nil {
		return nil, err
	}

	cfg, err := NewConfig(b.options...)
	if err != nil {
		return nil, err
	}

	b.resolvedSource = source
	b.config = cfg
	b.built = true
	return b, nil
}

// Config returns the validated configuration. It is only meaningful after Build.
func (b *Builder) Config() Config {
	return b.config
}

// Run opens the source and the destination and imports every sheet.
// This method can only be called after Build() has been successfully executed.
func (b *Builder) Run(ctx context.Context) (report *Report, err error) {
	if !b.built {
		return nil, errors.New("builder is not validated, did you call Build()?")
	}

	wb, err := OpenWorkbook(b.resolvedSource)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := wb.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	db, err := driver.Open(ctx, b.destinationPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", driver.ErrConnect, closeErr)
		}
	}()

	b.logger.Info().
		Str("source", b.displaySource()).
		Str("destination", b.destinationPath).
		Msg("starting import")

	return NewImporter(db, b.config, WithLogger(b.logger)).Import(ctx, wb)
}

// displaySource names the source as the user gave it
func (b *Builder) displaySource() string {
	if b.sourceFS != nil {
		return b.sourceName
	}
	return b.sourcePath
}

// copyFSToTemp copies a file from fs.FS to a temporary directory, keeping
// its base name so that single-sheet sources keep their sheet name.
func (b *Builder) copyFSToTemp(_ context.Context, filesystem fs.FS, name string) (string, error) {
	file, err := filesystem.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, name)
		}
		return "", fmt.Errorf("failed to open FS file: %w", err)
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "sheetimport-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	b.tempDirs = append(b.tempDirs, dir)

	tempPath := filepath.Join(dir, path.Base(name))
	tempFile, err := os.Create(tempPath) //nolint:gosec // path is inside our own temp dir
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, file); err != nil {
		return "", fmt.Errorf("failed to copy content: %w", err)
	}
	return tempPath, nil
}

// cleanup removes temporary directories and returns any errors
func (b *Builder) cleanup() error {
	var errs []error
	for _, dir := range b.tempDirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove temp dir %s: %w", dir, err))
		}
	}
	b.tempDirs = nil

	return errors.Join(errs...)
}

// Cleanup removes all temporary files created for fs.FS sources.
// It's safe to call this multiple times.
func (b *Builder) Cleanup() error {
	return b.cleanup()
}
