package sheetimport

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// validator checks run preconditions before any destination work starts
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateSource checks that path names an existing file of a supported format
func (v *validator) validateSource(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: source path is empty", ErrUsage)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}
	if !isSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// validateArgs checks that both paths were given
func (v *validator) validateArgs(sourcePath, destinationPath string) error {
	if strings.TrimSpace(sourcePath) == "" || strings.TrimSpace(destinationPath) == "" {
		return ErrUsage
	}
	return nil
}
