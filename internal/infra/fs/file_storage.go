package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyImage is returned when a rendered file exists but holds no bytes.
var ErrEmptyImage = errors.New("image file is empty after rendering")

// EnsureOutputDir creates dir and its parents. An existing directory is not an error.
func EnsureOutputDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is not set")
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return fmt.Errorf("output path %s exists and is not a directory", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// OutputPath joins a fixed file name onto the output directory.
func OutputPath(dir, name string) string {
	return filepath.Join(dir, name)
}

// VerifyImage checks that path was written and is non-empty. An empty file is
// removed so a later run never mistakes it for a rendered chart.
func VerifyImage(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat chart file: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	return info.Size(), nil
}

// CreateFile opens path for writing, truncating any previous output.
func CreateFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
