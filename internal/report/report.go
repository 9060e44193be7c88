// Package report renders a result as a report and stores it on disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DataDir is the directory, relative to the working directory, reports are
// written to.
const DataDir = "data"

// FileSystem is the subset of file operations WriteData needs.
type FileSystem interface {
	Getwd() (string, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// OSFileSystem writes to the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// GenerateReportData builds the report body for text. When logFn is non-nil
// it is called once with the report.
func GenerateReportData(text string, logFn func(string)) string {
	data := strings.TrimRight(text, "\n") + "\n"
	if logFn != nil {
		logFn(data)
	}
	return data
}

// WriteData writes data to <cwd>/data/<filename> and returns the path.
// filename must be a bare file name.
func WriteData(fsys FileSystem, data, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid report file name %q", filename)
	}

	cwd, err := fsys.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}

	dir := filepath.Join(cwd, DataDir)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, filename)
	if err := fsys.WriteFile(path, []byte(data), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
