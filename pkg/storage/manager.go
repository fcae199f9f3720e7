package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	errs "imdbratings/pkg/errors"
)

// fileExt is the extension of every exported ratings file
const fileExt = ".csv"

// Manager owns the output directory: it answers whether a user's export is
// already on disk and writes new exports atomically.
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager, creating outputDir if needed
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// Path returns the output file path for username
func (m *Manager) Path(username string) string {
	return filepath.Join(m.outputDir, username+fileExt)
}

// Exists reports whether a regular file already holds username's export
func (m *Manager) Exists(username string) bool {
	info, err := os.Stat(m.Path(username))
	return err == nil && info.Mode().IsRegular()
}

// Save writes data as username's export, replacing any previous file
func (m *Manager) Save(username string, data []byte) error {
	return m.SaveFrom(bytes.NewReader(data), username)
}

// SaveFrom streams r into username's export file via a temporary file and rename
func (m *Manager) SaveFrom(r io.Reader, username string) error {
	filename := m.Path(username)

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return errs.New(errs.ErrorTypeIO, "failed to create temporary file", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return errs.New(errs.ErrorTypeIO, "failed to write ratings data", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return errs.New(errs.ErrorTypeIO, "failed to close file", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return errs.New(errs.ErrorTypeIO, "failed to rename temporary file", err)
	}

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}
