package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source implements ports.ConfigSource for a configuration file on disk.
// Every Open re-reads the file, so a reset picks up edits made in between.
type Source struct {
	Path string
}

// NewSource creates a Source for path.
func NewSource(path string) *Source {
	return &Source{Path: path}
}

// Open opens the configuration file.
func (s *Source) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration: %w", err)
	}
	return f, nil
}

// Name returns the cleaned file path.
func (s *Source) Name() string {
	return filepath.Clean(s.Path)
}
