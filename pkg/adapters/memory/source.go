package memory

import (
	"io"
	"strings"
)

// Source implements ports.ConfigSource over configuration text held in memory.
type Source struct {
	name string
	text string
}

// NewSource creates a Source. An empty name defaults to "inline".
func NewSource(name, text string) *Source {
	if name == "" {
		name = "inline"
	}
	return &Source{name: name, text: text}
}

// Open returns a new reader over the text.
func (s *Source) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.text)), nil
}

// Name returns the source label.
func (s *Source) Name() string {
	return s.name
}

// Text returns the configuration text.
func (s *Source) Text() string {
	return s.text
}
