package ports

import "io"

// ConfigSource provides the text of a machine configuration.
// Open may be called more than once: a reset re-reads the same source.
type ConfigSource interface {
	// Open returns a fresh reader positioned at the start of the configuration.
	Open() (io.ReadCloser, error)

	// Name describes the source for logs and snapshots (e.g. a file path).
	Name() string
}
