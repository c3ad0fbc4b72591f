package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New creates a configured application logger.
// It writes to Stderr (to keep Stdout for the tape output and JSON-RPC).
// Extra writers (e.g. a --log-file) receive the same records through a fan-out handler.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, extra ...io.Writer) *slog.Logger {
	handlers := []slog.Handler{newHandler(os.Stderr, level)}
	for _, w := range extra {
		if w != nil {
			handlers = append(handlers, newHandler(w, level))
		}
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// NewWriter creates a logger that writes only to w.
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(newHandler(w, level))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})
}
