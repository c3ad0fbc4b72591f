package tests

import (
	"io"
	"testing"

	"github.com/aretw0/tms/pkg/ports"
)

// ConfigSourceContractTest verifies that a ConfigSource can be opened repeatedly
// and yields the same text every time (a reset re-reads the source).
func ConfigSourceContractTest(t *testing.T, source ports.ConfigSource, expected string) {
	t.Helper()

	for i := 0; i < 2; i++ {
		rc, err := source.Open()
		if err != nil {
			t.Fatalf("open #%d failed: %v", i+1, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read #%d failed: %v", i+1, err)
		}
		if string(data) != expected {
			t.Errorf("read #%d: got %q, want %q", i+1, data, expected)
		}
	}

	if source.Name() == "" {
		t.Error("expected a non-empty source name")
	}
}
