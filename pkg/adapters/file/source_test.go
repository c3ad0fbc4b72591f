package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tms/pkg/adapters/file"
	contract "github.com/aretw0/tms/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flip.tm")
	cfg := "q0 1011\nqH\nq0 1 q0 0 right\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	contract.ConfigSourceContractTest(t, file.NewSource(path), cfg)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := file.NewSource(filepath.Join(t.TempDir(), "nope.tm")).Open()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
