package memory_test

import (
	"testing"

	"github.com/aretw0/tms/pkg/adapters/memory"
	contract "github.com/aretw0/tms/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
)

func TestInMemorySource_Contract(t *testing.T) {
	cfg := "q0 1\nqH\nq0 1 qH 0 stay\n"
	contract.ConfigSourceContractTest(t, memory.NewSource("flip", cfg), cfg)
}

func TestInMemorySource_DefaultName(t *testing.T) {
	assert.Equal(t, "inline", memory.NewSource("", "").Name())
}
