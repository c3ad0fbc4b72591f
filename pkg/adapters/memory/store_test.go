package memory_test

import (
	"testing"

	"github.com/aretw0/tms/pkg/adapters/memory"
	"github.com/aretw0/tms/pkg/ports"
)

func TestInMemoryStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, memory.NewStore())
}
