package ports_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/aretw0/tms/pkg/domain"
	"github.com/aretw0/tms/pkg/ports"
)

// MockStore is an in-memory implementation of SnapshotStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string]domain.Snapshot
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.Snapshot),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *snap
	c.Instructions = append([]domain.Instruction(nil), snap.Instructions...)
	m.data[sessionID] = c
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	snap.Instructions = append([]domain.Instruction(nil), snap.Instructions...)
	return &snap, nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestSnapshotStore_Contract(t *testing.T) {
	// The mock doubles as the reference implementation of the contract.
	ports.RunSnapshotStoreContract(t, NewMockStore())
}
