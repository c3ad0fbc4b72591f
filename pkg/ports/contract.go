package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Source:    "contract",
		Config:    "q0 101\nqH\nq0 1 q0 0 right\n",
		State:     "q0",
		HaltState: "qH",
		Tape:      "001",
		Head:      1,
		Blank:     domain.DefaultBlank,
		Steps:     1,
		Instructions: []domain.Instruction{
			{CurrentState: "q0", CurrentSymbol: '1', NewState: "q0", NewSymbol: '0', Direction: domain.Right},
		},
	}
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot()

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded)
	})

	t.Run("Load returns an isolated copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractSnapshot()))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Tape = "mutated"
		loaded.Instructions[0].NewState = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "001", again.Tape)
		assert.Equal(t, "q0", again.Instructions[0].NewState)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractSnapshot())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot())
		_ = store.Save(ctx, id2, contractSnapshot())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
