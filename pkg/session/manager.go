package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/internal/logging"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/aretw0/tms/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager hosts many machines, one per session ID, on top of a SnapshotStore.
// Every mutation runs under the session lock, so a machine only ever sees one
// writer at a time. It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	simOpts []tms.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSimulatorOptions applies opts to every Simulator built by the Manager.
func WithSimulatorOptions(opts ...tms.Option) Option {
	return func(m *Manager) {
		m.simOpts = append(m.simOpts, opts...)
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// maxIDLength bounds session IDs so they stay usable as file names and redis keys.
const maxIDLength = 128

// ValidateID accepts IDs made of letters, digits, '.', '_' and '-', up to 128
// bytes, other than "." and "..". Every store can key such an ID as is.
func ValidateID(sessionID string) error {
	if sessionID == "" || sessionID == "." || sessionID == ".." || len(sessionID) > maxIDLength {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSessionID, sessionID)
	}
	for _, r := range sessionID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q", domain.ErrInvalidSessionID, sessionID)
		}
	}
	return nil
}

// Create loads a configuration into a session, replacing any machine it held.
func (m *Manager) Create(ctx context.Context, sessionID, name, config string) (*domain.Snapshot, error) {
	if err := ValidateID(sessionID); err != nil {
		return nil, err
	}
	sim, err := tms.LoadString(name, config, m.simOpts...)
	if err != nil {
		return nil, err
	}
	snap := sim.Snapshot()

	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, snap)
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("Session created", "session_id", sessionID, "source", name)
	return snap, nil
}

// Load returns the current snapshot of a session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Do restores the session machine, applies fn and saves the result, all under the
// session lock. The machine is saved even when fn fails, so partial progress of a
// run is kept; the returned snapshot reflects it.
func (m *Manager) Do(ctx context.Context, sessionID string, fn func(context.Context, *tms.Simulator) error) (*domain.Snapshot, error) {
	var (
		snap  *domain.Snapshot
		opErr error
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		stored, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		sim, err := tms.Restore(stored, m.simOpts...)
		if err != nil {
			return fmt.Errorf("failed to restore session %s: %w", sessionID, err)
		}

		opErr = fn(ctx, sim)
		snap = sim.Snapshot()
		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, opErr
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
