package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/faustbox/internal/logging"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
	"github.com/aretw0/faustbox/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// BuildFunc compiles the factory of a key on a cache miss.
type BuildFunc func(ctx context.Context) (*factory.Factory, error)

// Manager guards a FactoryStore with per-key locks.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.FactoryStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock outlives a crashed holder.
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

// NewManager creates a cache manager over store.
func NewManager(store ports.FactoryStore, opts ...Option) *Manager {
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
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// GetOrCompile returns the factory stored under key, or runs build, saves its
// result and returns it. cached reports whether the store already had it.
func (m *Manager) GetOrCompile(ctx context.Context, key string, build BuildFunc) (f *factory.Factory, cached bool, err error) {
	err = m.WithLock(ctx, key, func(ctx context.Context) error {
		f, err = m.store.Load(ctx, key)
		if err == nil {
			cached = true
			return nil
		}
		if !errors.Is(err, domain.ErrFactoryNotFound) {
			return fmt.Errorf("failed to check factory cache: %w", err)
		}

		f, err = build(ctx)
		if err != nil {
			return err
		}
		if f.SHAKey != key {
			return fmt.Errorf("built factory has key %s, want %s", f.SHAKey, key)
		}
		if err := m.store.Save(ctx, f); err != nil {
			return fmt.Errorf("failed to cache factory: %w", err)
		}
		m.logger.Debug("Factory cached", "sha", key, "name", f.Name)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return f, cached, nil
}

// Load retrieves a factory from the store.
func (m *Manager) Load(ctx context.Context, key string) (*factory.Factory, error) {
	return m.store.Load(ctx, key)
}

// Delete removes a factory from the store.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying factory store.
func (m *Manager) Store() ports.FactoryStore {
	return m.store
}

// WithLock executes a function while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"sha", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
