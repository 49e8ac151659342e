package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

// Store implements ports.FactoryStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save keeps the binary form of the factory, so later mutations of f are not visible.
func (s *Store) Save(ctx context.Context, f *factory.Factory) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal factory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[f.SHAKey] = data
	return nil
}

// Load decodes a fresh copy of the factory.
func (s *Store) Load(ctx context.Context, sha string) (*factory.Factory, error) {
	s.mu.RLock()
	data, ok := s.data[sha]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFactoryNotFound, sha)
	}
	return factory.Unmarshal(data)
}

// Delete removes the factory.
func (s *Store) Delete(ctx context.Context, sha string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sha)
	return nil
}

// List returns the stored keys in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for sha := range s.data {
		keys = append(keys, sha)
	}
	sort.Strings(keys)
	return keys, nil
}
