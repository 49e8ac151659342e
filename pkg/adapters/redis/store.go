package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "faustbox:factory:"

// Store implements ports.FactoryStore using Redis.
// Factories are stored in binary form; a sorted set indexes the live keys.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of cached factories.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sha string) string {
	return s.prefix + sha
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the factory and indexes it.
func (s *Store) Save(ctx context.Context, f *factory.Factory) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal factory: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(f.SHAKey), data, s.ttl)

	// Score is the expiry time; without TTL it is far in the future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: f.SHAKey,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a factory from Redis.
func (s *Store) Load(ctx context.Context, sha string) (*factory.Factory, error) {
	data, err := s.client.Get(ctx, s.key(sha)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFactoryNotFound, sha)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return factory.Unmarshal(data)
}

// Delete removes the factory and its index entry.
func (s *Store) Delete(ctx context.Context, sha string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(sha))
	pipe.ZRem(ctx, s.indexKey(), sha)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns live keys, pruning expired index entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired factories: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list factories: %w", err)
	}
	return keys, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
