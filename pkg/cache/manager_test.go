package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox/pkg/adapters/memory"
	"github.com/aretw0/faustbox/pkg/adapters/redis"
	"github.com/aretw0/faustbox/pkg/cache"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

func build(sha string, calls *atomic.Int32) cache.BuildFunc {
	return func(ctx context.Context) (*factory.Factory, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond) // Simulate compilation
		return &factory.Factory{
			Name:    "dsp",
			SHAKey:  sha,
			Arity:   domain.Arity{Outputs: 1},
			Program: &factory.Program{Outputs: []uint32{1}, Nodes: []factory.Node{{ID: 1, Kind: "int"}}},
		}, nil
	}
}

func TestManager_GetOrCompile(t *testing.T) {
	m := cache.NewManager(memory.NewStore())
	ctx := context.Background()
	var calls atomic.Int32

	f, cached, err := m.GetOrCompile(ctx, "k1", build("k1", &calls))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "k1", f.SHAKey)

	f, cached, err = m.GetOrCompile(ctx, "k1", build("k1", &calls))
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "dsp", f.Name)
	assert.Equal(t, int32(1), calls.Load())

	keys, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, keys)

	require.NoError(t, m.Delete(ctx, "k1"))
	_, err = m.Load(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrFactoryNotFound)
}

func TestManager_ConcurrentCompilesOnce(t *testing.T) {
	m := cache.NewManager(memory.NewStore())
	ctx := context.Background()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := m.GetOrCompile(ctx, "shared", build("shared", &calls))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestManager_BuildError(t *testing.T) {
	m := cache.NewManager(memory.NewStore())
	ctx := context.Background()
	boom := errors.New("boom")

	_, _, err := m.GetOrCompile(ctx, "bad", func(context.Context) (*factory.Factory, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	keys, _ := m.List(ctx)
	assert.Empty(t, keys, "failed builds are not cached")
}

func TestManager_KeyMismatch(t *testing.T) {
	m := cache.NewManager(memory.NewStore())
	var calls atomic.Int32

	_, _, err := m.GetOrCompile(context.Background(), "k1", build("k2", &calls))
	assert.Error(t, err)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, "test:")
	m1 := cache.NewManager(store, cache.WithLocker(locker), cache.WithLockTTL(5*time.Second))
	m2 := cache.NewManager(store, cache.WithLocker(locker))
	ctx := context.Background()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for _, m := range []*cache.Manager{m1, m2, m1, m2} {
		wg.Add(1)
		go func(m *cache.Manager) {
			defer wg.Done()
			_, _, err := m.GetOrCompile(ctx, "replicated", build("replicated", &calls))
			assert.NoError(t, err)
		}(m)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "replicas sharing a store compile once")
	assert.False(t, mr.Exists("test:lock:replicated"), "lock released")
}
