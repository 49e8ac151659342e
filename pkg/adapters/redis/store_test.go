package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox/pkg/adapters/redis"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
	"github.com/aretw0/faustbox/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sample(sha string) *factory.Factory {
	return &factory.Factory{
		Name:   "sample",
		SHAKey: sha,
		Arity:  domain.Arity{Inputs: 0, Outputs: 1},
		Program: &factory.Program{
			Outputs: []uint32{1},
			Nodes:   []factory.Node{{ID: 1, Kind: "int", Int: 7}},
		},
	}
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunFactoryStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sha := "ttl-factory"

	require.NoError(t, store.Save(ctx, sample(sha)))

	keys, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, keys, sha)

	// Key expiration inside miniredis
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, sha)
	assert.ErrorIs(t, err, domain.ErrFactoryNotFound)

	// The index is pruned against wall-clock time, so wait past the TTL.
	time.Sleep(1200 * time.Millisecond)

	keys, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sample("abc")))

	assert.True(t, mr.Exists("custom:app:abc"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, "abc")

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(7), loaded.Program.Nodes[0].Int)
}
