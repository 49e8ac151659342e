package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

// contractFactory builds a small, valid factory without compiling anything.
func contractFactory(sha string) *factory.Factory {
	return &factory.Factory{
		Name:    "contract",
		SHAKey:  sha,
		Options: factory.Options{Precision: factory.PrecisionSingle, ClassName: factory.DefaultClassName},
		Arity:   domain.Arity{Inputs: 1, Outputs: 1},
		Program: &factory.Program{
			Inputs:  1,
			Outputs: []uint32{2},
			Nodes: []factory.Node{
				{ID: 1, Kind: "input"},
				{ID: 2, Kind: "binop", Op: "mul", Args: []uint32{1, 1}},
			},
		},
		CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

// RunFactoryStoreContract runs a suite of tests to verify that a FactoryStore implementation
// adheres to the defined interface contract.
func RunFactoryStoreContract(t *testing.T, store FactoryStore) {
	ctx := context.Background()
	sha := "contract" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		f := contractFactory(sha)

		err := store.Save(ctx, f)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sha)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, f.Name, loaded.Name)
		assert.Equal(t, f.SHAKey, loaded.SHAKey)
		assert.Equal(t, f.Arity, loaded.Arity)
		assert.Equal(t, f.Program, loaded.Program)
		assert.True(t, f.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+sha)
		assert.ErrorIs(t, err, domain.ErrFactoryNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		f := contractFactory(sha)
		f.Name = "renamed"
		require.NoError(t, store.Save(ctx, f))

		loaded, err := store.Load(ctx, sha)
		require.NoError(t, err)
		assert.Equal(t, "renamed", loaded.Name)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractFactory(sha)))

		err := store.Delete(ctx, sha)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sha)
		assert.ErrorIs(t, err, domain.ErrFactoryNotFound, "Load after Delete should return ErrFactoryNotFound")

		assert.NoError(t, store.Delete(ctx, sha), "Deleting a missing key is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sha + "-1"
		id2 := sha + "-2"
		_ = store.Save(ctx, contractFactory(id1))
		_ = store.Save(ctx, contractFactory(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
