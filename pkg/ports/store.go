package ports

import (
	"context"

	"github.com/aretw0/faustbox/pkg/factory"
)

// FactoryStore persists compiled factories by SHA key.
// This lets identical diagrams compiled with identical options skip compilation,
// across processes when the store is shared.
type FactoryStore interface {
	// Save persists the factory under its SHA key, replacing any previous value.
	Save(ctx context.Context, f *factory.Factory) error

	// Load retrieves a factory by SHA key.
	// Returns domain.ErrFactoryNotFound if the key does not exist.
	Load(ctx context.Context, sha string) (*factory.Factory, error)

	// Delete removes a factory. Deleting a missing key is not an error.
	Delete(ctx context.Context, sha string) error

	// List returns the SHA keys of every stored factory.
	List(ctx context.Context) ([]string, error)
}
