package ports

import (
	"context"

	"github.com/aretw0/faustbox/pkg/factory"
)

// CompileService is the primary interface used by remote adapters (HTTP, MCP).
// Every call is independent: documents are compiled in a context of their own.
type CompileService interface {
	// Compile builds the diagram document and returns its factory, from the cache when possible.
	Compile(ctx context.Context, document []byte, argv []string) (*factory.Factory, error)

	// Factory returns a cached factory by SHA key.
	Factory(ctx context.Context, sha string) (*factory.Factory, error)

	// Factories lists the SHA keys of cached factories.
	Factories(ctx context.Context) ([]string, error)

	// Forget removes a factory from the cache.
	Forget(ctx context.Context, sha string) error
}
