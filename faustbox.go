package faustbox

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/loam"

	"github.com/aretw0/faustbox/internal/compiler"
	"github.com/aretw0/faustbox/internal/logging"
	loamAdapter "github.com/aretw0/faustbox/pkg/adapters/loam"
	"github.com/aretw0/faustbox/pkg/adapters/memory"
	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/cache"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
	"github.com/aretw0/faustbox/pkg/ports"
	"github.com/aretw0/faustbox/pkg/registry"
	"github.com/aretw0/faustbox/pkg/schema"
)

// Version is the library version, stamped into every factory.
var Version = "0.4.0"

// Service compiles diagram documents into cached factories. It implements
// ports.CompileService and is what the HTTP and MCP adapters serve.
type Service struct {
	cache   *cache.Manager
	store   ports.FactoryStore
	locker  ports.DistributedLocker
	loader  ports.DiagramLoader
	symbols *registry.Registry
	hooks   domain.Hooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithStore sets the factory cache backend (default: in memory).
func WithStore(store ports.FactoryStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLocker enables distributed locking of compilations across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithLoader injects a custom DiagramLoader, bypassing the default Loam initialization.
func WithLoader(l ports.DiagramLoader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithSymbols declares host-provided foreign symbols. They resolve before the
// include path given by -I.
func WithSymbols(r *registry.Registry) Option {
	return func(s *Service) {
		s.symbols = r
	}
}

// WithHooks registers observability hooks on every context the service creates.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New initializes a Service. When libraryPath is set and no loader is injected,
// the diagrams of that directory are served through a read-only Loam repository.
func New(libraryPath string, opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}

	if s.loader == nil && libraryPath != "" {
		absPath, err := filepath.Abs(libraryPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		s.Name = filepath.Base(absPath)

		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		s.loader = loamAdapter.New(loam.NewTypedRepository[loamAdapter.DiagramMetadata](repo))
	}

	cacheOpts := []cache.Option{cache.WithLogger(s.logger)}
	if s.locker != nil {
		cacheOpts = append(cacheOpts, cache.WithLocker(s.locker))
	}
	s.cache = cache.NewManager(s.store, cacheOpts...)
	return s, nil
}

// Loader returns the diagram library, or nil when the service has none.
func (s *Service) Loader() ports.DiagramLoader {
	return s.loader
}

// Compile builds the document in a fresh context and returns its factory.
func (s *Service) Compile(ctx context.Context, document []byte, argv []string) (*factory.Factory, error) {
	doc, err := schema.Parse(document)
	if err != nil {
		return nil, err
	}
	f, _, err := s.CompileDocument(ctx, doc, argv)
	return f, err
}

// CompileDocument is Compile for an already decoded document. cached reports
// whether the factory came from the store.
func (s *Service) CompileDocument(ctx context.Context, doc *schema.Document, argv []string) (f *factory.Factory, cached bool, err error) {
	bc := box.NewContext(box.WithLogger(s.logger), box.WithHooks(s.hooks))
	defer bc.Destroy()

	root, err := schema.Build(bc, doc)
	if err != nil {
		return nil, false, err
	}
	name := doc.Name
	if name == "" {
		name = factory.DefaultClassName
	}
	return buildFactory(ctx, s.cache, bc, name, root, argv, s.symbols, s.logger)
}

// CompileDiagram compiles a diagram of the library by ID.
func (s *Service) CompileDiagram(ctx context.Context, id string, argv []string) (*factory.Factory, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("no diagram library configured")
	}
	data, err := s.loader.GetDiagram(id)
	if err != nil {
		return nil, err
	}
	return s.Compile(ctx, data, argv)
}

// Factory returns a cached factory by SHA key.
func (s *Service) Factory(ctx context.Context, sha string) (*factory.Factory, error) {
	return s.cache.Load(ctx, sha)
}

// Factories lists the SHA keys of cached factories.
func (s *Service) Factories(ctx context.Context) ([]string, error) {
	return s.cache.List(ctx)
}

// Forget removes a factory from the cache.
func (s *Service) Forget(ctx context.Context, sha string) error {
	return s.cache.Delete(ctx, sha)
}

// buildFactory keys root by fingerprint, name and options and returns the cached
// factory for that key, compiling and exporting it on a miss.
func buildFactory(ctx context.Context, mgr *cache.Manager, bc *box.Context, name string, root box.Box, argv []string, symbols *registry.Registry, logger *slog.Logger) (*factory.Factory, bool, error) {
	opts, err := factory.ParseArgs(argv)
	if err != nil {
		return nil, false, err
	}
	fp, err := bc.Fingerprint(root)
	if err != nil {
		return nil, false, err
	}
	key := factory.Key(fp, name, opts)

	f, cached, err := mgr.GetOrCompile(ctx, key, func(ctx context.Context) (*factory.Factory, error) {
		var resolver compiler.ForeignResolver = compiler.IncludePathResolver{Dirs: opts.SearchPath()}
		if symbols != nil {
			resolver = compiler.FirstOf(symbols, resolver)
		}
		comp := compiler.New(
			compiler.WithForeignResolver(resolver),
			compiler.WithLogger(logger),
		)
		outs, err := comp.Compile(bc, root)
		if err != nil {
			return nil, err
		}
		a, err := bc.Arity(root)
		if err != nil {
			return nil, err
		}

		var prog *factory.Program
		err = bc.Session(func(tx *box.Tx) error {
			var err error
			prog, err = factory.Export(tx.Graph(), a.Inputs, outs)
			return err
		})
		if err != nil {
			return nil, err
		}
		return &factory.Factory{
			Name:      name,
			SHAKey:    key,
			Options:   opts,
			Arity:     a,
			Program:   prog,
			Compiler:  "faustbox " + Version,
			CreatedAt: time.Now().UTC(),
		}, nil
	})
	if err != nil {
		return nil, false, err
	}
	logger.Debug("Factory ready", "name", name, "sha", key, "cached", cached)
	return f, cached, nil
}
