package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Registry holds declarations of foreign constants and variables that have no
// header on disk, e.g. symbols provided by the host of the generated code.
// It implements the compiler's foreign resolver.
type Registry struct {
	mu      sync.RWMutex
	symbols map[string]map[string]struct{} // file -> names
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		symbols: make(map[string]map[string]struct{}),
	}
}

// Register declares names in file. Registering a name twice is a no-op.
func (r *Registry) Register(file string, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.symbols[file]
	if !ok {
		set = make(map[string]struct{})
		r.symbols[file] = set
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
}

// Resolve succeeds when name was registered in file.
func (r *Registry) Resolve(name, file string) error {
	r.mu.RLock()
	_, ok := r.symbols[file][name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s is not registered in %q", domain.ErrUnresolvedForeignReference, name, file)
	}
	return nil
}

// Symbols lists the registered names of file, sorted.
func (r *Registry) Symbols(file string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.symbols[file]))
	for n := range r.symbols[file] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Files lists the files with at least one registered symbol, sorted.
func (r *Registry) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	files := make([]string, 0, len(r.symbols))
	for f := range r.symbols {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
