package faustbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/faustbox/internal/compiler"
	"github.com/aretw0/faustbox/internal/logging"
	"github.com/aretw0/faustbox/pkg/adapters/memory"
	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/cache"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
	"github.com/aretw0/faustbox/pkg/signal"
)

// lib is the process-wide context used by the Box* functions.
var lib struct {
	mu        sync.Mutex
	ctx       *box.Context
	factories *cache.Manager
}

// CreateLibContext creates the process-wide context. Calling it twice without
// DestroyLibContext in between fails.
func CreateLibContext(opts ...box.Option) error {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.ctx != nil {
		return fmt.Errorf("%w: library context already created", domain.ErrContextLifecycle)
	}
	lib.ctx = box.NewContext(opts...)
	if lib.factories == nil {
		lib.factories = cache.NewManager(memory.NewStore())
	}
	return nil
}

// DestroyLibContext releases the process-wide context. Boxes and signals
// obtained from it become invalid. Factories stay cached.
func DestroyLibContext() error {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.ctx == nil {
		return fmt.Errorf("%w: no library context", domain.ErrContextLifecycle)
	}
	err := lib.ctx.Destroy()
	lib.ctx = nil
	return err
}

// LibContext returns the process-wide context.
func LibContext() (*box.Context, error) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.ctx == nil {
		return nil, fmt.Errorf("%w: no library context", domain.ErrContextLifecycle)
	}
	return lib.ctx, nil
}

func with(fn func(c *box.Context) (box.Box, error)) (box.Box, error) {
	c, err := LibContext()
	if err != nil {
		return box.Box{}, err
	}
	return fn(c)
}

// Compile flattens root, built in the process-wide context, into one signal per output.
func Compile(root box.Box) ([]signal.Signal, error) {
	c, err := LibContext()
	if err != nil {
		return nil, err
	}
	return compiler.New().Compile(c, root)
}

// BoxesToSignals compiles root. On failure it returns nil and sets *errorMessage;
// on success errorMessage is left untouched.
func BoxesToSignals(root box.Box, errorMessage *string) []signal.Signal {
	sigs, err := Compile(root)
	if err != nil {
		setMessage(errorMessage, err)
		return nil
	}
	return sigs
}

// CreateCPPDSPFactoryFromBoxes compiles root into a factory named name. argv holds
// compiler flags (-single, -double, -I dir, -cn class); unknown flags are kept
// as is. A factory with the same SHA key is returned from the cache.
func CreateCPPDSPFactoryFromBoxes(name string, root box.Box, argv []string, errorMessage *string) *factory.Factory {
	c, err := LibContext()
	if err != nil {
		setMessage(errorMessage, err)
		return nil
	}
	f, _, err := buildFactory(context.Background(), lib.factories, c, name, root, argv, nil, logging.NewNop())
	if err != nil {
		setMessage(errorMessage, err)
		return nil
	}
	return f
}

// GetCPPDSPFactoryFromSHAKey returns a factory created earlier in this process, or nil.
func GetCPPDSPFactoryFromSHAKey(sha string) *factory.Factory {
	lib.mu.Lock()
	mgr := lib.factories
	lib.mu.Unlock()
	if mgr == nil {
		return nil
	}
	f, err := mgr.Load(context.Background(), sha)
	if err != nil {
		return nil
	}
	return f
}

func setMessage(dst *string, err error) {
	if dst != nil {
		*dst = err.Error()
	}
}

// PrintBox renders a box of the process-wide context, e.g. "seq(par(_, _), +)".
func PrintBox(b box.Box) string {
	c, err := LibContext()
	if err != nil {
		return b.String()
	}
	s, err := c.Format(b)
	if err != nil {
		return b.String()
	}
	return s
}

// PrintSignal renders a signal of the process-wide context, e.g. "(in0 + 0.5)".
func PrintSignal(s signal.Signal) string {
	c, err := LibContext()
	if err != nil {
		return s.String()
	}
	out := s.String()
	_ = c.Session(func(tx *box.Tx) error {
		out = tx.Graph().Format(s)
		return nil
	})
	return out
}
