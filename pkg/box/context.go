package box

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aretw0/faustbox/internal/logging"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/signal"
)

// serial hands out context generations. Generation 0 is never used.
var serial atomic.Uint32

// Context owns boxes, the signal graph and the compilation memo table.
// All methods are safe for concurrent use; a single lock serializes them.
type Context struct {
	mu    sync.Mutex
	gen   uint32
	alive bool

	nodes []Node // nodes[0] is the zero handle
	index map[string]uint32
	graph *signal.Graph
	memo  map[string][]signal.Signal

	logger *slog.Logger
	hooks  domain.Hooks
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithHooks registers interning and compilation callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Context) {
		c.hooks = hooks
	}
}

// NewContext creates a live, empty context.
func NewContext(opts ...Option) *Context {
	gen := serial.Add(1)
	c := &Context{
		gen:    gen,
		alive:  true,
		nodes:  make([]Node, 1, 128),
		index:  make(map[string]uint32),
		graph:  signal.NewGraph(gen),
		memo:   make(map[string][]signal.Signal),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger.Debug("Context created", "gen", gen)
	return c
}

// Destroy releases every box and signal. Any later use of the context or of its
// handles fails with domain.ErrContextLifecycle, including a second Destroy.
func (c *Context) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return fmt.Errorf("%w: context already destroyed", domain.ErrContextLifecycle)
	}
	c.logger.Debug("Context destroyed", "gen", c.gen, "boxes", len(c.nodes)-1, "signals", c.graph.Len())
	c.alive = false
	c.nodes = nil
	c.index = nil
	c.graph = nil
	c.memo = nil
	return nil
}

// Alive reports whether Destroy has not been called yet.
func (c *Context) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

// Len returns the number of canonical boxes.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return 0
	}
	return len(c.nodes) - 1
}

// Node returns the payload of b.
func (c *Context) Node(b Box) (Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.lookup(b)
	if err != nil {
		return Node{}, err
	}
	return n.clone(), nil
}

// Arity returns the port counts of b.
func (c *Context) Arity(b Box) (domain.Arity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.lookup(b)
	if err != nil {
		return domain.Arity{}, err
	}
	return n.Arity, nil
}

// Session runs fn with exclusive access to the context.
// The Tx must not be retained after fn returns.
func (c *Context) Session(fn func(tx *Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkAlive(); err != nil {
		return err
	}
	return fn(&Tx{c: c})
}

func (c *Context) checkAlive() error {
	if !c.alive {
		return fmt.Errorf("%w: context used after teardown", domain.ErrContextLifecycle)
	}
	return nil
}

func (c *Context) lookup(b Box) (*Node, error) {
	if err := c.checkAlive(); err != nil {
		return nil, err
	}
	if b.IsZero() {
		return nil, fmt.Errorf("%w: zero box", domain.ErrInvalidBox)
	}
	if b.gen != c.gen {
		return nil, fmt.Errorf("%w: %s belongs to another context", domain.ErrContextLifecycle, b)
	}
	if int(b.id) >= len(c.nodes) {
		return nil, fmt.Errorf("%w: unknown %s", domain.ErrInvalidBox, b)
	}
	return &c.nodes[b.id], nil
}

// construct is the single entry point of every constructor: it checks the
// lifecycle, resolves operands, lets build validate them and interns the result.
func (c *Context) construct(kind domain.BoxKind, args []Box, build func(ops []*Node, n *Node) error) (Box, error) {
	b, event, err := c.constructLocked(kind, args, build)
	if err != nil {
		return Box{}, err
	}
	c.hooks.Intern(event)
	return b, nil
}

func (c *Context) constructLocked(kind domain.BoxKind, args []Box, build func(ops []*Node, n *Node) error) (Box, domain.InternEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkAlive(); err != nil {
		return Box{}, domain.InternEvent{}, err
	}
	ops := make([]*Node, len(args))
	for i, a := range args {
		n, err := c.lookup(a)
		if err != nil {
			return Box{}, domain.InternEvent{}, fmt.Errorf("%s operand %d: %w", kind, i, err)
		}
		ops[i] = n
	}
	n := Node{Kind: kind, Args: args}
	if err := build(ops, &n); err != nil {
		return Box{}, domain.InternEvent{}, err
	}
	b, hit := c.intern(n)
	return b, domain.InternEvent{Kind: kind, Arity: n.Arity, Hit: hit}, nil
}

func (c *Context) intern(n Node) (Box, bool) {
	key := signature(&n)
	if id, ok := c.index[key]; ok {
		return Box{id: id, gen: c.gen}, true
	}
	id := uint32(len(c.nodes))
	n.Args = append([]Box(nil), n.Args...)
	c.nodes = append(c.nodes, n)
	c.index[key] = id
	return Box{id: id, gen: c.gen}, false
}

// signature is linear in the number of immediate operands: operands are canonical,
// so their ids stand for their whole structure.
func signature(n *Node) string {
	var sb strings.Builder
	sb.WriteByte(byte(n.Kind))
	sb.WriteByte(byte(n.Op))
	sb.WriteByte(byte(n.Fn))
	sb.WriteByte(byte(n.Type))
	sb.WriteString(strconv.FormatInt(n.Int, 36))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(math.Float64bits(n.Real), 36))
	for _, a := range n.Args {
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatUint(uint64(a.id), 36))
	}
	if n.Label != "" || n.Name != "" || n.File != "" {
		sb.WriteString(strconv.Quote(n.Label))
		sb.WriteString(strconv.Quote(n.Name))
		sb.WriteString(strconv.Quote(n.File))
	}
	return sb.String()
}

func (n *Node) clone() Node {
	cp := *n
	cp.Args = append([]Box(nil), n.Args...)
	cp.Pairs = append([]Pair(nil), n.Pairs...)
	return cp
}

// Tx gives the compiler unlocked access to a context inside Session.
type Tx struct {
	c *Context
}

// Node returns the payload of b.
func (tx *Tx) Node(b Box) (Node, error) {
	n, err := tx.c.lookup(b)
	if err != nil {
		return Node{}, err
	}
	return *n, nil
}

// Graph returns the signal graph owned by the context.
func (tx *Tx) Graph() *signal.Graph { return tx.c.graph }

// Logger returns the context logger.
func (tx *Tx) Logger() *slog.Logger { return tx.c.logger }

// Hooks returns the hooks the context was created with. Callers fire them
// after the session ends so that hooks may use the context.
func (c *Context) Hooks() domain.Hooks { return c.hooks }

// Lookup returns the memoized outputs of b compiled against env.
func (tx *Tx) Lookup(b Box, env []signal.Signal) ([]signal.Signal, bool) {
	outs, ok := tx.c.memo[memoKey(b, env)]
	return outs, ok
}

// Remember stores the outputs of b compiled against env.
func (tx *Tx) Remember(b Box, env, outs []signal.Signal) {
	tx.c.memo[memoKey(b, env)] = slices.Clip(slices.Clone(outs))
}

func memoKey(b Box, env []signal.Signal) string {
	buf := make([]byte, 0, 8+6*len(env))
	buf = strconv.AppendUint(buf, uint64(b.id), 36)
	for _, s := range env {
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, uint64(s.ID()), 36)
	}
	return string(buf)
}
