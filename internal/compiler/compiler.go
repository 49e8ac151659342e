package compiler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/faustbox/internal/logging"
	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/signal"
)

// Compiler turns boxes into signals.
type Compiler struct {
	resolver ForeignResolver
	logger   *slog.Logger
}

// Option configures the Compiler.
type Option func(*Compiler)

// WithForeignResolver sets how foreign constants and variables are checked.
// Defaults to an IncludePathResolver over the working directory.
func WithForeignResolver(r ForeignResolver) Option {
	return func(c *Compiler) {
		c.resolver = r
	}
}

// WithLogger sets the compiler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates a compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		resolver: IncludePathResolver{Dirs: []string{"."}},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile flattens root into one signal per output, binding root input i to Input(i).
// On any diagnostic it returns a *domain.CompileError and no signals.
func (c *Compiler) Compile(ctx *box.Context, root box.Box) ([]signal.Signal, error) {
	var (
		outs  []signal.Signal
		event domain.CompileEvent
		fired bool
	)
	err := ctx.Session(func(tx *box.Tx) error {
		start := time.Now()
		rn, err := tx.Node(root)
		if err != nil {
			return err
		}
		g := tx.Graph()
		env := make([]signal.Signal, rn.Arity.Inputs)
		for i := range env {
			env[i] = g.Input(i)
		}

		st := &state{tx: tx, g: g, resolver: c.resolver}
		res := st.compile(root, env)
		if len(st.diags) == 0 {
			for _, verr := range g.Verify(res) {
				st.diags = append(st.diags, domain.Diagnostic{Err: verr})
			}
		}

		fired = true
		event = domain.CompileEvent{
			Root:        rn.Arity,
			Nodes:       g.Len(),
			Diagnostics: len(st.diags),
			Duration:    time.Since(start),
		}
		if len(st.diags) > 0 {
			cerr := &domain.CompileError{Diagnostics: st.diags}
			event.Err = cerr
			c.logger.Debug("Compilation failed", "arity", rn.Arity.String(), "diagnostics", len(st.diags))
			return cerr
		}
		event.Signals = len(res)
		c.logger.Debug("Compiled box",
			"arity", rn.Arity.String(),
			"signals", len(res),
			"nodes", g.Len(),
			"memo_hits", st.hits,
			"duration", event.Duration,
		)
		outs = res
		return nil
	})
	if fired {
		ctx.Hooks().Compile(event)
	}
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// state holds one compilation's diagnostics and the current box path.
type state struct {
	tx       *box.Tx
	g        *signal.Graph
	resolver ForeignResolver
	diags    []domain.Diagnostic
	path     []string
	hits     int
}

func (s *state) report(err error) {
	s.diags = append(s.diags, domain.Diagnostic{Err: err, Path: strings.Join(s.path, "/")})
}

// node reads a box known to be valid: operands are checked when a box is
// constructed and the context cannot be destroyed while the session is open.
func (s *state) node(b box.Box) box.Node {
	n, err := s.tx.Node(b)
	if err != nil {
		panic(fmt.Sprintf("compiler: corrupted operand %s: %v", b, err))
	}
	return n
}

// child compiles operand i of the current box.
func (s *state) child(i int, b box.Box, env []signal.Signal) []signal.Signal {
	s.path = append(s.path, strconv.Itoa(i))
	defer func() { s.path = s.path[:len(s.path)-1] }()
	return s.compile(b, env)
}

func (s *state) compile(b box.Box, env []signal.Signal) []signal.Signal {
	if outs, ok := s.tx.Lookup(b, env); ok {
		s.hits++
		return outs
	}
	n := s.node(b)
	s.path = append(s.path, n.Kind.String())
	defer func() { s.path = s.path[:len(s.path)-1] }()

	before := len(s.diags)
	outs := s.expand(n, env)
	if len(s.diags) == before {
		s.tx.Remember(b, env, outs)
	}
	return outs
}

func one(sig signal.Signal) []signal.Signal { return []signal.Signal{sig} }

func (s *state) expand(n box.Node, env []signal.Signal) []signal.Signal {
	g := s.g
	switch n.Kind {
	case domain.BoxInt:
		return one(g.Int(n.Int))
	case domain.BoxReal:
		return one(g.Real(n.Real))
	case domain.BoxWire:
		return one(env[0])
	case domain.BoxCut:
		return nil
	case domain.BoxDelay:
		return one(g.Delay(env[0], env[1]))
	case domain.BoxIntCast:
		return one(g.IntCast(env[0]))
	case domain.BoxFloatCast:
		return one(g.FloatCast(env[0]))
	case domain.BoxReadOnlyTable:
		s.requireSize(env[0])
		return one(g.ReadOnlyTable(env[0], env[1], env[2]))
	case domain.BoxWriteReadTable:
		s.requireSize(env[0])
		return one(g.WriteReadTable(env[0], env[1], env[2], env[3], env[4]))
	case domain.BoxWaveform:
		values := make([]signal.Signal, len(n.Args))
		for i, v := range n.Args {
			values[i] = s.child(i, v, nil)[0]
		}
		return []signal.Signal{g.Int(int64(len(values))), g.Waveform(values...)}
	case domain.BoxSoundfile:
		sf := g.Soundfile(n.Label)
		outs := []signal.Signal{g.SoundfileLength(sf, env[0]), g.SoundfileRate(sf, env[0])}
		for ch := int64(0); ch < n.Int; ch++ {
			outs = append(outs, g.SoundfileBuffer(sf, g.Int(ch), env[0], env[1]))
		}
		return outs
	case domain.BoxSelect2:
		return one(g.Select2(env[0], env[1], env[2]))
	case domain.BoxSelect3:
		return one(g.Select3(env[0], env[1], env[2], env[3]))
	case domain.BoxFConst, domain.BoxFVar:
		if err := s.resolver.Resolve(n.Name, n.File); err != nil {
			s.report(err)
		}
		if n.Kind == domain.BoxFConst {
			return one(g.FConst(n.Type, n.Name, n.File))
		}
		return one(g.FVar(n.Type, n.Name, n.File))
	case domain.BoxBinOp:
		return one(g.BinOp(n.Op, env[0], env[1]))
	case domain.BoxMath:
		return one(g.Math(n.Fn, env...))
	case domain.BoxButton:
		return one(g.Button(n.Label))
	case domain.BoxCheckbox:
		return one(g.Checkbox(n.Label))
	case domain.BoxVSlider, domain.BoxHSlider, domain.BoxNumEntry:
		p := s.parameters(n)
		return one(g.Slider(sliderKind(n.Kind), n.Label, p[0], p[1], p[2], p[3]))
	case domain.BoxVBargraph, domain.BoxHBargraph:
		p := s.parameters(n)
		return one(g.Bargraph(sliderKind(n.Kind), n.Label, p[0], p[1], env[0]))
	case domain.BoxAttach:
		return one(g.Attach(env[0], env[1]))
	case domain.BoxSeq:
		a := s.child(0, n.Args[0], env)
		return s.child(1, n.Args[1], a)
	case domain.BoxPar:
		return s.par(n, env)
	case domain.BoxSplit:
		return s.split(n, env)
	case domain.BoxMerge:
		return s.merge(n, env)
	case domain.BoxRec:
		return s.rec(n, env)
	case domain.BoxRoute:
		return s.route(n, env)
	}
	panic(fmt.Sprintf("compiler: unhandled box kind %s", n.Kind))
}

func (s *state) par(n box.Node, env []signal.Signal) []signal.Signal {
	left := s.node(n.Args[0]).Arity.Inputs
	a := s.child(0, n.Args[0], env[:left:left])
	b := s.child(1, n.Args[1], env[left:])
	outs := make([]signal.Signal, 0, len(a)+len(b))
	outs = append(outs, a...)
	return append(outs, b...)
}

// split: input i of B receives output i mod out(A).
func (s *state) split(n box.Node, env []signal.Signal) []signal.Signal {
	a := s.child(0, n.Args[0], env)
	width := s.node(n.Args[1]).Arity.Inputs
	bin := make([]signal.Signal, width)
	for i := range bin {
		bin[i] = a[i%len(a)]
	}
	return s.child(1, n.Args[1], bin)
}

// merge: input j of B receives the sum of outputs j, j+in(B), j+2*in(B), ... of A.
func (s *state) merge(n box.Node, env []signal.Signal) []signal.Signal {
	a := s.child(0, n.Args[0], env)
	width := s.node(n.Args[1]).Arity.Inputs
	bin := make([]signal.Signal, width)
	for j := range bin {
		sum := a[j]
		for k := j + width; k < len(a); k += width {
			sum = s.g.Add(sum, a[k])
		}
		bin[j] = sum
	}
	return s.child(1, n.Args[1], bin)
}

// rec compiles B on fresh taps, then A on B's outputs followed by the external
// inputs, and finally resolves each tap to the matching output of A one sample ago.
func (s *state) rec(n box.Node, env []signal.Signal) []signal.Signal {
	width := s.node(n.Args[1]).Arity.Inputs
	taps := make([]signal.Signal, width)
	for i := range taps {
		taps[i] = s.g.NewTap()
	}
	f := s.child(1, n.Args[1], taps)
	ain := make([]signal.Signal, 0, len(f)+len(env))
	ain = append(ain, f...)
	ain = append(ain, env...)
	a := s.child(0, n.Args[0], ain)
	for i, tap := range taps {
		if err := s.g.ResolveTap(tap, a[i], 1); err != nil {
			s.report(err)
		}
	}
	return a
}

// route: output o receives the sum of every input i with a pair (i, o), in pair
// order. Outputs without a pair are zero.
func (s *state) route(n box.Node, env []signal.Signal) []signal.Signal {
	outs := make([]signal.Signal, n.Arity.Outputs)
	for _, p := range n.Pairs {
		in := env[p.In-1]
		if outs[p.Out-1].IsZero() {
			outs[p.Out-1] = in
			continue
		}
		outs[p.Out-1] = s.g.Add(outs[p.Out-1], in)
	}
	for i := range outs {
		if outs[i].IsZero() {
			outs[i] = s.g.Int(0)
		}
	}
	return outs
}

func (s *state) requireSize(size signal.Signal) {
	if _, ok := s.g.IntConstant(size); !ok {
		s.report(fmt.Errorf("%w: table size %s", domain.ErrNotConstant, s.g.Format(size)))
	}
}

// parameters compiles the constant operands of a UI element and folds them.
func (s *state) parameters(n box.Node) []float64 {
	values := make([]float64, len(n.Args))
	for i, p := range n.Args {
		sig := s.child(i, p, nil)[0]
		v, _, ok := s.g.Constant(sig)
		if !ok {
			s.report(fmt.Errorf("%w: %s %q parameter %d is %s", domain.ErrNotConstant, n.Kind, n.Label, i, s.g.Format(sig)))
			continue
		}
		values[i] = v
	}
	return values
}

func sliderKind(k domain.BoxKind) domain.SignalKind {
	switch k {
	case domain.BoxVSlider:
		return domain.SigVSlider
	case domain.BoxHSlider:
		return domain.SigHSlider
	case domain.BoxNumEntry:
		return domain.SigNumEntry
	case domain.BoxVBargraph:
		return domain.SigVBargraph
	case domain.BoxHBargraph:
		return domain.SigHBargraph
	}
	return domain.SigInvalid
}
