package signal

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/faustbox/pkg/domain"
)

var (
	// ErrNotTap is returned when ResolveTap receives a signal that is not a tap.
	ErrNotTap = errors.New("signal is not a recursive tap")
	// ErrTapResolved is returned when a tap is resolved twice.
	ErrTapResolved = errors.New("recursive tap already resolved")
)

// Graph is a hash-consed arena of signal nodes.
// It is not safe for concurrent use; the owning box context serializes access.
type Graph struct {
	gen   uint32
	nodes []Node // nodes[0] is the zero handle
	index map[string]uint32
	taps  int
}

// NewGraph creates an empty graph whose handles carry the given generation.
func NewGraph(gen uint32) *Graph {
	return &Graph{
		gen:   gen,
		nodes: make([]Node, 1, 64),
		index: make(map[string]uint32),
	}
}

// Gen returns the generation stamped on every handle of this graph.
func (g *Graph) Gen() uint32 { return g.gen }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) - 1 }

// Taps returns the number of taps allocated so far.
func (g *Graph) Taps() int { return g.taps }

// Owns reports whether s is a handle of this graph.
func (g *Graph) Owns(s Signal) bool {
	return s.gen == g.gen && s.id != 0 && int(s.id) < len(g.nodes)
}

// Node returns the payload of s.
func (g *Graph) Node(s Signal) (Node, error) {
	if s.IsZero() {
		return Node{}, fmt.Errorf("%w: zero signal", domain.ErrInvalidBox)
	}
	if s.gen != g.gen {
		return Node{}, fmt.Errorf("%w: signal %s belongs to another context", domain.ErrContextLifecycle, s)
	}
	if int(s.id) >= len(g.nodes) {
		return Node{}, fmt.Errorf("%w: unknown signal %s", domain.ErrInvalidBox, s)
	}
	return g.nodes[s.id], nil
}

// node is the unchecked accessor used once a handle is known to belong to g.
func (g *Graph) node(s Signal) *Node {
	return &g.nodes[s.id]
}

// Signals returns every handle of the graph in allocation order.
func (g *Graph) Signals() []Signal {
	out := make([]Signal, 0, g.Len())
	for id := 1; id < len(g.nodes); id++ {
		out = append(out, Signal{id: uint32(id), gen: g.gen})
	}
	return out
}

func (g *Graph) intern(n Node) Signal {
	key := signature(n)
	if id, ok := g.index[key]; ok {
		return Signal{id: id, gen: g.gen}
	}
	id := uint32(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.index[key] = id
	return Signal{id: id, gen: g.gen}
}

// signature renders the structural identity of a node. Operands are already canonical,
// so their ids stand for their whole subgraph.
func signature(n Node) string {
	buf := make([]byte, 0, 32+8*len(n.Args))
	buf = append(buf, byte(n.Kind), byte(n.Op), byte(n.Fn), byte(n.Type))
	buf = strconv.AppendInt(buf, n.Int, 36)
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, math.Float64bits(n.Real), 36)
	for _, a := range n.Args {
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, uint64(a.id), 36)
	}
	if n.Label != "" || n.Name != "" || n.File != "" {
		buf = strconv.AppendQuote(buf, n.Label)
		buf = strconv.AppendQuote(buf, n.Name)
		buf = strconv.AppendQuote(buf, n.File)
	}
	return string(buf)
}

func (g *Graph) Int(n int64) Signal {
	return g.intern(Node{Kind: domain.SigInt, Int: n})
}

func (g *Graph) Real(x float64) Signal {
	return g.intern(Node{Kind: domain.SigReal, Real: x})
}

// Input is the i-th (0-based) input of the compiled process.
func (g *Graph) Input(i int) Signal {
	return g.intern(Node{Kind: domain.SigInput, Int: int64(i)})
}

func (g *Graph) BinOp(op domain.Operator, x, y Signal) Signal {
	return g.intern(Node{Kind: domain.SigBinOp, Op: op, Args: []Signal{x, y}})
}

func (g *Graph) Add(x, y Signal) Signal {
	return g.BinOp(domain.OpAdd, x, y)
}

// Math applies fn to one or two operands depending on its arity.
func (g *Graph) Math(fn domain.MathFunc, args ...Signal) Signal {
	return g.intern(Node{Kind: domain.SigMath, Fn: fn, Args: append([]Signal(nil), args...)})
}

func (g *Graph) IntCast(x Signal) Signal {
	return g.intern(Node{Kind: domain.SigIntCast, Args: []Signal{x}})
}

func (g *Graph) FloatCast(x Signal) Signal {
	return g.intern(Node{Kind: domain.SigFloatCast, Args: []Signal{x}})
}

// Delay is x delayed by d samples.
func (g *Graph) Delay(x, d Signal) Signal {
	return g.intern(Node{Kind: domain.SigDelay, Args: []Signal{x, d}})
}

func (g *Graph) Select2(sel, x, y Signal) Signal {
	return g.intern(Node{Kind: domain.SigSelect2, Args: []Signal{sel, x, y}})
}

func (g *Graph) Select3(sel, x, y, z Signal) Signal {
	return g.intern(Node{Kind: domain.SigSelect3, Args: []Signal{sel, x, y, z}})
}

func (g *Graph) FConst(t domain.SType, name, file string) Signal {
	return g.intern(Node{Kind: domain.SigFConst, Type: t, Name: name, File: file})
}

func (g *Graph) FVar(t domain.SType, name, file string) Signal {
	return g.intern(Node{Kind: domain.SigFVar, Type: t, Name: name, File: file})
}

func (g *Graph) Button(label string) Signal {
	return g.intern(Node{Kind: domain.SigButton, Label: label})
}

func (g *Graph) Checkbox(label string) Signal {
	return g.intern(Node{Kind: domain.SigCheckbox, Label: label})
}

// Slider builds a VSlider, HSlider or NumEntry node. The parameters are stored as Real literals.
func (g *Graph) Slider(kind domain.SignalKind, label string, init, lo, hi, step float64) Signal {
	args := []Signal{g.Real(init), g.Real(lo), g.Real(hi), g.Real(step)}
	return g.intern(Node{Kind: kind, Label: label, Args: args})
}

// Bargraph builds a VBargraph or HBargraph node displaying x.
func (g *Graph) Bargraph(kind domain.SignalKind, label string, lo, hi float64, x Signal) Signal {
	return g.intern(Node{Kind: kind, Label: label, Args: []Signal{g.Real(lo), g.Real(hi), x}})
}

// Attach has the value of x and keeps y in the graph.
func (g *Graph) Attach(x, y Signal) Signal {
	return g.intern(Node{Kind: domain.SigAttach, Args: []Signal{x, y}})
}

func (g *Graph) ReadOnlyTable(size, init, ridx Signal) Signal {
	return g.intern(Node{Kind: domain.SigReadOnlyTable, Args: []Signal{size, init, ridx}})
}

func (g *Graph) WriteReadTable(size, init, widx, wsig, ridx Signal) Signal {
	return g.intern(Node{Kind: domain.SigWriteReadTable, Args: []Signal{size, init, widx, wsig, ridx}})
}

// Waveform is the periodic signal cycling through values.
func (g *Graph) Waveform(values ...Signal) Signal {
	return g.intern(Node{Kind: domain.SigWaveform, Args: append([]Signal(nil), values...)})
}

func (g *Graph) Soundfile(label string) Signal {
	return g.intern(Node{Kind: domain.SigSoundfile, Label: label})
}

func (g *Graph) SoundfileLength(sf, part Signal) Signal {
	return g.intern(Node{Kind: domain.SigSoundfileLength, Args: []Signal{sf, part}})
}

func (g *Graph) SoundfileRate(sf, part Signal) Signal {
	return g.intern(Node{Kind: domain.SigSoundfileRate, Args: []Signal{sf, part}})
}

func (g *Graph) SoundfileBuffer(sf, channel, part, ridx Signal) Signal {
	return g.intern(Node{Kind: domain.SigSoundfileBuffer, Args: []Signal{sf, channel, part, ridx}})
}

// NewTap allocates a fresh, unresolved recursive tap. Taps are never shared.
func (g *Graph) NewTap() Signal {
	id := uint32(len(g.nodes))
	g.nodes = append(g.nodes, Node{Kind: domain.SigTap, Int: int64(g.taps)})
	g.taps++
	return Signal{id: id, gen: g.gen}
}

// ResolveTap binds tap to target delayed by delay samples. A tap can be resolved once.
func (g *Graph) ResolveTap(tap, target Signal, delay int) error {
	n, err := g.Node(tap)
	if err != nil {
		return err
	}
	if _, err := g.Node(target); err != nil {
		return err
	}
	if n.Kind != domain.SigTap {
		return fmt.Errorf("%w: %s is %s", ErrNotTap, tap, n.Kind)
	}
	if n.Resolved {
		return fmt.Errorf("%w: %s", ErrTapResolved, tap)
	}
	if delay < 0 {
		return fmt.Errorf("negative tap delay %d", delay)
	}
	p := g.node(tap)
	p.Args = []Signal{target}
	p.Delay = delay
	p.Resolved = true
	return nil
}
