package interval

import (
	"math"

	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

// Input is the range assumed for audio inputs.
var Input = New(-1, 1)

// Infer returns the range of every node of p, indexed by node id. Index 0 is unused.
// Recursive taps are unbounded, so a value inside a feedback loop is bounded only
// when its own operation bounds it (e.g. sin).
func Infer(p *factory.Program) []Interval {
	in := &inference{p: p, ranges: make([]Interval, len(p.Nodes)+1), state: make([]uint8, len(p.Nodes)+1)}
	for id := range p.Nodes {
		in.of(uint32(id + 1))
	}
	return in.ranges
}

// Outputs returns the range of every output of p.
func Outputs(p *factory.Program) []Interval {
	ranges := Infer(p)
	out := make([]Interval, len(p.Outputs))
	for i, o := range p.Outputs {
		out[i] = ranges[o]
	}
	return out
}

type inference struct {
	p      *factory.Program
	ranges []Interval
	state  []uint8 // 0 pending, 1 in progress, 2 done
}

func (in *inference) of(id uint32) Interval {
	switch in.state[id] {
	case 1:
		return Full()
	case 2:
		return in.ranges[id]
	}
	in.state[id] = 1
	n, _ := in.p.Node(id)
	r := in.node(n)
	in.ranges[id] = r
	in.state[id] = 2
	return r
}

func (in *inference) arg(n factory.Node, i int) Interval {
	if i >= len(n.Args) {
		return Full()
	}
	return in.of(n.Args[i])
}

func (in *inference) constant(n factory.Node, i int) float64 {
	if i >= len(n.Args) {
		return math.NaN()
	}
	c, _ := in.p.Node(n.Args[i])
	if c.Kind == domain.SigInt.String() {
		return float64(c.Int)
	}
	return c.Real
}

func (in *inference) node(n factory.Node) Interval {
	kind, _ := domain.ParseSignalKind(n.Kind)
	switch kind {
	case domain.SigInt:
		return Point(float64(n.Int))
	case domain.SigReal:
		return Point(n.Real)
	case domain.SigInput:
		return Input
	case domain.SigButton, domain.SigCheckbox:
		return New(0, 1)
	case domain.SigVSlider, domain.SigHSlider, domain.SigNumEntry:
		return New(in.constant(n, 1), in.constant(n, 2))
	case domain.SigVBargraph, domain.SigHBargraph:
		return in.arg(n, 2)
	case domain.SigAttach:
		return in.arg(n, 0)
	case domain.SigIntCast:
		return Monotone(math.Trunc, in.arg(n, 0))
	case domain.SigFloatCast:
		return in.arg(n, 0)
	case domain.SigDelay:
		// Delay lines start out filled with zeros
		return Union(in.arg(n, 0), Point(0))
	case domain.SigSelect2:
		in.arg(n, 0)
		return Union(in.arg(n, 1), in.arg(n, 2))
	case domain.SigSelect3:
		in.arg(n, 0)
		return Union(Union(in.arg(n, 1), in.arg(n, 2)), in.arg(n, 3))
	case domain.SigReadOnlyTable:
		return in.arg(n, 1)
	case domain.SigWriteReadTable:
		return Union(in.arg(n, 1), in.arg(n, 3))
	case domain.SigWaveform:
		out := Empty()
		for i := range n.Args {
			out = Union(out, in.arg(n, i))
		}
		return out
	case domain.SigSoundfileLength, domain.SigSoundfileRate:
		return New(0, math.Inf(1))
	case domain.SigSoundfileBuffer:
		return New(-1, 1)
	case domain.SigBinOp:
		op, _ := domain.ParseOperator(n.Op)
		return binop(op, in.arg(n, 0), in.arg(n, 1))
	case domain.SigMath:
		fn, _ := domain.ParseMathFunc(n.Fn)
		return mathFunc(fn, in.arg(n, 0), in.arg(n, 1))
	}
	// taps, foreign symbols and sound files themselves
	return Full()
}

func binop(op domain.Operator, x, y Interval) Interval {
	if op.Comparison() {
		return New(0, 1)
	}
	switch op {
	case domain.OpAdd:
		return Add(x, y)
	case domain.OpSub:
		return Sub(x, y)
	case domain.OpMul:
		return Mul(x, y)
	case domain.OpDiv:
		return Div(x, y)
	case domain.OpRem:
		return Rem(x, y)
	}
	return Full()
}

func mathFunc(fn domain.MathFunc, x, y Interval) Interval {
	switch fn {
	case domain.MathAbs:
		return Abs(x)
	case domain.MathSin, domain.MathCos:
		return New(-1, 1)
	case domain.MathSqrt:
		return Monotone(math.Sqrt, Intersect(x, New(0, math.Inf(1))))
	case domain.MathExp:
		return Monotone(math.Exp, x)
	case domain.MathExp10:
		return Monotone(func(v float64) float64 { return math.Pow(10, v) }, x)
	case domain.MathLog:
		return Monotone(math.Log, Intersect(x, New(0, math.Inf(1))))
	case domain.MathLog10:
		return Monotone(math.Log10, Intersect(x, New(0, math.Inf(1))))
	case domain.MathFloor:
		return Monotone(math.Floor, x)
	case domain.MathCeil:
		return Monotone(math.Ceil, x)
	case domain.MathRint:
		return Monotone(math.RoundToEven, x)
	case domain.MathAtan:
		return Monotone(math.Atan, x)
	case domain.MathAsin:
		return Monotone(math.Asin, Intersect(x, New(-1, 1)))
	case domain.MathAcos:
		return Neg(Monotone(func(v float64) float64 { return -math.Acos(v) }, Intersect(x, New(-1, 1))))
	case domain.MathMin:
		return Min(x, y)
	case domain.MathMax:
		return Max(x, y)
	case domain.MathFmod:
		return Rem(x, y)
	case domain.MathRemainder:
		if x.IsEmpty() || y.IsEmpty() {
			return Empty()
		}
		m := math.Max(math.Abs(y.Lo), math.Abs(y.Hi)) / 2
		return New(-m, m)
	case domain.MathAtan2:
		return New(-math.Pi, math.Pi)
	}
	return Full()
}
