package signal

import (
	"math"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Constant evaluates s if it is a constant expression built from literals, casts,
// binary operators and math functions. integral reports whether the result has
// integer type.
func (g *Graph) Constant(s Signal) (value float64, integral bool, ok bool) {
	if !g.Owns(s) {
		return 0, false, false
	}
	n := g.node(s)
	switch n.Kind {
	case domain.SigInt:
		return float64(n.Int), true, true
	case domain.SigReal:
		return n.Real, false, true
	case domain.SigIntCast:
		v, _, ok := g.Constant(n.Args[0])
		return math.Trunc(v), true, ok
	case domain.SigFloatCast:
		v, _, ok := g.Constant(n.Args[0])
		return v, false, ok
	case domain.SigBinOp:
		x, xi, ok := g.Constant(n.Args[0])
		if !ok {
			return 0, false, false
		}
		y, yi, ok := g.Constant(n.Args[1])
		if !ok {
			return 0, false, false
		}
		return evalBinOp(n.Op, x, y, xi && yi)
	case domain.SigMath:
		var args [2]float64
		for i, a := range n.Args {
			v, _, ok := g.Constant(a)
			if !ok {
				return 0, false, false
			}
			args[i] = v
		}
		v := n.Fn.Eval(args[0], args[1])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false, false
		}
		return v, false, true
	}
	return 0, false, false
}

// IntConstant evaluates s as an integer constant.
func (g *Graph) IntConstant(s Signal) (int64, bool) {
	v, integral, ok := g.Constant(s)
	if !ok || !integral {
		return 0, false
	}
	return int64(v), true
}

func evalBinOp(op domain.Operator, x, y float64, integral bool) (float64, bool, bool) {
	if op.Comparison() {
		return boolValue(compare(op, x, y)), true, true
	}
	if op.Integral() || integral {
		a, b := int64(x), int64(y)
		var r int64
		switch op {
		case domain.OpAdd:
			r = a + b
		case domain.OpSub:
			r = a - b
		case domain.OpMul:
			r = a * b
		case domain.OpDiv:
			if b == 0 {
				return 0, false, false
			}
			r = a / b
		case domain.OpRem:
			if b == 0 {
				return 0, false, false
			}
			r = a % b
		case domain.OpLsh:
			r = a << uint64(b&63)
		case domain.OpARsh:
			r = a >> uint64(b&63)
		case domain.OpLRsh:
			r = int64(uint64(a) >> uint64(b&63))
		case domain.OpAND:
			r = a & b
		case domain.OpOR:
			r = a | b
		case domain.OpXOR:
			r = a ^ b
		default:
			return 0, false, false
		}
		return float64(r), true, true
	}
	var r float64
	switch op {
	case domain.OpAdd:
		r = x + y
	case domain.OpSub:
		r = x - y
	case domain.OpMul:
		r = x * y
	case domain.OpDiv:
		if y == 0 {
			return 0, false, false
		}
		r = x / y
	case domain.OpRem:
		if y == 0 {
			return 0, false, false
		}
		r = math.Mod(x, y)
	default:
		return 0, false, false
	}
	return r, false, true
}

func compare(op domain.Operator, x, y float64) bool {
	switch op {
	case domain.OpGT:
		return x > y
	case domain.OpLT:
		return x < y
	case domain.OpGE:
		return x >= y
	case domain.OpLE:
		return x <= y
	case domain.OpEQ:
		return x == y
	case domain.OpNE:
		return x != y
	}
	return false
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
