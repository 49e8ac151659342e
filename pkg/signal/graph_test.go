package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox/pkg/domain"
)

func TestGraph_HashConsing(t *testing.T) {
	g := NewGraph(1)
	a := g.Input(0)
	b := g.Input(1)

	assert.Equal(t, a, g.Input(0))
	assert.NotEqual(t, a, b)

	sum := g.Add(a, b)
	assert.Equal(t, sum, g.BinOp(domain.OpAdd, a, b))
	assert.NotEqual(t, sum, g.Add(b, a), "operand order is part of the structure")
	assert.NotEqual(t, g.Int(1), g.Real(1))
	assert.Equal(t, g.FConst(domain.TypeInt, "fSamplingFreq", "<math.h>"), g.FConst(domain.TypeInt, "fSamplingFreq", "<math.h>"))
	assert.NotEqual(t, g.Button("gate"), g.Checkbox("gate"))
	assert.Equal(t, 9, g.Len())
}

func TestGraph_TapsAreFresh(t *testing.T) {
	g := NewGraph(1)
	t1 := g.NewTap()
	t2 := g.NewTap()
	assert.NotEqual(t, t1, t2)
	assert.Equal(t, 2, g.Taps())

	x := g.Input(0)
	require.NoError(t, g.ResolveTap(t1, x, 1))
	assert.ErrorIs(t, g.ResolveTap(t1, x, 1), ErrTapResolved)
	assert.ErrorIs(t, g.ResolveTap(x, t2, 1), ErrNotTap)

	n, err := g.Node(t1)
	require.NoError(t, err)
	assert.True(t, n.Resolved)
	assert.Equal(t, 1, n.Delay)
	assert.Equal(t, []Signal{x}, n.Args)
}

func TestGraph_ForeignHandles(t *testing.T) {
	g1 := NewGraph(1)
	g2 := NewGraph(2)
	s := g1.Int(3)

	_, err := g2.Node(s)
	assert.ErrorIs(t, err, domain.ErrContextLifecycle)

	_, err = g1.Node(Signal{})
	assert.ErrorIs(t, err, domain.ErrInvalidBox)
	assert.False(t, g2.Owns(s))
}

func TestGraph_Constant(t *testing.T) {
	g := NewGraph(1)
	tests := []struct {
		name     string
		sig      Signal
		want     float64
		integral bool
		ok       bool
	}{
		{"int", g.Int(4), 4, true, true},
		{"real", g.Real(0.5), 0.5, false, true},
		{"int sum", g.Add(g.Int(2), g.Int(3)), 5, true, true},
		{"mixed product", g.BinOp(domain.OpMul, g.Int(2), g.Real(0.25)), 0.5, false, true},
		{"integer division", g.BinOp(domain.OpDiv, g.Int(7), g.Int(2)), 3, true, true},
		{"division by zero", g.BinOp(domain.OpDiv, g.Int(7), g.Int(0)), 0, false, false},
		{"comparison", g.BinOp(domain.OpLT, g.Real(0.1), g.Int(1)), 1, true, true},
		{"shift", g.BinOp(domain.OpLsh, g.Int(1), g.Int(4)), 16, true, true},
		{"cast", g.IntCast(g.Real(2.7)), 2, true, true},
		{"math", g.Math(domain.MathMax, g.Int(2), g.Real(3.5)), 3.5, false, true},
		{"input", g.Add(g.Input(0), g.Int(1)), 0, false, false},
		{"foreign", g.FConst(domain.TypeInt, "SR", "<math.h>"), 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, integral, ok := g.Constant(tt.sig)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, v, 1e-12)
				assert.Equal(t, tt.integral, integral)
			}
		})
	}

	n, ok := g.IntConstant(g.Add(g.Int(2), g.Int(3)))
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)
	_, ok = g.IntConstant(g.Real(5))
	assert.False(t, ok)
}

func TestGraph_Format(t *testing.T) {
	g := NewGraph(1)
	tap := g.NewTap()
	out := g.Add(g.Input(0), g.BinOp(domain.OpMul, tap, g.Real(0.5)))
	require.NoError(t, g.ResolveTap(tap, out, 1))

	assert.Equal(t, "(in0 + (tap0 * 0.5))", g.Format(out))
	assert.Equal(t, `hslider("freq")`, g.Format(g.Slider(domain.SigHSlider, "freq", 440, 20, 2000, 1)))
	assert.Equal(t, "sin(in1)", g.Format(g.Math(domain.MathSin, g.Input(1))))
}

func TestGraph_VerifyFeedbackLoop(t *testing.T) {
	g := NewGraph(1)
	tap := g.NewTap()
	out := g.Add(g.Input(0), tap)
	require.NoError(t, g.ResolveTap(tap, out, 1))

	assert.Empty(t, g.Verify([]Signal{out}))
}

func TestGraph_VerifyUnresolvedTap(t *testing.T) {
	g := NewGraph(1)
	tap := g.NewTap()
	out := g.Add(g.Input(0), tap)

	errs := g.Verify([]Signal{out})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrUnresolvedTap)
}

func TestGraph_VerifyZeroDelayCycle(t *testing.T) {
	g := NewGraph(1)
	tap := g.NewTap()
	out := g.Add(g.Input(0), tap)
	require.NoError(t, g.ResolveTap(tap, out, 0))

	errs := g.Verify([]Signal{out})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrZeroDelayCycle)
	assert.Contains(t, errs[0].Error(), tap.String())
}

func TestGraph_VerifyExplicitDelayBreaksCycle(t *testing.T) {
	g := NewGraph(1)
	tap := g.NewTap()
	out := g.Add(g.Input(0), g.Delay(tap, g.Int(1)))
	require.NoError(t, g.ResolveTap(tap, out, 0))

	assert.Empty(t, g.Verify([]Signal{out}))
}

func TestGraph_WalkOrder(t *testing.T) {
	g := NewGraph(1)
	a, b := g.Input(0), g.Input(1)
	sum := g.Add(a, b)
	prod := g.BinOp(domain.OpMul, sum, a)

	var order []Signal
	require.NoError(t, g.Walk([]Signal{prod, sum}, func(s Signal, _ Node) error {
		order = append(order, s)
		return nil
	}))
	assert.Equal(t, []Signal{a, b, sum, prod}, order)
}
