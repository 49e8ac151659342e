package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
)

func TestBuilder_OnePole(t *testing.T) {
	ctx := box.NewContext()
	defer ctx.Destroy()

	b := New(ctx)
	gain := b.Wire().Par(b.Real(0.5)).Seq(b.Op(domain.OpMul))
	root, err := b.Build(b.Op(domain.OpAdd).Rec(gain))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// Same diagram through the context API
	w, _ := ctx.Wire()
	half, _ := ctx.Real(0.5)
	mul, _ := ctx.BinOp(domain.OpMul)
	add, _ := ctx.BinOp(domain.OpAdd)
	in, _ := ctx.Par(w, half)
	g, _ := ctx.Seq(in, mul)
	want, _ := ctx.Rec(add, g)

	if root != want {
		t.Errorf("Expected %s, got %s", want, root)
	}
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	ctx := box.NewContext()
	defer ctx.Destroy()

	b := New(ctx)
	bad := b.Int(1).Seq(b.Bus(2))
	_ = b.Route(2, 2, [2]int{1, 5})

	if !errors.Is(b.Err(), domain.ErrArityMismatch) {
		t.Fatalf("Expected arity mismatch, got %v", b.Err())
	}
	if !bad.Box().IsZero() {
		t.Errorf("Expected zero box for failed expression")
	}
	if _, err := b.Build(b.Wire()); !errors.Is(err, domain.ErrArityMismatch) {
		t.Errorf("Expected Build to report the first error, got %v", err)
	}
}

func TestBuilder_Route(t *testing.T) {
	ctx := box.NewContext()
	defer ctx.Destroy()

	b := New(ctx)
	swap, err := b.Build(b.Route(2, 2, [2]int{1, 2}, [2]int{2, 1}))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	n, err := ctx.Node(swap)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Pairs) != 2 || n.Pairs[0] != (box.Pair{In: 1, Out: 2}) || n.Pairs[1] != (box.Pair{In: 2, Out: 1}) {
		t.Errorf("Unexpected pairs: %v", n.Pairs)
	}

	b2 := New(ctx)
	b2.Route(2, 2, [2]int{1, 3})
	if !errors.Is(b2.Err(), domain.ErrRoutingIndexOutOfRange) {
		t.Errorf("Expected routing error, got %v", b2.Err())
	}
}

func TestBuilder_Widgets(t *testing.T) {
	ctx := box.NewContext()
	defer ctx.Destroy()

	b := New(ctx)
	root, err := b.Build(b.HSlider("gain", 0.5, 0, 1, 0.01).Par(b.Wire()).Seq(b.Op(domain.OpMul)).Seq(b.Bargraph("out", 0, 1)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	arity, _ := ctx.Arity(root)
	if arity != (domain.Arity{Inputs: 1, Outputs: 1}) {
		t.Errorf("Expected (1,1), got %s", arity)
	}
}
