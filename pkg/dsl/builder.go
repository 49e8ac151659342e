package dsl

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
)

// Builder manages diagram construction on a context.
type Builder struct {
	ctx *box.Context
	err error
}

// New creates a builder interning into ctx.
func New(ctx *box.Context) *Builder {
	return &Builder{ctx: ctx}
}

// Err returns the first construction error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the box of e or the first error met while building it.
func (b *Builder) Build(e Expr) (box.Box, error) {
	if b.err != nil {
		return box.Box{}, b.err
	}
	if e.b != b {
		return box.Box{}, fmt.Errorf("%w: expression from another builder", domain.ErrInvalidBox)
	}
	return e.box, nil
}

// wrap records err (the first one wins) and turns a constructor result into an Expr.
func (b *Builder) wrap(bx box.Box, err error) Expr {
	if b.err != nil {
		return Expr{b: b}
	}
	if err != nil {
		b.err = err
		return Expr{b: b}
	}
	return Expr{b: b, box: bx}
}

// try runs fn unless an error was already captured.
func (b *Builder) try(fn func() (box.Box, error)) Expr {
	if b.err != nil {
		return Expr{b: b}
	}
	return b.wrap(fn())
}

func (b *Builder) Int(n int) Expr {
	return b.try(func() (box.Box, error) { return b.ctx.Int(n) })
}

func (b *Builder) Real(x float64) Expr {
	return b.try(func() (box.Box, error) { return b.ctx.Real(x) })
}

func (b *Builder) Wire() Expr { return b.try(b.ctx.Wire) }

func (b *Builder) Cut() Expr { return b.try(b.ctx.Cut) }

func (b *Builder) Delay() Expr { return b.try(b.ctx.Delay) }

func (b *Builder) Select2() Expr { return b.try(b.ctx.Select2) }

func (b *Builder) Attach() Expr { return b.try(b.ctx.Attach) }

// Op is a binary operator box.
func (b *Builder) Op(op domain.Operator) Expr {
	return b.try(func() (box.Box, error) { return b.ctx.BinOp(op) })
}

// Math is a math function box.
func (b *Builder) Math(fn domain.MathFunc) Expr {
	return b.try(func() (box.Box, error) { return b.ctx.Math(fn) })
}

func (b *Builder) Button(label string) Expr {
	return b.try(func() (box.Box, error) { return b.ctx.Button(label) })
}

// HSlider builds a horizontal slider from constant parameters.
func (b *Builder) HSlider(label string, init, lo, hi, step float64) Expr {
	params := b.reals(init, lo, hi, step)
	return b.try(func() (box.Box, error) {
		return b.ctx.HSlider(label, params[0], params[1], params[2], params[3])
	})
}

// VSlider builds a vertical slider from constant parameters.
func (b *Builder) VSlider(label string, init, lo, hi, step float64) Expr {
	params := b.reals(init, lo, hi, step)
	return b.try(func() (box.Box, error) {
		return b.ctx.VSlider(label, params[0], params[1], params[2], params[3])
	})
}

// Bargraph builds a horizontal bargraph displaying its input.
func (b *Builder) Bargraph(label string, lo, hi float64) Expr {
	params := b.reals(lo, hi)
	return b.try(func() (box.Box, error) { return b.ctx.HBargraph(label, params[0], params[1]) })
}

// FConst references a foreign constant.
func (b *Builder) FConst(t domain.SType, name, file string) Expr {
	return b.try(func() (box.Box, error) { return b.ctx.FConst(t, name, file) })
}

// Route wires n inputs to m outputs through (input, output) pairs, 1-based.
func (b *Builder) Route(n, m int, pairs ...[2]int) Expr {
	if len(pairs) == 0 {
		return b.wrap(box.Box{}, fmt.Errorf("%w: route without pairs", domain.ErrArityMismatch))
	}
	desc := b.Int(pairs[0][0]).Par(b.Int(pairs[0][1]))
	for _, p := range pairs[1:] {
		desc = desc.Par(b.Int(p[0]).Par(b.Int(p[1])))
	}
	ni, mi := b.Int(n), b.Int(m)
	return b.try(func() (box.Box, error) { return b.ctx.Route(ni.box, mi.box, desc.box) })
}

// Bus is n wires in parallel.
func (b *Builder) Bus(n int) Expr {
	if n < 1 {
		return b.wrap(box.Box{}, fmt.Errorf("%w: bus of %d wires", domain.ErrArityMismatch, n))
	}
	e := b.Wire()
	for i := 1; i < n; i++ {
		e = e.Par(b.Wire())
	}
	return e
}

func (b *Builder) reals(xs ...float64) []box.Box {
	out := make([]box.Box, len(xs))
	for i, x := range xs {
		out[i] = b.Real(x).box
	}
	return out
}
