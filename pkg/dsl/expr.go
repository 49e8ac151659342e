package dsl

import "github.com/aretw0/faustbox/pkg/box"

// Expr is a box under construction. Composition methods return new expressions.
type Expr struct {
	b   *Builder
	box box.Box
}

// Box returns the underlying box, the zero box if construction failed.
func (e Expr) Box() box.Box { return e.box }

func (e Expr) combine(other Expr, fn func(a, b box.Box) (box.Box, error)) Expr {
	return e.b.try(func() (box.Box, error) { return fn(e.box, other.box) })
}

// Seq is e : next.
func (e Expr) Seq(next Expr) Expr { return e.combine(next, e.b.ctx.Seq) }

// Par is e , other.
func (e Expr) Par(other Expr) Expr { return e.combine(other, e.b.ctx.Par) }

// Split is e <: next.
func (e Expr) Split(next Expr) Expr { return e.combine(next, e.b.ctx.Split) }

// Merge is e :> next.
func (e Expr) Merge(next Expr) Expr { return e.combine(next, e.b.ctx.Merge) }

// Rec is e ~ feedback.
func (e Expr) Rec(feedback Expr) Expr { return e.combine(feedback, e.b.ctx.Rec) }
