/*
Package box implements the block-diagram algebra and the Context that owns it.

A Context is a hash-consing arena: every constructor checks the well-formedness of
its operands, computes the resulting Arity and returns the canonical Box handle for
that structure. Building the same structure twice yields the same handle, so a
diagram is a DAG of shared subexpressions and structural equality is handle
equality.

Handles are only valid for the Context that produced them and only until
Context.Destroy is called. Using a handle elsewhere fails with
domain.ErrContextLifecycle.

# Usage

	ctx := box.NewContext()
	defer ctx.Destroy()

	wire, _ := ctx.Wire()
	add, _ := ctx.BinOp(domain.OpAdd)
	stereo, _ := ctx.Par(wire, wire)
	mono, err := ctx.Merge(stereo, wire) // (2,1)

The compiler reads boxes and writes signals through Context.Session, which holds
the context lock for the duration of a compilation.
*/
package box
