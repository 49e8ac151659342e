/*
Package dsl provides a fluent API to build box diagrams in Go code.

Every call on a Builder or an Expr interns a box in the underlying context. The
first construction error is captured by the Builder; later calls become no-ops and
the error is reported by Build, so a diagram can be written as one expression:

	b := dsl.New(ctx)
	gain := b.Wire().Par(b.Real(0.5)).Seq(b.Op(domain.OpMul))
	onePole, err := b.Build(b.Op(domain.OpAdd).Rec(gain))
*/
package dsl
