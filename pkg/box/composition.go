package box

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Seq connects the outputs of a to the inputs of b. Requires out(a) == in(b).
func (c *Context) Seq(a, b Box) (Box, error) {
	return c.construct(domain.BoxSeq, []Box{a, b}, func(ops []*Node, n *Node) error {
		x, y := ops[0].Arity, ops[1].Arity
		if x.Outputs != y.Inputs {
			return fmt.Errorf("%w: seq: outputs(A)=%d != inputs(B)=%d", domain.ErrArityMismatch, x.Outputs, y.Inputs)
		}
		n.Arity = arity(x.Inputs, y.Outputs)
		return nil
	})
}

// Par stacks a above b. It fails only when the stack exceeds MaxPorts.
func (c *Context) Par(a, b Box) (Box, error) {
	return c.construct(domain.BoxPar, []Box{a, b}, func(ops []*Node, n *Node) error {
		x, y := ops[0].Arity, ops[1].Arity
		ar, err := bounded(domain.BoxPar, x.Inputs+y.Inputs, x.Outputs+y.Outputs)
		if err != nil {
			return err
		}
		n.Arity = ar
		return nil
	})
}

// Split distributes the outputs of a round-robin over the inputs of b.
// Requires in(b) to be a multiple of out(a).
func (c *Context) Split(a, b Box) (Box, error) {
	return c.construct(domain.BoxSplit, []Box{a, b}, func(ops []*Node, n *Node) error {
		x, y := ops[0].Arity, ops[1].Arity
		if !multiple(y.Inputs, x.Outputs) {
			return fmt.Errorf("%w: split: inputs(B)=%d is not a multiple of outputs(A)=%d", domain.ErrArityMismatch, y.Inputs, x.Outputs)
		}
		n.Arity = arity(x.Inputs, y.Outputs)
		return nil
	})
}

// Merge sums groups of outputs of a into the inputs of b.
// Requires out(a) to be a multiple of in(b).
func (c *Context) Merge(a, b Box) (Box, error) {
	return c.construct(domain.BoxMerge, []Box{a, b}, func(ops []*Node, n *Node) error {
		x, y := ops[0].Arity, ops[1].Arity
		if !multiple(x.Outputs, y.Inputs) {
			return fmt.Errorf("%w: merge: outputs(A)=%d is not a multiple of inputs(B)=%d", domain.ErrArityMismatch, x.Outputs, y.Inputs)
		}
		n.Arity = arity(x.Inputs, y.Outputs)
		return nil
	})
}

// multiple reports whether n is a multiple of k. Zero is only a multiple of zero.
func multiple(n, k int) bool {
	if k == 0 {
		return n == 0
	}
	return n%k == 0
}

// Rec feeds the first in(b) outputs of a back through b, delayed by one sample,
// into the first out(b) inputs of a. Requires out(a) >= in(b) and in(a) >= out(b).
func (c *Context) Rec(a, b Box) (Box, error) {
	return c.construct(domain.BoxRec, []Box{a, b}, func(ops []*Node, n *Node) error {
		x, y := ops[0].Arity, ops[1].Arity
		if x.Outputs < y.Inputs || x.Inputs < y.Outputs {
			return fmt.Errorf("%w: rec: A%s cannot feed back through B%s", domain.ErrArityMismatch, x, y)
		}
		n.Arity = arity(x.Inputs-y.Outputs, x.Outputs)
		return nil
	})
}

// Route wires n inputs to m outputs. n and m are Int literals; r is an Int literal
// or a Par tree of Int literals read left to right as (input, output) pairs.
func (c *Context) Route(n, m, r Box) (Box, error) {
	return c.construct(domain.BoxRoute, []Box{n, m, r}, func(ops []*Node, node *Node) error {
		ins, err := literal(domain.BoxRoute, "input count", ops[0])
		if err != nil {
			return err
		}
		outs, err := literal(domain.BoxRoute, "output count", ops[1])
		if err != nil {
			return err
		}
		var flat []int64
		if err := c.flattenRoute(ops[2], &flat); err != nil {
			return err
		}
		if len(flat)%2 != 0 {
			return fmt.Errorf("%w: route: odd number of indices (%d)", domain.ErrArityMismatch, len(flat))
		}
		pairs := make([]Pair, 0, len(flat)/2)
		for i := 0; i < len(flat); i += 2 {
			in, out := flat[i], flat[i+1]
			if in < 1 || in > int64(ins) {
				return fmt.Errorf("%w: route: input %d not in [1,%d]", domain.ErrRoutingIndexOutOfRange, in, ins)
			}
			if out < 1 || out > int64(outs) {
				return fmt.Errorf("%w: route: output %d not in [1,%d]", domain.ErrRoutingIndexOutOfRange, out, outs)
			}
			pairs = append(pairs, Pair{In: int(in), Out: int(out)})
		}
		node.Pairs = pairs
		node.Arity = arity(ins, outs)
		return nil
	})
}

func (c *Context) flattenRoute(n *Node, flat *[]int64) error {
	switch n.Kind {
	case domain.BoxInt:
		*flat = append(*flat, n.Int)
		return nil
	case domain.BoxPar:
		for _, a := range n.Args {
			if err := c.flattenRoute(&c.nodes[a.id], flat); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: route: description contains %s, want int literals composed with par", domain.ErrArityMismatch, n.Kind)
}
