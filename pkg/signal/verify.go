package signal

import (
	"fmt"
	"strings"

	"github.com/aretw0/faustbox/pkg/domain"
)

type color uint8

const (
	white color = iota
	gray
	black
)

// Walk visits every node reachable from roots exactly once, operands before their
// users. Resolved taps are followed to their target, which may therefore be visited
// after the tap itself.
func (g *Graph) Walk(roots []Signal, visit func(Signal, Node) error) error {
	seen := make(map[uint32]bool, len(g.nodes))
	var walk func(s Signal) error
	walk = func(s Signal) error {
		if seen[s.id] {
			return nil
		}
		seen[s.id] = true
		for _, a := range g.nodes[s.id].Args {
			if err := walk(a); err != nil {
				return err
			}
		}
		return visit(s, g.nodes[s.id])
	}
	for _, r := range roots {
		if _, err := g.Node(r); err != nil {
			return err
		}
		if err := walk(r); err != nil {
			return err
		}
	}
	return nil
}

// Verify checks the subgraph reachable from outputs. It reports every unresolved
// tap (ErrUnresolvedTap) and every cycle that does not go through a delayed edge
// (ErrZeroDelayCycle).
func (g *Graph) Verify(outputs []Signal) []error {
	var errs []error
	var reachable []Signal
	err := g.Walk(outputs, func(s Signal, n Node) error {
		reachable = append(reachable, s)
		if n.Kind == domain.SigTap && !n.Resolved {
			errs = append(errs, fmt.Errorf("%w: tap %d (%s)", domain.ErrUnresolvedTap, n.Int, s))
		}
		return nil
	})
	if err != nil {
		return append(errs, err)
	}

	colors := make(map[uint32]color, len(reachable))
	var stack []Signal
	var visit func(s Signal)
	visit = func(s Signal) {
		colors[s.id] = gray
		stack = append(stack, s)
		for _, next := range g.immediate(s) {
			switch colors[next.id] {
			case white:
				visit(next)
			case gray:
				errs = append(errs, fmt.Errorf("%w: %s", domain.ErrZeroDelayCycle, describeCycle(stack, next)))
			}
		}
		stack = stack[:len(stack)-1]
		colors[s.id] = black
	}
	for _, s := range reachable {
		if colors[s.id] == white {
			visit(s)
		}
	}
	return errs
}

// immediate returns the operands whose current value s depends on.
func (g *Graph) immediate(s Signal) []Signal {
	n := g.node(s)
	switch n.Kind {
	case domain.SigTap:
		if n.Resolved && n.Delay == 0 {
			return n.Args
		}
		return nil
	case domain.SigDelay:
		if d, ok := g.IntConstant(n.Args[1]); ok && d > 0 {
			return n.Args[1:]
		}
	}
	return n.Args
}

func describeCycle(stack []Signal, back Signal) string {
	start := 0
	for i, s := range stack {
		if s == back {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(stack)-start+1)
	for _, s := range stack[start:] {
		parts = append(parts, s.String())
	}
	parts = append(parts, back.String())
	return strings.Join(parts, " -> ")
}
