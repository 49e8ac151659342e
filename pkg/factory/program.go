package factory

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/signal"
)

// Program is a self-contained copy of a compiled signal graph. Node IDs are dense,
// start at 1 and list operands before their users, except for tap targets.
type Program struct {
	Inputs  int      `json:"inputs" msgpack:"inputs"`
	Outputs []uint32 `json:"outputs" msgpack:"outputs"`
	Nodes   []Node   `json:"nodes" msgpack:"nodes"`
}

// Node is one signal of a Program.
type Node struct {
	ID    uint32   `json:"id" msgpack:"id"`
	Kind  string   `json:"kind" msgpack:"kind"`
	Args  []uint32 `json:"args,omitempty" msgpack:"args,omitempty"`
	Int   int64    `json:"int,omitempty" msgpack:"int,omitempty"`
	Real  float64  `json:"real,omitempty" msgpack:"real,omitempty"`
	Op    string   `json:"op,omitempty" msgpack:"op,omitempty"`
	Fn    string   `json:"fn,omitempty" msgpack:"fn,omitempty"`
	Type  string   `json:"type,omitempty" msgpack:"type,omitempty"`
	Label string   `json:"label,omitempty" msgpack:"label,omitempty"`
	Name  string   `json:"name,omitempty" msgpack:"name,omitempty"`
	File  string   `json:"file,omitempty" msgpack:"file,omitempty"`
	Delay int      `json:"delay,omitempty" msgpack:"delay,omitempty"`
}

// Export copies the part of g reachable from outputs into a Program.
// inputs is the input count of the compiled root.
func Export(g *signal.Graph, inputs int, outputs []signal.Signal) (*Program, error) {
	ids := make(map[signal.Signal]uint32)
	var order []signal.Signal
	err := g.Walk(outputs, func(s signal.Signal, _ signal.Node) error {
		order = append(order, s)
		ids[s] = uint32(len(order))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export signals: %w", err)
	}

	p := &Program{Inputs: inputs, Outputs: make([]uint32, len(outputs)), Nodes: make([]Node, len(order))}
	for i, s := range order {
		n, _ := g.Node(s)
		if n.Kind == domain.SigTap && !n.Resolved {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnresolvedTap, s)
		}
		p.Nodes[i] = exportNode(ids[s], n, ids)
	}
	for i, s := range outputs {
		p.Outputs[i] = ids[s]
	}
	return p, nil
}

func exportNode(id uint32, n signal.Node, ids map[signal.Signal]uint32) Node {
	out := Node{ID: id, Kind: n.Kind.String(), Label: n.Label, Name: n.Name, File: n.File}
	for _, a := range n.Args {
		out.Args = append(out.Args, ids[a])
	}
	switch n.Kind {
	case domain.SigInt, domain.SigInput, domain.SigTap:
		out.Int = n.Int
	case domain.SigReal:
		out.Real = n.Real
	case domain.SigBinOp:
		out.Op = n.Op.String()
	case domain.SigMath:
		out.Fn = n.Fn.String()
	case domain.SigFConst, domain.SigFVar:
		out.Type = n.Type.String()
	}
	if n.Kind == domain.SigTap {
		out.Delay = n.Delay
	}
	return out
}

// Node returns the node with the given id.
func (p *Program) Node(id uint32) (Node, bool) {
	if id == 0 || int(id) > len(p.Nodes) {
		return Node{}, false
	}
	return p.Nodes[id-1], true
}

// CountByKind tallies nodes per kind name.
func (p *Program) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, n := range p.Nodes {
		counts[n.Kind]++
	}
	return counts
}

// Validate checks that every reference of the program points at an existing node.
func (p *Program) Validate() error {
	for i, n := range p.Nodes {
		if n.ID != uint32(i+1) {
			return fmt.Errorf("node %d has id %d", i+1, n.ID)
		}
		if _, ok := domain.ParseSignalKind(n.Kind); !ok {
			return fmt.Errorf("node %d has unknown kind %q", n.ID, n.Kind)
		}
		for _, a := range n.Args {
			if _, ok := p.Node(a); !ok {
				return fmt.Errorf("node %d references missing node %d", n.ID, a)
			}
		}
	}
	for i, o := range p.Outputs {
		if _, ok := p.Node(o); !ok {
			return fmt.Errorf("output %d references missing node %d", i, o)
		}
	}
	return nil
}
