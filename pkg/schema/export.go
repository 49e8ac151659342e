package schema

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
)

// FromBox writes root and everything it references as a document named name.
// Entry ids are the op name followed by the box id, e.g. "seq12".
func FromBox(ctx *box.Context, root box.Box, name string) (*Document, error) {
	doc := &Document{Name: name, Boxes: make(map[string]Entry)}
	ids := make(map[box.Box]string)

	var visit func(b box.Box) (string, error)
	visit = func(b box.Box) (string, error) {
		if id, ok := ids[b]; ok {
			return id, nil
		}
		n, err := ctx.Node(b)
		if err != nil {
			return "", err
		}

		e := Entry{Op: n.Kind.String(), Label: n.Label}
		switch n.Kind {
		case domain.BoxBinOp:
			e.Op = n.Op.String()
		case domain.BoxMath:
			e.Op = n.Fn.String()
		case domain.BoxInt:
			v := float64(n.Int)
			e.Value = &v
		case domain.BoxReal:
			v := n.Real
			e.Value = &v
		case domain.BoxFConst, domain.BoxFVar:
			e.Type, e.Name, e.File = n.Type.String(), n.Name, n.File
		case domain.BoxSoundfile:
			ch := int(n.Int)
			e.Chan = &ch
		case domain.BoxRoute:
			ins, outs := n.Arity.Inputs, n.Arity.Outputs
			e.N, e.M = &ins, &outs
			for _, p := range n.Pairs {
				e.Pairs = append(e.Pairs, []int{p.In, p.Out})
			}
		}

		if n.Kind != domain.BoxRoute && n.Kind != domain.BoxSoundfile {
			for _, a := range n.Args {
				ref, err := visit(a)
				if err != nil {
					return "", err
				}
				if n.Kind == domain.BoxWaveform {
					e.Values = append(e.Values, ref)
				} else {
					e.Args = append(e.Args, ref)
				}
			}
		}

		id := fmt.Sprintf("%s%d", e.Op, b.ID())
		ids[b] = id
		doc.Boxes[id] = e
		return id, nil
	}

	process, err := visit(root)
	if err != nil {
		return nil, err
	}
	doc.Process = process
	return doc, nil
}
