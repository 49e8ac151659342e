package schema

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
)

// Build constructs the process entry of doc, and every entry it references, in ctx.
// Entries are built once, so shared references yield shared boxes.
func Build(ctx *box.Context, doc *Document) (box.Box, error) {
	if err := doc.Validate(); err != nil {
		return box.Box{}, err
	}
	b := &builder{ctx: ctx, doc: doc, built: make(map[string]box.Box, len(doc.Boxes))}
	return b.build(doc.Process)
}

type builder struct {
	ctx   *box.Context
	doc   *Document
	built map[string]box.Box
}

func (b *builder) build(id string) (box.Box, error) {
	if bx, ok := b.built[id]; ok {
		return bx, nil
	}
	e := b.doc.Boxes[id]
	bx, err := b.construct(id, e)
	if err != nil {
		return box.Box{}, fmt.Errorf("box %q (%s): %w", id, e.Op, err)
	}
	b.built[id] = bx
	return bx, nil
}

func (b *builder) all(ids []string) ([]box.Box, error) {
	out := make([]box.Box, len(ids))
	for i, id := range ids {
		bx, err := b.build(id)
		if err != nil {
			return nil, err
		}
		out[i] = bx
	}
	return out, nil
}

func missing(id, field string) error {
	return &ValidationError{Key: "boxes." + id + "." + field, Reason: "required"}
}

func (b *builder) construct(id string, e Entry) (box.Box, error) {
	o, _, _ := parseOp(e.Op)
	c := b.ctx

	switch o.kind {
	case domain.BoxInt:
		if e.Value == nil {
			return box.Box{}, missing(id, "value")
		}
		return c.Int(int(*e.Value))
	case domain.BoxReal:
		if e.Value == nil {
			return box.Box{}, missing(id, "value")
		}
		return c.Real(*e.Value)
	case domain.BoxWire:
		return c.Wire()
	case domain.BoxCut:
		return c.Cut()
	case domain.BoxDelay:
		return c.Delay()
	case domain.BoxIntCast:
		return c.IntCast()
	case domain.BoxFloatCast:
		return c.FloatCast()
	case domain.BoxReadOnlyTable:
		return c.ReadOnlyTable()
	case domain.BoxWriteReadTable:
		return c.WriteReadTable()
	case domain.BoxSelect2:
		return c.Select2()
	case domain.BoxSelect3:
		return c.Select3()
	case domain.BoxAttach:
		return c.Attach()
	case domain.BoxBinOp:
		return c.BinOp(o.bin)
	case domain.BoxMath:
		return c.Math(o.fn)
	case domain.BoxButton:
		return c.Button(e.Label)
	case domain.BoxCheckbox:
		return c.Checkbox(e.Label)
	case domain.BoxFConst, domain.BoxFVar:
		t, ok := domain.ParseSType(e.Type)
		if !ok {
			return box.Box{}, &ValidationError{Key: "boxes." + id + ".type", Reason: fmt.Sprintf("unknown scalar type %q", e.Type)}
		}
		if o.kind == domain.BoxFConst {
			return c.FConst(t, e.Name, e.File)
		}
		return c.FVar(t, e.Name, e.File)
	case domain.BoxWaveform:
		values, err := b.all(e.Values)
		if err != nil {
			return box.Box{}, err
		}
		return c.Waveform(values...)
	case domain.BoxSoundfile:
		if e.Chan == nil {
			return box.Box{}, missing(id, "chan")
		}
		n, err := c.Int(*e.Chan)
		if err != nil {
			return box.Box{}, err
		}
		return c.Soundfile(e.Label, n)
	case domain.BoxRoute:
		return b.route(id, e)
	}

	args, err := b.all(e.Args)
	if err != nil {
		return box.Box{}, err
	}
	if want := arguments(o.kind); len(args) != want {
		return box.Box{}, &ValidationError{Key: "boxes." + id + ".args", Reason: fmt.Sprintf("expected %d elements, got %d", want, len(args))}
	}

	switch o.kind {
	case domain.BoxVSlider:
		return c.VSlider(e.Label, args[0], args[1], args[2], args[3])
	case domain.BoxHSlider:
		return c.HSlider(e.Label, args[0], args[1], args[2], args[3])
	case domain.BoxNumEntry:
		return c.NumEntry(e.Label, args[0], args[1], args[2], args[3])
	case domain.BoxVBargraph:
		return c.VBargraph(e.Label, args[0], args[1])
	case domain.BoxHBargraph:
		return c.HBargraph(e.Label, args[0], args[1])
	case domain.BoxSeq:
		return c.Seq(args[0], args[1])
	case domain.BoxPar:
		return c.Par(args[0], args[1])
	case domain.BoxSplit:
		return c.Split(args[0], args[1])
	case domain.BoxMerge:
		return c.Merge(args[0], args[1])
	case domain.BoxRec:
		return c.Rec(args[0], args[1])
	}
	return box.Box{}, fmt.Errorf("%w: op %q cannot be built", ErrInvalidDocument, e.Op)
}

func arguments(k domain.BoxKind) int {
	switch k {
	case domain.BoxVSlider, domain.BoxHSlider, domain.BoxNumEntry:
		return 4
	default:
		return 2
	}
}

// route rebuilds the routing description as a right-nested par of int literals.
func (b *builder) route(id string, e Entry) (box.Box, error) {
	c := b.ctx
	if e.N == nil {
		return box.Box{}, missing(id, "n")
	}
	if e.M == nil {
		return box.Box{}, missing(id, "m")
	}
	if len(e.Pairs) == 0 {
		return box.Box{}, &ValidationError{Key: "boxes." + id + ".pairs", Reason: "at least one pair required"}
	}
	var flat []int
	for i, p := range e.Pairs {
		if len(p) != 2 {
			return box.Box{}, &ValidationError{Key: fmt.Sprintf("boxes.%s.pairs.%d", id, i), Reason: "expected [in, out]"}
		}
		flat = append(flat, p...)
	}

	r, err := c.Int(flat[len(flat)-1])
	if err != nil {
		return box.Box{}, err
	}
	for i := len(flat) - 2; i >= 0; i-- {
		v, err := c.Int(flat[i])
		if err != nil {
			return box.Box{}, err
		}
		if r, err = c.Par(v, r); err != nil {
			return box.Box{}, err
		}
	}
	n, err := c.Int(*e.N)
	if err != nil {
		return box.Box{}, err
	}
	m, err := c.Int(*e.M)
	if err != nil {
		return box.Box{}, err
	}
	return c.Route(n, m, r)
}
