package schema

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/domain"
)

var (
	opField    = Field{Type: String()}
	labelField = Field{Type: String(), Optional: true}
	refs       = func(n int) Field { return Field{Type: mustType(fmt.Sprintf("[string;%d]", n))} }

	scalarType = Custom("int|real", func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		if _, ok := domain.ParseSType(s); !ok {
			return fmt.Errorf("unknown scalar type %q", s)
		}
		return nil
	})
)

func fields(extra Schema) Schema {
	s := Schema{"op": opField}
	for k, f := range extra {
		s[k] = f
	}
	return s
}

// opSchemas holds the field schema of every op that is a box kind.
var opSchemas = map[domain.BoxKind]Schema{
	domain.BoxInt:            fields(Schema{"value": {Type: Int()}}),
	domain.BoxReal:           fields(Schema{"value": {Type: Number()}}),
	domain.BoxWire:           fields(nil),
	domain.BoxCut:            fields(nil),
	domain.BoxDelay:          fields(nil),
	domain.BoxIntCast:        fields(nil),
	domain.BoxFloatCast:      fields(nil),
	domain.BoxReadOnlyTable:  fields(nil),
	domain.BoxWriteReadTable: fields(nil),
	domain.BoxSelect2:        fields(nil),
	domain.BoxSelect3:        fields(nil),
	domain.BoxAttach:         fields(nil),
	domain.BoxWaveform:       fields(Schema{"values": {Type: mustType("[string]")}}),
	domain.BoxSoundfile:      fields(Schema{"label": labelField, "chan": {Type: Int()}}),
	domain.BoxFConst:         fields(Schema{"type": {Type: scalarType}, "name": {Type: String()}, "file": {Type: String(), Optional: true}}),
	domain.BoxFVar:           fields(Schema{"type": {Type: scalarType}, "name": {Type: String()}, "file": {Type: String(), Optional: true}}),
	domain.BoxButton:         fields(Schema{"label": labelField}),
	domain.BoxCheckbox:       fields(Schema{"label": labelField}),
	domain.BoxVSlider:        fields(Schema{"label": labelField, "args": refs(4)}),
	domain.BoxHSlider:        fields(Schema{"label": labelField, "args": refs(4)}),
	domain.BoxNumEntry:       fields(Schema{"label": labelField, "args": refs(4)}),
	domain.BoxVBargraph:      fields(Schema{"label": labelField, "args": refs(2)}),
	domain.BoxHBargraph:      fields(Schema{"label": labelField, "args": refs(2)}),
	domain.BoxSeq:            fields(Schema{"args": refs(2)}),
	domain.BoxPar:            fields(Schema{"args": refs(2)}),
	domain.BoxSplit:          fields(Schema{"args": refs(2)}),
	domain.BoxMerge:          fields(Schema{"args": refs(2)}),
	domain.BoxRec:            fields(Schema{"args": refs(2)}),
	domain.BoxRoute: fields(Schema{
		"n":     {Type: Int()},
		"m":     {Type: Int()},
		"pairs": {Type: mustType("[[int;2]]")},
	}),
}

// op is a decoded entry op: a box kind, or an operator or math function name.
type op struct {
	kind domain.BoxKind
	bin  domain.Operator
	fn   domain.MathFunc
}

// parseOp resolves name and returns the field schema of its entries.
func parseOp(name string) (op, Schema, bool) {
	if k, ok := domain.ParseBoxKind(name); ok && k != domain.BoxBinOp && k != domain.BoxMath {
		return op{kind: k}, opSchemas[k], true
	}
	if o, ok := domain.ParseOperator(name); ok {
		return op{kind: domain.BoxBinOp, bin: o}, fields(nil), true
	}
	if f, ok := domain.ParseMathFunc(name); ok {
		return op{kind: domain.BoxMath, fn: f}, fields(nil), true
	}
	return op{}, nil, false
}
