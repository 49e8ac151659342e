package box

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Box is a handle to a canonical box of a Context. The zero value is not a valid box.
type Box struct {
	id  uint32
	gen uint32
}

// IsZero reports whether b is the zero handle.
func (b Box) IsZero() bool { return b.id == 0 }

// ID returns the position of the box in its context.
func (b Box) ID() uint32 { return b.id }

func (b Box) String() string {
	if b.IsZero() {
		return "box#nil"
	}
	return fmt.Sprintf("box#%d", b.id)
}

// Pair is one (input, output) connection of a route, both 1-based.
type Pair struct {
	In  int `json:"in" yaml:"in"`
	Out int `json:"out" yaml:"out"`
}

// Node is the payload of a box. Which fields are meaningful depends on Kind.
type Node struct {
	Kind  domain.BoxKind
	Arity domain.Arity
	Args  []Box
	Int   int64
	Real  float64
	Op    domain.Operator
	Fn    domain.MathFunc
	Type  domain.SType
	Label string
	Name  string
	File  string
	Pairs []Pair // Route only
}
