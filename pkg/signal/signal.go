package signal

import (
	"fmt"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Signal is a handle to a node of a Graph. The zero value is not a valid signal.
type Signal struct {
	id  uint32
	gen uint32
}

// IsZero reports whether s is the zero handle.
func (s Signal) IsZero() bool { return s.id == 0 }

// ID returns the position of the node in its graph. IDs are dense and start at 1.
func (s Signal) ID() uint32 { return s.id }

func (s Signal) String() string {
	if s.IsZero() {
		return "sig#nil"
	}
	return fmt.Sprintf("sig#%d", s.id)
}

// Node is the payload of a signal. Which fields are meaningful depends on Kind.
type Node struct {
	Kind  domain.SignalKind
	Args  []Signal
	Int   int64
	Real  float64
	Op    domain.Operator
	Fn    domain.MathFunc
	Type  domain.SType
	Label string
	Name  string
	File  string

	// Taps only: Args holds the target once resolved.
	Delay    int
	Resolved bool
}

// IsConstant reports whether the node is an Int or Real literal.
func (n Node) IsConstant() bool {
	return n.Kind == domain.SigInt || n.Kind == domain.SigReal
}

// Value returns the numeric value of a literal node.
func (n Node) Value() float64 {
	if n.Kind == domain.SigInt {
		return float64(n.Int)
	}
	return n.Real
}
