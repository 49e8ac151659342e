package box

import (
	"fmt"
	"math"

	"github.com/aretw0/faustbox/pkg/domain"
)

// MaxPorts bounds the inputs and outputs of any box.
const MaxPorts = 1 << 16

func arity(in, out int) domain.Arity {
	return domain.Arity{Inputs: in, Outputs: out}
}

// bounded builds an arity, rejecting port counts above MaxPorts.
func bounded(kind domain.BoxKind, in, out int) (domain.Arity, error) {
	if in > MaxPorts || out > MaxPorts {
		return domain.Arity{}, fmt.Errorf("%w: %s has arity (%d,%d), more than %d ports", domain.ErrArityMismatch, kind, in, out, MaxPorts)
	}
	return arity(in, out), nil
}

// leaf builds a box without operands.
func (c *Context) leaf(kind domain.BoxKind, in, out int, set func(n *Node)) (Box, error) {
	return c.construct(kind, nil, func(_ []*Node, n *Node) error {
		n.Arity = arity(in, out)
		if set != nil {
			set(n)
		}
		return nil
	})
}

// Int is an integer constant, arity (0,1).
func (c *Context) Int(v int) (Box, error) {
	return c.leaf(domain.BoxInt, 0, 1, func(n *Node) { n.Int = int64(v) })
}

// Real is a floating-point constant, arity (0,1).
func (c *Context) Real(v float64) (Box, error) {
	if math.IsNaN(v) {
		return Box{}, fmt.Errorf("%w: real constant is NaN", domain.ErrInvalidBox)
	}
	return c.leaf(domain.BoxReal, 0, 1, func(n *Node) { n.Real = v })
}

// Wire is the identity, arity (1,1).
func (c *Context) Wire() (Box, error) { return c.leaf(domain.BoxWire, 1, 1, nil) }

// Cut terminates a signal, arity (1,0).
func (c *Context) Cut() (Box, error) { return c.leaf(domain.BoxCut, 1, 0, nil) }

// Delay delays its first input by the number of samples given by its second, arity (2,1).
func (c *Context) Delay() (Box, error) { return c.leaf(domain.BoxDelay, 2, 1, nil) }

// IntCast truncates its input to an integer, arity (1,1).
func (c *Context) IntCast() (Box, error) { return c.leaf(domain.BoxIntCast, 1, 1, nil) }

// FloatCast converts its input to a real, arity (1,1).
func (c *Context) FloatCast() (Box, error) { return c.leaf(domain.BoxFloatCast, 1, 1, nil) }

// ReadOnlyTable takes (size, init, read index), arity (3,1).
func (c *Context) ReadOnlyTable() (Box, error) { return c.leaf(domain.BoxReadOnlyTable, 3, 1, nil) }

// WriteReadTable takes (size, init, write index, write signal, read index), arity (5,1).
func (c *Context) WriteReadTable() (Box, error) {
	return c.leaf(domain.BoxWriteReadTable, 5, 1, nil)
}

// Select2 takes (selector, s0, s1) and outputs s0 or s1, arity (3,1).
func (c *Context) Select2() (Box, error) { return c.leaf(domain.BoxSelect2, 3, 1, nil) }

// Select3 takes (selector, s0, s1, s2), arity (4,1).
func (c *Context) Select3() (Box, error) { return c.leaf(domain.BoxSelect3, 4, 1, nil) }

// Attach outputs its first input and keeps the second alive, arity (2,1).
func (c *Context) Attach() (Box, error) { return c.leaf(domain.BoxAttach, 2, 1, nil) }

// BinOp is a binary primitive operator, arity (2,1).
func (c *Context) BinOp(op domain.Operator) (Box, error) {
	if !op.Valid() {
		return Box{}, fmt.Errorf("%w: unknown operator %d", domain.ErrInvalidBox, op)
	}
	return c.leaf(domain.BoxBinOp, 2, 1, func(n *Node) { n.Op = op })
}

// Math is a math function, arity (1,1) or (2,1) depending on fn.
func (c *Context) Math(fn domain.MathFunc) (Box, error) {
	if !fn.Valid() {
		return Box{}, fmt.Errorf("%w: unknown math function %d", domain.ErrInvalidBox, fn)
	}
	return c.leaf(domain.BoxMath, fn.Arity(), 1, func(n *Node) { n.Fn = fn })
}

// FConst is a foreign constant declared in file, arity (0,1).
func (c *Context) FConst(t domain.SType, name, file string) (Box, error) {
	return c.foreign(domain.BoxFConst, t, name, file)
}

// FVar is a foreign variable declared in file, arity (0,1).
func (c *Context) FVar(t domain.SType, name, file string) (Box, error) {
	return c.foreign(domain.BoxFVar, t, name, file)
}

func (c *Context) foreign(kind domain.BoxKind, t domain.SType, name, file string) (Box, error) {
	if name == "" {
		return Box{}, fmt.Errorf("%w: %s without a name", domain.ErrInvalidBox, kind)
	}
	return c.leaf(kind, 0, 1, func(n *Node) {
		n.Type = t
		n.Name = name
		n.File = file
	})
}

// Button is a momentary push button, arity (0,1).
func (c *Context) Button(label string) (Box, error) {
	return c.leaf(domain.BoxButton, 0, 1, func(n *Node) { n.Label = label })
}

// Checkbox is a toggle, arity (0,1).
func (c *Context) Checkbox(label string) (Box, error) {
	return c.leaf(domain.BoxCheckbox, 0, 1, func(n *Node) { n.Label = label })
}

// VSlider is a vertical slider with constant (init, min, max, step), arity (0,1).
func (c *Context) VSlider(label string, init, lo, hi, step Box) (Box, error) {
	return c.slider(domain.BoxVSlider, label, init, lo, hi, step)
}

// HSlider is a horizontal slider with constant (init, min, max, step), arity (0,1).
func (c *Context) HSlider(label string, init, lo, hi, step Box) (Box, error) {
	return c.slider(domain.BoxHSlider, label, init, lo, hi, step)
}

// NumEntry is a numeric entry with constant (init, min, max, step), arity (0,1).
func (c *Context) NumEntry(label string, init, lo, hi, step Box) (Box, error) {
	return c.slider(domain.BoxNumEntry, label, init, lo, hi, step)
}

// slider parameters are (0,1) boxes folded to constants by the compiler.
func (c *Context) slider(kind domain.BoxKind, label string, params ...Box) (Box, error) {
	return c.construct(kind, params, func(ops []*Node, n *Node) error {
		if err := requireConstantShape(kind, ops); err != nil {
			return err
		}
		n.Label = label
		n.Arity = arity(0, 1)
		return nil
	})
}

// VBargraph displays its input between constant (min, max) and passes it through, arity (1,1).
func (c *Context) VBargraph(label string, lo, hi Box) (Box, error) {
	return c.bargraph(domain.BoxVBargraph, label, lo, hi)
}

// HBargraph is the horizontal VBargraph, arity (1,1).
func (c *Context) HBargraph(label string, lo, hi Box) (Box, error) {
	return c.bargraph(domain.BoxHBargraph, label, lo, hi)
}

func (c *Context) bargraph(kind domain.BoxKind, label string, params ...Box) (Box, error) {
	return c.construct(kind, params, func(ops []*Node, n *Node) error {
		if err := requireConstantShape(kind, ops); err != nil {
			return err
		}
		n.Label = label
		n.Arity = arity(1, 1)
		return nil
	})
}

func requireConstantShape(kind domain.BoxKind, ops []*Node) error {
	for i, op := range ops {
		if op.Arity != arity(0, 1) {
			return fmt.Errorf("%w: %s parameter %d has arity %s, want (0,1)", domain.ErrArityMismatch, kind, i, op.Arity)
		}
	}
	return nil
}

// Waveform is a constant periodic table. Its outputs are (size, signal), arity (0,2).
func (c *Context) Waveform(values ...Box) (Box, error) {
	if len(values) == 0 {
		return Box{}, fmt.Errorf("%w: empty waveform", domain.ErrInvalidBox)
	}
	return c.construct(domain.BoxWaveform, values, func(ops []*Node, n *Node) error {
		for i, op := range ops {
			if op.Kind != domain.BoxInt && op.Kind != domain.BoxReal {
				return fmt.Errorf("%w: waveform value %d is %s, want int or real", domain.ErrInvalidBox, i, op.Kind)
			}
		}
		n.Arity = arity(0, 2)
		return nil
	})
}

// Soundfile declares a sound file with nchan channels. nchan must be an Int literal.
// Inputs are (part, read index); outputs are (length, rate, chan buffers).
func (c *Context) Soundfile(label string, nchan Box) (Box, error) {
	return c.construct(domain.BoxSoundfile, []Box{nchan}, func(ops []*Node, n *Node) error {
		channels, err := literal(domain.BoxSoundfile, "channel count", ops[0])
		if err != nil {
			return err
		}
		a, err := bounded(domain.BoxSoundfile, 2, 2+channels)
		if err != nil {
			return err
		}
		n.Label = label
		n.Int = int64(channels)
		n.Arity = a
		return nil
	})
}

// literal reads an Int literal operand in [0, MaxPorts].
func literal(kind domain.BoxKind, what string, op *Node) (int, error) {
	if op.Kind != domain.BoxInt {
		return 0, fmt.Errorf("%w: %s %s must be an int literal, got %s", domain.ErrArityMismatch, kind, what, op.Kind)
	}
	if op.Int < 0 {
		return 0, fmt.Errorf("%w: %s %s is negative (%d)", domain.ErrArityMismatch, kind, what, op.Int)
	}
	if op.Int > MaxPorts {
		return 0, fmt.Errorf("%w: %s %s %d exceeds %d", domain.ErrArityMismatch, kind, what, op.Int, MaxPorts)
	}
	return int(op.Int), nil
}
