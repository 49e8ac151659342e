package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrArityMismatch is returned when an operator's port-count precondition fails at construction time.
var ErrArityMismatch = errors.New("arity mismatch")

// ErrRoutingIndexOutOfRange is returned when a route pair references an input or output outside its declared bound.
var ErrRoutingIndexOutOfRange = errors.New("routing index out of range")

// ErrUnresolvedForeignReference is reported when a foreign constant or variable cannot be located.
var ErrUnresolvedForeignReference = errors.New("unresolved foreign reference")

// ErrZeroDelayCycle is reported when the signal graph contains a cycle without a delayed edge.
var ErrZeroDelayCycle = errors.New("zero-delay cycle")

// ErrContextLifecycle is returned when a context is used before init, after teardown, or initialized twice.
var ErrContextLifecycle = errors.New("context lifecycle violation")

// ErrInvalidBox is returned for zero handles and handles unknown to the context.
var ErrInvalidBox = errors.New("invalid box")

// ErrNotConstant is reported when a parameter must be a constant numerical expression and is not.
var ErrNotConstant = errors.New("not a constant numerical expression")

// ErrUnresolvedTap is reported when a recursive tap was never bound to its feedback signal.
var ErrUnresolvedTap = errors.New("unresolved recursive tap")

// ErrFactoryNotFound is returned when a factory SHA key cannot be found in a store.
var ErrFactoryNotFound = errors.New("factory not found")

// Diagnostic is a single problem found while compiling a box.
type Diagnostic struct {
	Err  error  // One of the sentinel errors above, possibly wrapped
	Path string // Box path from the root, e.g. "seq.1/rec.0"
}

func (d Diagnostic) Error() string {
	if d.Path == "" {
		return d.Err.Error()
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Err.Error())
}

func (d Diagnostic) Unwrap() error { return d.Err }

// CompileError aggregates every diagnostic of a failed compilation.
type CompileError struct {
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d compilation errors:\n", len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, d.Error())
	}
	return sb.String()
}

// Unwrap exposes the diagnostics so errors.Is matches any of their categories.
func (e *CompileError) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d
	}
	return errs
}

// Diagnostics returns the diagnostics carried by err if it is a CompileError.
// Otherwise returns nil.
func Diagnostics(err error) []Diagnostic {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Diagnostics
	}
	return nil
}
