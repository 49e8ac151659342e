package domain

import "time"

// InternEvent is emitted each time a box constructor runs.
type InternEvent struct {
	Kind  BoxKind
	Arity Arity
	Hit   bool // An existing canonical box was returned
}

// CompileEvent is emitted once per top-level compilation.
type CompileEvent struct {
	Root        Arity
	Signals     int // Number of output signals, zero on failure
	Nodes       int // Size of the signal graph after compilation
	Diagnostics int
	Duration    time.Duration
	Err         error
}

// Hooks defines optional callbacks for observing a context.
// Callbacks run synchronously after the context lock is released, so they may
// call back into the context.
type Hooks struct {
	OnIntern  func(InternEvent)
	OnCompile func(CompileEvent)
}

func (h Hooks) Intern(e InternEvent) {
	if h.OnIntern != nil {
		h.OnIntern(e)
	}
}

func (h Hooks) Compile(e CompileEvent) {
	if h.OnCompile != nil {
		h.OnCompile(e)
	}
}
