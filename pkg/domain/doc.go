/*
Package domain contains the core vocabulary shared by the box algebra, the signal
graph and the compiler.

It defines the closed catalogs of box and signal kinds, the primitive operators and
math functions, port counts (Arity), the sentinel errors of the compilation pipeline
and the observability hooks. This package is kept pure and free of I/O, following
the same layering as the rest of the module: everything else depends on it, it
depends on nothing.

# Key Entities

  - BoxKind / SignalKind: the fixed variant sets, dispatched by exhaustive switches.
  - Arity: the (inputs, outputs) port-count pair of a box.
  - Operator / MathFunc / SType: scalar parameters carried by primitive boxes.
  - CompileError: the aggregate of every diagnostic found while flattening a box.
  - Hooks: callbacks for interning and compilation events.
*/
package domain
