/*
Package faustbox is the box layer of a block-diagram DSP compiler: an algebra of
primitive blocks and composition operators ("boxes"), a hash-consing context that
owns them, and a compiler that flattens a box into an explicit, cycle-resolved graph
of scalar signal computations ready for code generation.

# Concept

A box is a block with a fixed number of inputs and outputs. Primitives (constants,
wires, arithmetic, tables, UI widgets, foreign symbols) are combined with five
operators:

  - Seq (A : B) connects the outputs of A to the inputs of B.
  - Par (A , B) places A and B side by side.
  - Split (A <: B) fans the outputs of A out to the inputs of B.
  - Merge (A :> B) sums groups of outputs of A into the inputs of B.
  - Rec (A ~ B) feeds the outputs of A back through B with a one-sample delay.

Route(n, m, pairs) wires n inputs to m outputs explicitly.

Boxes are interned: building the same structure twice in a context yields the same
handle, and compiling the same root twice yields the same signals.

# Usage

The libfaust-style API works on a process-wide context:

	if err := faustbox.CreateLibContext(); err != nil {
		log.Fatal(err)
	}
	defer faustbox.DestroyLibContext()

	wire, _ := faustbox.BoxWire()
	gain, _ := faustbox.BoxReal(0.5)
	mul, _ := faustbox.BoxMul()
	scaled, _ := faustbox.BoxPar(wire, gain)
	root, _ := faustbox.BoxSeq(scaled, mul)

	var msg string
	signals := faustbox.BoxesToSignals(root, &msg)
	factory := faustbox.CreateCPPDSPFactoryFromBoxes("gain", root, []string{"-double"}, &msg)

Programs that need several independent contexts use pkg/box directly, and services
compile diagram documents (pkg/schema) through a Service, which caches factories by
SHA key in a ports.FactoryStore (memory, file or Redis).

# Architecture

  - pkg/box: Context, interning and the box constructors.
  - pkg/signal: the signal graph, recursive taps and verification.
  - internal/compiler: box-to-signal flattening.
  - pkg/factory: compile options, exported programs and their serialization.
  - pkg/schema: YAML/JSON diagram documents.
  - pkg/adapters: factory stores, diagram libraries, HTTP and MCP servers.
*/
package faustbox
