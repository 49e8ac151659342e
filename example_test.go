package faustbox_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/faustbox"
)

// ExampleBoxesToSignals builds a one-pole feedback loop with the process-wide
// context and prints the flattened signal.
func ExampleBoxesToSignals() {
	if err := faustbox.CreateLibContext(); err != nil {
		log.Fatal(err)
	}
	defer faustbox.DestroyLibContext()

	wire, _ := faustbox.BoxWire()
	gain, _ := faustbox.BoxReal(0.5)
	mul, _ := faustbox.BoxMul()
	add, _ := faustbox.BoxAdd()

	scaled, _ := faustbox.BoxPar(wire, gain)
	feedback, _ := faustbox.BoxSeq(scaled, mul)
	loop, err := faustbox.BoxRec(add, feedback)
	if err != nil {
		log.Fatal(err)
	}

	var msg string
	for _, s := range faustbox.BoxesToSignals(loop, &msg) {
		fmt.Println(faustbox.PrintSignal(s))
	}
	// Output: ((tap0 * 0.5) + in0)
}

// ExampleService_Compile compiles a diagram document into a cached factory.
func ExampleService_Compile() {
	svc, err := faustbox.New("")
	if err != nil {
		log.Fatal(err)
	}

	doc := []byte(`
name: mix
process: main
boxes:
  l:    { op: wire }
  r:    { op: wire }
  sum:  { op: add }
  in:   { op: par, args: [l, r] }
  main: { op: seq, args: [in, sum] }
`)
	f, err := svc.Compile(context.Background(), doc, []string{"-double"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(f.Name, f.Arity, f.Options.Precision)
	// Output: mix (2,1) double
}
