// Package schema reads and writes diagram documents: a YAML or JSON description of a
// box DAG that builds into a box.Context without any Faust source syntax.
//
// A document names its entries and the entry compiled as the root:
//
//	name: echo
//	process: main
//	boxes:
//	  fb:   { op: real, value: 0.5 }
//	  loop: { op: seq, args: [fb_in, mul] }
//	  ...
//
// Each entry is checked against the field schema of its op before decoding, so a
// document reports every malformed field, unknown reference and reference cycle at
// once through an *AggregateError:
//
//	doc, err := schema.Parse(data)
//	if err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // Handle each problem
//	    }
//	}
//	root, err := schema.Build(ctx, doc)
//
// The field type system (String, Int, Number, Slice, Tuple, Custom) is small on
// purpose: it only needs to describe entry fields.
package schema
