package schema_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/schema"
)

func mustBox(t *testing.T) func(box.Box, error) box.Box {
	return func(b box.Box, err error) box.Box {
		t.Helper()
		require.NoError(t, err)
		return b
	}
}

func parseFile(t *testing.T, path string) *schema.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := schema.Parse(data)
	require.NoError(t, err)
	return doc
}

func TestParse_YAMLAndJSON(t *testing.T) {
	fromYAML := parseFile(t, "testdata/echo.yaml")
	fromJSON := parseFile(t, "testdata/echo.json")

	assert.Equal(t, fromYAML, fromJSON)
	assert.Equal(t, "echo", fromYAML.Name)
	assert.Equal(t, "main", fromYAML.Process)
	assert.Len(t, fromYAML.Boxes, 7)
	assert.Equal(t, []string{"add", "loop"}, fromYAML.Boxes["main"].Args)
	require.NotNil(t, fromYAML.Boxes["fb"].Value)
	assert.Equal(t, 0.5, *fromYAML.Boxes["fb"].Value)
}

func TestBuild_MatchesConstructors(t *testing.T) {
	ctx := box.NewContext()
	must := mustBox(t)

	got, err := schema.Build(ctx, parseFile(t, "testdata/echo.yaml"))
	require.NoError(t, err)

	gain := must(ctx.Par(must(ctx.Wire()), must(ctx.Real(0.5))))
	loop := must(ctx.Seq(gain, must(ctx.BinOp(domain.OpMul))))
	want := must(ctx.Rec(must(ctx.BinOp(domain.OpAdd)), loop))

	assert.Equal(t, want, got, "documents intern into the same boxes as constructor calls")

	a, err := ctx.Arity(got)
	require.NoError(t, err)
	assert.Equal(t, domain.Arity{Inputs: 1, Outputs: 1}, a)
}

func TestParse_FieldErrors(t *testing.T) {
	doc := []byte(`
process: main
boxes:
  main: { op: seq, args: [a] }
  a:    { op: int }
  b:    { op: wobble }
  c:    { op: wire, label: nope }
`)
	_, err := schema.Parse(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)

	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 4)

	var keys []string
	for _, e := range errs {
		keys = append(keys, e.(*schema.ValidationError).Key)
	}
	assert.Equal(t, []string{"boxes.a.value", "boxes.b.op", "boxes.c.label", "boxes.main.args"}, keys)
}

func TestParse_RoutePairShape(t *testing.T) {
	doc := []byte(`
process: r
boxes:
  r: { op: route, n: 2, m: 2, pairs: [[1, 2], [2, 1, 1]] }
`)
	_, err := schema.Parse(doc)
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "boxes.r.pairs", errs[0].(*schema.ValidationError).Key)
	assert.Contains(t, errs[0].Error(), "element 1: expected 2 elements, got 3")
}

func TestParse_ReferenceErrors(t *testing.T) {
	doc := []byte(`
process: root
boxes:
  main: { op: seq, args: [a, ghost] }
  a:    { op: wire }
`)
	_, err := schema.Parse(doc)
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), `unknown entry "root"`)
	assert.Contains(t, errs[1].Error(), `unknown entry "ghost"`)
}

func TestParse_Cycle(t *testing.T) {
	doc := []byte(`
process: a
boxes:
  a: { op: seq, args: [b, w] }
  b: { op: par, args: [w, a] }
  w: { op: wire }
`)
	_, err := schema.Parse(doc)
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "reference cycle a -> b -> a")
}

func TestParse_Malformed(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":     "",
		"syntax":    "process: [",
		"no boxes":  "process: main",
		"not a map": "process: main\nboxes: [1, 2]",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := schema.Parse([]byte(doc))
			assert.ErrorIs(t, err, schema.ErrInvalidDocument)
		})
	}
}

func TestBuild_ConstructionError(t *testing.T) {
	doc := []byte(`
process: main
boxes:
  main: { op: seq, args: [cut, wire] }
  cut:  { op: cut }
  wire: { op: wire }
`)
	d, err := schema.Parse(doc)
	require.NoError(t, err)

	_, err = schema.Build(box.NewContext(), d)
	assert.ErrorIs(t, err, domain.ErrArityMismatch)
	assert.Contains(t, err.Error(), `box "main" (seq)`)
}

func TestBuild_Route(t *testing.T) {
	doc := []byte(`
process: swap
boxes:
  swap: { op: route, n: 2, m: 2, pairs: [[1, 2], [2, 1]] }
`)
	d, err := schema.Parse(doc)
	require.NoError(t, err)

	ctx := box.NewContext()
	b, err := schema.Build(ctx, d)
	require.NoError(t, err)

	n, err := ctx.Node(b)
	require.NoError(t, err)
	assert.Equal(t, domain.BoxRoute, n.Kind)
	assert.Equal(t, []box.Pair{{In: 1, Out: 2}, {In: 2, Out: 1}}, n.Pairs)

	d.Boxes["swap"] = schema.Entry{Op: "route", N: d.Boxes["swap"].N, M: d.Boxes["swap"].M}
	_, err = schema.Build(ctx, d)
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)
}

func TestFromBox_RoundTrip(t *testing.T) {
	ctx := box.NewContext()
	must := mustBox(t)

	freq := must(ctx.HSlider("freq", must(ctx.Real(440)), must(ctx.Real(20)), must(ctx.Real(2000)), must(ctx.Real(1))))
	sr := must(ctx.FConst(domain.TypeInt, "fSamplingFreq", "<math.h>"))
	ratio := must(ctx.Seq(must(ctx.Par(freq, sr)), must(ctx.BinOp(domain.OpDiv))))
	wave := must(ctx.Waveform(must(ctx.Int(0)), must(ctx.Real(0.5)), must(ctx.Int(1))))
	snd := must(ctx.Soundfile("kick", must(ctx.Int(2))))
	pairs := must(ctx.Par(must(ctx.Int(1)), must(ctx.Par(must(ctx.Int(2)), must(ctx.Par(must(ctx.Int(2)), must(ctx.Int(1))))))))
	swap := must(ctx.Route(must(ctx.Int(2)), must(ctx.Int(2)), pairs))
	root := must(ctx.Par(must(ctx.Par(ratio, must(ctx.Seq(wave, swap)))), must(ctx.Seq(must(ctx.Par(must(ctx.Wire()), must(ctx.Wire()))), snd))))

	doc, err := schema.FromBox(ctx, root, "mix")
	require.NoError(t, err)
	assert.Equal(t, "mix", doc.Name)
	assert.Contains(t, doc.Boxes, doc.Process)

	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			data, err := schema.Marshal(doc, format)
			require.NoError(t, err)

			parsed, err := schema.Parse(data)
			require.NoError(t, err)

			other := box.NewContext()
			rebuilt, err := schema.Build(other, parsed)
			require.NoError(t, err)

			want, err := ctx.Fingerprint(root)
			require.NoError(t, err)
			got, err := other.Fingerprint(rebuilt)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestMarshal_UnknownFormat(t *testing.T) {
	_, err := schema.Marshal(&schema.Document{}, "toml")
	assert.Error(t, err)
}
