package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox/pkg/adapters/memory"
	"github.com/aretw0/faustbox/pkg/ports/tests"
	"github.com/aretw0/faustbox/pkg/schema"
)

func TestLoader_Contract(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"id":   "process: w\nboxes:\n  w: { op: wire }\n",
		"gain": `{"process": "g", "boxes": {"g": {"op": "real", "value": 0.5}}}`,
	})

	tests.DiagramLoaderContractTest(t, loader, map[string]string{
		"id":   "op: wire",
		"gain": `"value": 0.5`,
	})
}

func TestNewFromDocuments(t *testing.T) {
	v := 2.0
	loader, err := memory.NewFromDocuments(map[string]*schema.Document{
		"two": {Process: "n", Boxes: map[string]schema.Entry{"n": {Op: "int", Value: &v}}},
	})
	require.NoError(t, err)

	data, err := loader.GetDiagram("two")
	require.NoError(t, err)

	doc, err := schema.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "n", doc.Process)

	_, err = memory.NewFromDocuments(map[string]*schema.Document{"": {}})
	assert.Error(t, err)
}
