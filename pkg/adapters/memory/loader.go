package memory

import (
	"fmt"
	"sort"

	"github.com/aretw0/faustbox/pkg/schema"
)

// Loader implements ports.DiagramLoader using an in-memory map.
type Loader struct {
	diagrams map[string][]byte
}

// NewLoader creates a Loader with the provided raw documents (YAML or JSON).
func NewLoader(data map[string]string) *Loader {
	diagrams := make(map[string][]byte, len(data))
	for k, v := range data {
		diagrams[k] = []byte(v)
	}
	return &Loader{diagrams: diagrams}
}

// NewFromDocuments creates a Loader from decoded documents, keyed by ID.
func NewFromDocuments(docs map[string]*schema.Document) (*Loader, error) {
	diagrams := make(map[string][]byte, len(docs))
	for id, doc := range docs {
		if id == "" {
			return nil, fmt.Errorf("diagram missing ID")
		}
		data, err := schema.Marshal(doc, "json")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal diagram %s: %w", id, err)
		}
		diagrams[id] = data
	}
	return &Loader{diagrams: diagrams}, nil
}

// GetDiagram retrieves the raw document of a diagram by ID.
func (l *Loader) GetDiagram(id string) ([]byte, error) {
	content, ok := l.diagrams[id]
	if !ok {
		return nil, fmt.Errorf("diagram not found: %s", id)
	}
	return content, nil
}

// ListDiagrams returns all diagram IDs, sorted.
func (l *Loader) ListDiagrams() ([]string, error) {
	ids := make([]string, 0, len(l.diagrams))
	for id := range l.diagrams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
