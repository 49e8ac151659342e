package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/faustbox/pkg/schema"
)

// Loader adapts the Loam library to the faustbox DiagramLoader interface.
// Each markdown (or JSON/YAML) document of the repository is one diagram.
type Loader struct {
	Repo *loam.TypedRepository[DiagramMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DiagramMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// GetDiagram retrieves a diagram and returns it as a validated JSON document.
// The diagram name defaults to its normalized ID.
func (l *Loader) GetDiagram(id string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	meta := doc.Data
	rawID := meta.ID
	if rawID == "" {
		rawID = doc.ID
	}

	name := meta.Name
	if name == "" {
		name = trimExtension(rawID)
	}
	raw := map[string]any{
		"name":    name,
		"process": meta.Process,
		"boxes":   meta.Boxes,
	}
	if meta.Boxes == nil {
		raw["boxes"] = map[string]any{}
	}

	parsed, err := schema.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("diagram %s: %w", trimExtension(rawID), err)
	}
	return schema.Marshal(parsed, "json")
}

// ListDiagrams lists all diagrams in the repository.
func (l *Loader) ListDiagrams() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

// Watch emits the ID of every diagram changed on disk until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
