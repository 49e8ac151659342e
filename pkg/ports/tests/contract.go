package tests

import (
	"strings"
	"testing"

	"github.com/aretw0/faustbox/pkg/ports"
)

// DiagramLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DiagramLoader.
// setupData maps every diagram ID of the library to a fragment its document must contain.
func DiagramLoaderContractTest(t *testing.T, loader ports.DiagramLoader, setupData map[string]string) {
	t.Helper()

	t.Run("GetDiagram_Success", func(t *testing.T) {
		for id, fragment := range setupData {
			content, err := loader.GetDiagram(id)
			if err != nil {
				t.Fatalf("unexpected error getting diagram %s: %v", id, err)
			}
			if !strings.Contains(string(content), fragment) {
				t.Errorf("content mismatch for %s. got %q, want it to contain %q", id, content, fragment)
			}
		}
	})

	t.Run("GetDiagram_NotFound", func(t *testing.T) {
		_, err := loader.GetDiagram("non-existent-diagram")
		if err == nil {
			t.Error("expected error for non-existent diagram, got nil")
		}
	})

	t.Run("ListDiagrams", func(t *testing.T) {
		ids, err := loader.ListDiagrams()
		if err != nil {
			t.Fatalf("unexpected error listing diagrams: %v", err)
		}

		if len(ids) != len(setupData) {
			t.Errorf("expected %d diagrams, got %d", len(setupData), len(ids))
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range setupData {
			if !lookup[id] {
				t.Errorf("diagram %s missing from list", id)
			}
		}
	})
}
