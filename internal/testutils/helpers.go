// Package testutils holds fixtures shared by adapter and CLI tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam diagram library in it.
// It returns the absolute path to the temp dir and the initialized repository.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteFiles writes every file (name relative to dir) and fails the test on error.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// Echo is a one-input, one-output feedback diagram used across tests.
const Echo = `name: echo
process: main
boxes:
  fb:   { op: real, value: 0.5 }
  mul:  { op: mul }
  wire: { op: wire }
  gain: { op: par, args: [wire, fb] }
  loop: { op: seq, args: [gain, mul] }
  add:  { op: add }
  main: { op: rec, args: [add, loop] }
`
