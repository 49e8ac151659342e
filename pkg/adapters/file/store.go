package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

// Ext is the extension of stored factories (MessagePack).
const Ext = ".fbx"

// validKey rejects keys that could escape the base directory.
var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store implements ports.FactoryStore using the local filesystem.
// Each factory is one binary file named after its SHA key.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".faustbox/factories".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".faustbox", "factories")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(sha string) (string, error) {
	if !validKey.MatchString(sha) {
		return "", fmt.Errorf("invalid factory key %q", sha)
	}
	return filepath.Join(s.BasePath, sha+Ext), nil
}

// Save writes the factory atomically: temp file, fsync, then rename.
func (s *Store) Save(ctx context.Context, f *factory.Factory) error {
	destPath, err := s.path(f.SHAKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure factory directory: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf, true, true); err != nil {
		return err
	}

	// Same directory as the destination so that the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+f.SHAKey+"-*"+Ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // No-op once renamed
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Close before rename (required on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing factory file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to factory: %w", err)
	}
	return nil
}

// Load reads a factory file.
func (s *Store) Load(ctx context.Context, sha string) (*factory.Factory, error) {
	filePath, err := s.path(sha)
	if err != nil {
		return nil, err
	}

	fh, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFactoryNotFound, sha)
		}
		return nil, fmt.Errorf("failed to read factory file: %w", err)
	}
	defer fh.Close()

	return factory.Read(fh, true)
}

// Delete removes the factory file.
func (s *Store) Delete(ctx context.Context, sha string) error {
	filePath, err := s.path(sha)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete factory file: %w", err)
	}
	return nil
}

// List returns the keys of all factory files.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list factories: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != Ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, Ext))
	}
	return keys, nil
}
