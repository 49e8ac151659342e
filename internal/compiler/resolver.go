package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/faustbox/pkg/domain"
)

// ForeignResolver checks that a foreign constant or variable can be located.
type ForeignResolver interface {
	Resolve(name, file string) error
}

// ResolverFunc adapts a function to ForeignResolver.
type ResolverFunc func(name, file string) error

func (f ResolverFunc) Resolve(name, file string) error { return f(name, file) }

// AcceptAll resolves every foreign reference.
var AcceptAll ForeignResolver = ResolverFunc(func(string, string) error { return nil })

// IncludePathResolver looks foreign declarations up in a list of directories.
// System headers written as "<file>" always resolve. Any other file must exist
// in one of Dirs (or be absolute) and mention the symbol as a whole word.
type IncludePathResolver struct {
	Dirs []string
}

func (r IncludePathResolver) Resolve(name, file string) error {
	if strings.HasPrefix(file, "<") && strings.HasSuffix(file, ">") {
		return nil
	}
	if file == "" {
		return fmt.Errorf("%w: %s has no declaration file", domain.ErrUnresolvedForeignReference, name)
	}
	dirs := r.Dirs
	if filepath.IsAbs(file) {
		dirs = []string{""}
	}
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	for _, dir := range dirs {
		path := filepath.Join(dir, file)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrUnresolvedForeignReference, name, err)
		}
		if word.Match(data) {
			return nil
		}
		return fmt.Errorf("%w: %s is not declared in %s", domain.ErrUnresolvedForeignReference, name, path)
	}
	return fmt.Errorf("%w: %s: %s not found in include path %v", domain.ErrUnresolvedForeignReference, name, file, r.Dirs)
}

// FirstOf resolves a reference when any of resolvers does. On failure it
// returns the error of the last resolver.
func FirstOf(resolvers ...ForeignResolver) ForeignResolver {
	return ResolverFunc(func(name, file string) error {
		err := fmt.Errorf("%w: %s: no resolver", domain.ErrUnresolvedForeignReference, name)
		for _, r := range resolvers {
			if err = r.Resolve(name, file); err == nil {
				return nil
			}
		}
		return err
	})
}
