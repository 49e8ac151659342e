package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/registry"
)

func TestRegistry(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("host.h", "fGain", "fSampleRate")
	r.Register("host.h", "fGain")
	r.Register("", "iCount")

	assert.NoError(t, r.Resolve("fGain", "host.h"))
	assert.NoError(t, r.Resolve("iCount", ""))
	assert.ErrorIs(t, r.Resolve("fGain", "other.h"), domain.ErrUnresolvedForeignReference)
	assert.ErrorIs(t, r.Resolve("fMissing", "host.h"), domain.ErrUnresolvedForeignReference)

	assert.Equal(t, []string{"fGain", "fSampleRate"}, r.Symbols("host.h"))
	assert.Equal(t, []string{"", "host.h"}, r.Files())
	assert.Empty(t, r.Symbols("none.h"))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := registry.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register("host.h", "fGain")
			_ = r.Resolve("fGain", "host.h")
		}()
	}
	wg.Wait()
	assert.NoError(t, r.Resolve("fGain", "host.h"))
}
