package observability

import (
	"log/slog"

	"github.com/aretw0/faustbox/pkg/domain"
)

// LogHooks logs compilations at info level (errors at warn) and interning at debug.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnIntern: func(e domain.InternEvent) {
			logger.Debug("box interned", "kind", e.Kind, "arity", e.Arity, "hit", e.Hit)
		},
		OnCompile: func(e domain.CompileEvent) {
			if e.Err != nil {
				logger.Warn("compilation failed",
					"root", e.Root,
					"diagnostics", e.Diagnostics,
					"duration", e.Duration,
					"error", e.Err,
				)
				return
			}
			logger.Info("compiled",
				"root", e.Root,
				"signals", e.Signals,
				"nodes", e.Nodes,
				"duration", e.Duration,
			)
		},
	}
}

// Chain returns hooks that call each of hooks in order.
func Chain(hooks ...domain.Hooks) domain.Hooks {
	return domain.Hooks{
		OnIntern: func(e domain.InternEvent) {
			for _, h := range hooks {
				h.Intern(e)
			}
		},
		OnCompile: func(e domain.CompileEvent) {
			for _, h := range hooks {
				h.Compile(e)
			}
		},
	}
}
