package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/faustbox"
	"github.com/aretw0/faustbox/pkg/adapters/file"
	"github.com/aretw0/faustbox/pkg/adapters/memory"
	"github.com/aretw0/faustbox/pkg/adapters/redis"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/observability"
	"github.com/aretw0/faustbox/pkg/schema"
)

// newService wires a Service from the persistent flags: logger, factory cache
// backend and diagram library. extra hooks are chained after the log hooks.
func newService(cmd *cobra.Command, extra ...domain.Hooks) (*faustbox.Service, *slog.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}

	dir, _ := cmd.Flags().GetString("dir")
	backend, _ := cmd.Flags().GetString("store")

	hooks := append([]domain.Hooks{observability.LogHooks(logger)}, extra...)
	opts := []faustbox.Option{
		faustbox.WithLogger(logger),
		faustbox.WithHooks(observability.Chain(hooks...)),
	}

	switch backend {
	case "", "memory":
		opts = append(opts, faustbox.WithStore(memory.NewStore()))
	case "file":
		path, _ := cmd.Flags().GetString("store-path")
		opts = append(opts, faustbox.WithStore(file.New(path)))
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("redis-ttl")

		store := redis.New(addr, password, db, redis.WithTTL(ttl))
		opts = append(opts,
			faustbox.WithStore(store),
			faustbox.WithLocker(redis.NewLocker(store.Client(), "faustbox:")),
		)
		logger.Debug("Using redis factory cache", "addr", addr, "db", db)
	default:
		return nil, nil, fmt.Errorf("unknown store %q (memory, file, redis)", backend)
	}

	svc, err := faustbox.New(dir, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize faustbox: %w", err)
	}
	return svc, logger, nil
}

// readDocument returns the document named by the arguments: a library diagram
// when --id is set, stdin for "-", otherwise a file path.
func readDocument(cmd *cobra.Command, svc *faustbox.Service, args []string) (*schema.Document, error) {
	id, _ := cmd.Flags().GetString("id")

	var data []byte
	var err error
	switch {
	case id != "":
		if svc.Loader() == nil {
			return nil, fmt.Errorf("--id needs a diagram library (--dir)")
		}
		data, err = svc.Loader().GetDiagram(id)
	case len(args) == 0:
		return nil, fmt.Errorf("expected a document path, '-' or --id")
	case args[0] == "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, err
	}
	return schema.Parse(data)
}

// splitArgs separates the positional arguments from the compiler arguments
// that follow "--".
func splitArgs(cmd *cobra.Command, args []string) ([]string, []string) {
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		return args[:dash], args[dash:]
	}
	return args, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
