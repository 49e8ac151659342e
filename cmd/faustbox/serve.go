package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/faustbox"
	"github.com/aretw0/faustbox/internal/presentation/tui"
	httpAdapter "github.com/aretw0/faustbox/pkg/adapters/http"
	"github.com/aretw0/faustbox/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP compile server",
	Long: `Exposes the compiler and the factory cache as a JSON API over HTTP.
Prometheus metrics are served on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		warm, _ := cmd.Flags().GetBool("warm")
		watch, _ := cmd.Flags().GetBool("watch")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		svc, logger, err := newService(cmd, metrics.Hooks())
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		r.Mount("/", httpAdapter.NewHandler(svc, svc.Loader(), logger))

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if svc.Loader() != nil {
			if warm {
				warmLibrary(ctx, svc, logger)
			}
			if watch {
				if err := watchLibrary(ctx, svc, logger); err != nil {
					return err
				}
			}
		}

		if isTerminal(cmd.ErrOrStderr()) {
			tui.PrintBanner(cmd.ErrOrStderr(), faustbox.Version)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting faustbox server", "addr", srv.Addr, "library", svc.Name)
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("faustbox server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("warm", false, "Compile every library diagram at startup")
	serveCmd.Flags().Bool("watch", false, "Recompile library diagrams when their files change")
}

// warmLibrary compiles every diagram of the library with the default options.
func warmLibrary(ctx context.Context, svc *faustbox.Service, logger *slog.Logger) {
	ids, err := svc.Loader().ListDiagrams()
	if err != nil {
		logger.Warn("Cannot list library diagrams", "error", err)
		return
	}
	for _, id := range ids {
		if f, err := svc.CompileDiagram(ctx, id, nil); err != nil {
			logger.Warn("Library diagram does not compile", "id", id, "error", err)
		} else {
			logger.Info("Library diagram compiled", "id", id, "sha", f.SHAKey)
		}
	}
}

// libraryWatcher is implemented by libraries that report changed diagrams.
type libraryWatcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// watchLibrary recompiles each diagram reported as changed until ctx is done.
func watchLibrary(ctx context.Context, svc *faustbox.Service, logger *slog.Logger) error {
	w, ok := svc.Loader().(libraryWatcher)
	if !ok {
		return fmt.Errorf("the diagram library does not support watching")
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch library: %w", err)
	}
	go func() {
		for id := range events {
			if f, err := svc.CompileDiagram(ctx, id, nil); err != nil {
				logger.Warn("Changed diagram does not compile", "id", id, "error", err)
			} else {
				logger.Info("Changed diagram recompiled", "id", id, "sha", f.SHAKey)
			}
		}
	}()
	return nil
}
