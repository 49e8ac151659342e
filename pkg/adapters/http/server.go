package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/faustbox"
	"github.com/aretw0/faustbox/internal/interval"
	"github.com/aretw0/faustbox/internal/presentation/graph"
	"github.com/aretw0/faustbox/internal/presentation/tui"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
	"github.com/aretw0/faustbox/pkg/ports"
	"github.com/aretw0/faustbox/pkg/schema"
)

// MaxDocumentSize bounds the body of a compile request.
const MaxDocumentSize = 1 << 20

// ContentTypeMsgpack selects the binary factory encoding.
const ContentTypeMsgpack = "application/msgpack"

// Watcher is implemented by diagram libraries that report changes (e.g. Loam).
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Server exposes a CompileService over HTTP.
type Server struct {
	Service ports.CompileService
	Loader  ports.DiagramLoader // Optional
	Logger  *slog.Logger
}

// NewHandler creates the HTTP handler for the service. loader may be nil.
func NewHandler(svc ports.CompileService, loader ports.DiagramLoader, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Service: svc, Loader: loader, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/compile", s.Compile)
	r.Route("/factories", func(r chi.Router) {
		r.Get("/", s.ListFactories)
		r.Get("/{sha}", s.GetFactory)
		r.Delete("/{sha}", s.DeleteFactory)
		r.Get("/{sha}/graph", s.GetGraph)
		r.Get("/{sha}/report", s.GetReport)
	})
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.ListDiagrams)
		r.Get("/*", s.GetDiagram)
		r.Post("/*", s.CompileDiagram)
	})
	r.Get("/events", s.SubscribeEvents)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error       string   `json:"error"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	var ce *domain.CompileError
	switch {
	case errors.Is(err, domain.ErrFactoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, factory.ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.As(err, &ce),
		errors.Is(err, schema.ErrInvalidDocument),
		errors.Is(err, domain.ErrArityMismatch),
		errors.Is(err, domain.ErrRoutingIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidBox),
		errors.Is(err, domain.ErrNotConstant):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "error", err)
	} else {
		s.Logger.Warn(op+" rejected", "status", status, "error", err)
	}

	resp := errorResponse{Error: err.Error()}
	for _, d := range domain.Diagnostics(err) {
		resp.Diagnostics = append(resp.Diagnostics, d.Error())
	}
	for _, v := range schema.ValidationErrors(err) {
		resp.Diagnostics = append(resp.Diagnostics, v.Error())
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeFactory encodes f as JSON, or MessagePack when the client accepts it.
func writeFactory(w http.ResponseWriter, r *http.Request, status int, f *factory.Factory) {
	binary := strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
	compact, _ := strconv.ParseBool(r.URL.Query().Get("compact"))
	if binary {
		w.Header().Set("Content-Type", ContentTypeMsgpack)
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("ETag", strconv.Quote(f.SHAKey))
	w.WriteHeader(status)
	if err := f.Write(w, binary, compact); err != nil {
		slog.Error("factory encode failed", "sha", f.SHAKey, "error", err)
	}
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "faustbox-http",
		"version": strings.TrimSpace(faustbox.Version),
		"library": s.Loader != nil,
	})
}

// Compile handles POST /compile. The body is a YAML or JSON diagram document;
// repeated ?args= parameters form the compiler argument vector.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return
	}
	f, err := s.Service.Compile(r.Context(), body, r.URL.Query()["args"])
	if err != nil {
		s.fail(w, "Compile", err)
		return
	}
	writeFactory(w, r, http.StatusOK, f)
}

// ListFactories handles GET /factories.
func (s *Server) ListFactories(w http.ResponseWriter, r *http.Request) {
	keys, err := s.Service.Factories(r.Context())
	if err != nil {
		s.fail(w, "ListFactories", err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keys)
}

// GetFactory handles GET /factories/{sha}.
func (s *Server) GetFactory(w http.ResponseWriter, r *http.Request) {
	f, err := s.Service.Factory(r.Context(), chi.URLParam(r, "sha"))
	if err != nil {
		s.fail(w, "GetFactory", err)
		return
	}
	writeFactory(w, r, http.StatusOK, f)
}

// DeleteFactory handles DELETE /factories/{sha}.
func (s *Server) DeleteFactory(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.Forget(r.Context(), chi.URLParam(r, "sha")); err != nil {
		s.fail(w, "DeleteFactory", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /factories/{sha}/graph, rendering the signal program as
// a Mermaid flowchart. ?ranges=true annotates every node with its value range.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	f, err := s.Service.Factory(r.Context(), chi.URLParam(r, "sha"))
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}
	var overlay *graph.GraphOverlay
	if ranges, _ := strconv.ParseBool(r.URL.Query().Get("ranges")); ranges {
		overlay = &graph.GraphOverlay{Ranges: interval.Infer(f.Program), Highlight: f.Program.Outputs}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(f.Program, overlay))
}

// GetReport handles GET /factories/{sha}/report (markdown).
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	f, err := s.Service.Factory(r.Context(), chi.URLParam(r, "sha"))
	if err != nil {
		s.fail(w, "GetReport", err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, tui.Report(f))
}

func (s *Server) requireLoader(w http.ResponseWriter) bool {
	if s.Loader == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no diagram library configured"})
		return false
	}
	return true
}

// ListDiagrams handles GET /diagrams.
func (s *Server) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	if !s.requireLoader(w) {
		return
	}
	ids, err := s.Loader.ListDiagrams()
	if err != nil {
		s.fail(w, "ListDiagrams", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetDiagram handles GET /diagrams/{id}, returning the raw document.
func (s *Server) GetDiagram(w http.ResponseWriter, r *http.Request) {
	if !s.requireLoader(w) {
		return
	}
	id := chi.URLParam(r, "*")
	data, err := s.Loader.GetDiagram(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// CompileDiagram handles POST /diagrams/{id}: it compiles a library diagram
// with the ?args= argument vector.
func (s *Server) CompileDiagram(w http.ResponseWriter, r *http.Request) {
	if !s.requireLoader(w) {
		return
	}
	id := chi.URLParam(r, "*")
	data, err := s.Loader.GetDiagram(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	f, err := s.Service.Compile(r.Context(), data, r.URL.Query()["args"])
	if err != nil {
		s.fail(w, "CompileDiagram", fmt.Errorf("diagram %s: %w", id, err))
		return
	}
	writeFactory(w, r, http.StatusOK, f)
}

// SubscribeEvents handles GET /events (SSE): one event per changed library diagram.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	watcher, ok := s.Loader.(Watcher)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "diagram library does not support watching"})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := watcher.Watch(r.Context())
	if err != nil {
		s.fail(w, "Watch", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected")
			return
		case id, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: changed\ndata: %s\n\n", id)
			flusher.Flush()
		}
	}
}
