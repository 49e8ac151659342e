package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/faustbox"
	"github.com/aretw0/faustbox/internal/interval"
	"github.com/aretw0/faustbox/internal/presentation/graph"
	"github.com/aretw0/faustbox/internal/presentation/tui"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
	"github.com/aretw0/faustbox/pkg/ports"
)

// FactoriesURI lists the cached factories; FactoryURITemplate reads one of them.
const (
	FactoriesURI       = "faustbox://factories"
	FactoryURITemplate = "faustbox://factories/{sha}"
)

// CompileArgs are the arguments of compile_diagram.
type CompileArgs struct {
	Document string   `json:"document"`
	Args     []string `json:"args,omitempty"`
}

// LibraryArgs are the arguments of compile_library_diagram.
type LibraryArgs struct {
	ID   string   `json:"id"`
	Args []string `json:"args,omitempty"`
}

// FactoryArgs select a cached factory.
type FactoryArgs struct {
	SHA    string `json:"sha"`
	Ranges bool   `json:"ranges,omitempty"`
}

// CompileResult summarizes a compiled factory for an agent.
type CompileResult struct {
	SHA     string         `json:"sha" jsonschema_description:"SHA key of the factory, used by the other tools"`
	Name    string         `json:"name"`
	Arity   domain.Arity   `json:"arity" jsonschema_description:"Number of audio inputs and outputs"`
	Options []string       `json:"options" jsonschema_description:"Canonical compiler arguments"`
	Nodes   map[string]int `json:"nodes" jsonschema_description:"Signal node count per kind"`
	Outputs []string       `json:"outputs" jsonschema_description:"Inferred value range of every output"`
}

// Server exposes a CompileService as an MCP server.
type Server struct {
	service   ports.CompileService
	loader    ports.DiagramLoader
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. loader may be nil.
func NewServer(svc ports.CompileService, loader ports.DiagramLoader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service:   svc,
		loader:    loader,
		logger:    logger,
		mcpServer: server.NewMCPServer("faustbox-mcp", strings.TrimSpace(faustbox.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compile_diagram
	s.mcpServer.AddTool(mcp.NewTool("compile_diagram",
		mcp.WithDescription("Compile a box diagram document (YAML or JSON) into a cached signal factory."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The diagram document: name, process and boxes")),
		mcp.WithArray("args", mcp.WithStringItems(), mcp.Description("Compiler arguments, e.g. [\"-double\", \"-cn\", \"Synth\"]")),
		mcp.WithOutputSchema[CompileResult](),
	), mcp.NewStructuredToolHandler(s.handleCompile))

	// TOOL: compile_library_diagram
	if s.loader != nil {
		s.mcpServer.AddTool(mcp.NewTool("compile_library_diagram",
			mcp.WithDescription("Compile a diagram of the library by ID."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Diagram ID, see list_diagrams")),
			mcp.WithArray("args", mcp.WithStringItems(), mcp.Description("Compiler arguments")),
			mcp.WithOutputSchema[CompileResult](),
		), mcp.NewStructuredToolHandler(s.handleCompileLibrary))

		s.mcpServer.AddTool(mcp.NewTool("list_diagrams",
			mcp.WithDescription("List the diagram IDs of the library."),
		), s.handleListDiagrams)
	}

	// TOOL: get_factory
	s.mcpServer.AddTool(mcp.NewTool("get_factory",
		mcp.WithDescription("Get a cached factory, including its signal program, as JSON."),
		mcp.WithString("sha", mcp.Required(), mcp.Description("SHA key of the factory")),
	), mcp.NewTypedToolHandler(s.handleGetFactory))

	// TOOL: render_graph
	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render the signal program of a cached factory as a Mermaid flowchart."),
		mcp.WithString("sha", mcp.Required(), mcp.Description("SHA key of the factory")),
		mcp.WithBoolean("ranges", mcp.Description("Annotate every node with its inferred value range")),
	), mcp.NewTypedToolHandler(s.handleRenderGraph))

	// TOOL: report
	s.mcpServer.AddTool(mcp.NewTool("report",
		mcp.WithDescription("Describe a cached factory as markdown: options, node census and output ranges."),
		mcp.WithString("sha", mcp.Required(), mcp.Description("SHA key of the factory")),
	), mcp.NewTypedToolHandler(s.handleReport))
}

func summarize(f *factory.Factory) CompileResult {
	res := CompileResult{
		SHA:     f.SHAKey,
		Name:    f.Name,
		Arity:   f.Arity,
		Options: f.Options.Args(),
		Nodes:   f.Program.CountByKind(),
	}
	for _, r := range interval.Outputs(f.Program) {
		res.Outputs = append(res.Outputs, r.String())
	}
	return res
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args CompileArgs) (CompileResult, error) {
	if strings.TrimSpace(args.Document) == "" {
		return CompileResult{}, errors.New("document is required")
	}
	f, err := s.service.Compile(ctx, []byte(args.Document), args.Args)
	if err != nil {
		s.logger.Warn("MCP compile_diagram failed", "error", err)
		return CompileResult{}, fmt.Errorf("compile failed: %w", err)
	}
	return summarize(f), nil
}

func (s *Server) handleCompileLibrary(ctx context.Context, request mcp.CallToolRequest, args LibraryArgs) (CompileResult, error) {
	data, err := s.loader.GetDiagram(args.ID)
	if err != nil {
		return CompileResult{}, err
	}
	f, err := s.service.Compile(ctx, data, args.Args)
	if err != nil {
		s.logger.Warn("MCP compile_library_diagram failed", "id", args.ID, "error", err)
		return CompileResult{}, fmt.Errorf("compile %s failed: %w", args.ID, err)
	}
	return summarize(f), nil
}

func (s *Server) handleListDiagrams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.loader.ListDiagrams()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(ids)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetFactory(ctx context.Context, request mcp.CallToolRequest, args FactoryArgs) (*mcp.CallToolResult, error) {
	f, err := s.service.Factory(ctx, args.SHA)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := f.Write(&buf, false, true); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) handleRenderGraph(ctx context.Context, request mcp.CallToolRequest, args FactoryArgs) (*mcp.CallToolResult, error) {
	f, err := s.service.Factory(ctx, args.SHA)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var overlay *graph.GraphOverlay
	if args.Ranges {
		overlay = &graph.GraphOverlay{Ranges: interval.Infer(f.Program), Highlight: f.Program.Outputs}
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(f.Program, overlay)), nil
}

func (s *Server) handleReport(ctx context.Context, request mcp.CallToolRequest, args FactoryArgs) (*mcp.CallToolResult, error) {
	f, err := s.service.Factory(ctx, args.SHA)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(tui.Report(f)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: faustbox://factories
	s.mcpServer.AddResource(mcp.NewResource(FactoriesURI, "Cached Factories",
		mcp.WithMIMEType("application/json"),
	), s.readFactories)

	// EXPOSE: faustbox://factories/{sha}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(FactoryURITemplate, "Factory",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readFactory)
}

func (s *Server) readFactories(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	keys, err := s.service.Factories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list factories: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	jsonBytes, _ := json.Marshal(keys)
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FactoriesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readFactory(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sha := strings.TrimPrefix(request.Params.URI, FactoriesURI+"/")
	f, err := s.service.Factory(ctx, sha)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf, false, true); err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     buf.String(),
		},
	}, nil
}
