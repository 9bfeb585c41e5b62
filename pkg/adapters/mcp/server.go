package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/internal/logging"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CheckResponse is the structured result of check_input.
type CheckResponse struct {
	Accepted bool     `json:"accepted" jsonschema_description:"Whether the automaton accepts the input"`
	Trace    []string `json:"trace" jsonschema_description:"States visited, start state first"`
	Error    string   `json:"error,omitempty" jsonschema_description:"Undefined transition that stopped the run, if any"`
}

// ListResponse is the structured result of list_automata.
type ListResponse struct {
	Automata []string `json:"automata" jsonschema_description:"Stored automaton names in ascending order"`
}

// Engine defines what the MCP server needs from automata.Engine.
type Engine interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*domain.Automaton, error)
	Evaluate(a *domain.Automaton, input string) (automata.Result, error)
}

// Server exposes stored automata as MCP tools.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("automata-mcp", strings.TrimSpace(automata.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down when ctx ends.
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

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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
	s.mcpServer.AddTool(mcp.NewTool("list_automata",
		mcp.WithDescription("List the names of stored automata."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleList))

	s.mcpServer.AddTool(mcp.NewTool("describe_automaton",
		mcp.WithDescription("Describe a stored automaton: states, alphabet, start, accept states and transitions."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Automaton name")),
		mcp.WithString("format", mcp.Description("pretty (default), tabular or yaml")),
	), s.handleDescribe)

	s.mcpServer.AddTool(mcp.NewTool("check_input",
		mcp.WithDescription("Run a stored automaton on an input string and report acceptance and the visited states."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Automaton name")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input string, one symbol per character")),
		mcp.WithOutputSchema[CheckResponse](),
	), mcp.NewStructuredToolHandler(s.handleCheckInput))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	names, err := s.engine.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	return ListResponse{Automata: names}, nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f := format.FormatPretty
	if raw := request.GetString("format", ""); raw != "" {
		if f, err = format.ParseFormat(raw); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	a, err := s.engine.Get(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load %q: %v", name, err)), nil
	}

	var sb strings.Builder
	if err := format.Encode(&sb, f, a); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleCheckInput reports an undefined transition in the result rather than as a tool failure.
func (s *Server) handleCheckInput(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckResponse, error) {
	name, _ := args["name"].(string)
	input, _ := args["input"].(string)
	if name == "" {
		return CheckResponse{}, errors.New("name is required")
	}

	a, err := s.engine.Get(ctx, name)
	if err != nil {
		return CheckResponse{}, fmt.Errorf("load %q: %w", name, err)
	}

	res, err := s.engine.Evaluate(a, input)
	resp := CheckResponse{Accepted: res.Accepted, Trace: res.Trace}
	if err != nil {
		if !errors.Is(err, domain.ErrUndefinedTransition) {
			return CheckResponse{}, err
		}
		resp.Error = err.Error()
	}
	s.logger.Debug("check_input", "name", name, "accepted", resp.Accepted, "error", resp.Error)
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("automata://index", "Stored automata",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.engine.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list automata: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "automata://index",
				MIMEType: "text/plain",
				Text:     strings.Join(names, "\n"),
			},
		}, nil
	})
}
