package mcp

import (
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

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
)

// StateResponse is the structured result of every tool.
type StateResponse struct {
	State      *domain.State `json:"state" jsonschema_description:"Full calculator state"`
	Display    string        `json:"display" jsonschema_description:"What the calculator screen shows"`
	Equation   string        `json:"equation" jsonschema_description:"Trail of the pending or last computation"`
	Indicators string        `json:"indicators" jsonschema_description:"Mode flags: DEG/RAD, 2nd, M"`
}

// PressArgs are the arguments of the press tool.
type PressArgs struct {
	SessionID string `json:"session_id"`
	Tokens    string `json:"tokens"`
}

// SessionArgs are the arguments of get_state.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// AngleModeArgs are the arguments of set_angle_mode.
type AngleModeArgs struct {
	SessionID string `json:"session_id"`
	AngleMode string `json:"angle_mode"`
}

// EvaluateArgs are the arguments of the stateless evaluate tool.
type EvaluateArgs struct {
	Tokens    string `json:"tokens"`
	AngleMode string `json:"angle_mode,omitempty"`
}

// Server wraps the calculator and exposes it as an MCP Server.
type Server struct {
	calc      ports.Calculator
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for transport and input events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(calc ports.Calculator, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		calc:      calc,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("abacus-mcp", strings.TrimSpace(abacus.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until ctx is done.
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

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const tokensHelp = "Space-separated keys, e.g. \"12 + 30 =\" or \"90 sin\". Read abacus://keys for the full list."

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("press",
		mcp.WithDescription("Press calculator keys in a session, creating the session if needed. Keys are applied in order; an unknown key rejects the whole call."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to operate on")),
		mcp.WithString("tokens", mcp.Required(), mcp.Description(tokensHelp)),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handlePress))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Read the current state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to read")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("set_angle_mode",
		mcp.WithDescription("Switch a session between degrees and radians for trigonometric keys."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to update")),
		mcp.WithString("angle_mode", mcp.Required(), mcp.Enum("deg", "rad"), mcp.Description("deg or rad")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetAngleMode))

	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Press keys on a fresh calculator without storing anything."),
		mcp.WithString("tokens", mcp.Required(), mcp.Description(tokensHelp)),
		mcp.WithString("angle_mode", mcp.Enum("deg", "rad"), mcp.Description("Angle mode, deg by default")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List stored session IDs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handlePress(ctx context.Context, request mcp.CallToolRequest, args PressArgs) (StateResponse, error) {
	tokens, err := s.splitKeys(args.Tokens)
	if err != nil {
		return StateResponse{}, err
	}
	if args.SessionID == "" {
		return StateResponse{}, errors.New("session_id is required")
	}
	if _, err := s.sessions.LoadOrStart(ctx, args.SessionID); err != nil {
		return StateResponse{}, fmt.Errorf("failed to open session: %w", err)
	}

	_, next, err := s.sessions.Apply(ctx, args.SessionID, func(st *domain.State) (*domain.State, error) {
		return s.calc.PressAll(ctx, st, tokens)
	})
	if err != nil {
		return StateResponse{}, fmt.Errorf("press failed: %w", err)
	}
	return newResponse(next), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (StateResponse, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return StateResponse{}, fmt.Errorf("get_state failed: %w", err)
	}
	return newResponse(state), nil
}

func (s *Server) handleSetAngleMode(ctx context.Context, request mcp.CallToolRequest, args AngleModeArgs) (StateResponse, error) {
	mode, err := domain.ParseAngleMode(args.AngleMode)
	if err != nil {
		return StateResponse{}, fmt.Errorf("%w: %q", err, args.AngleMode)
	}
	_, next, err := s.sessions.Apply(ctx, args.SessionID, func(st *domain.State) (*domain.State, error) {
		return s.calc.SetAngleMode(ctx, st, mode)
	})
	if err != nil {
		return StateResponse{}, fmt.Errorf("set_angle_mode failed: %w", err)
	}
	return newResponse(next), nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args EvaluateArgs) (StateResponse, error) {
	tokens, err := s.splitKeys(args.Tokens)
	if err != nil {
		return StateResponse{}, err
	}
	state := s.calc.StartSession("")
	if args.AngleMode != "" {
		mode, err := domain.ParseAngleMode(args.AngleMode)
		if err != nil {
			return StateResponse{}, fmt.Errorf("%w: %q", err, args.AngleMode)
		}
		if state, err = s.calc.SetAngleMode(ctx, state, mode); err != nil {
			return StateResponse{}, err
		}
	}
	state, err = s.calc.PressAll(ctx, state, tokens)
	if err != nil {
		return StateResponse{}, err
	}
	return newResponse(state), nil
}

func (s *Server) splitKeys(input string) ([]string, error) {
	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.logger.Warn("MCP: Input rejected", "err", err, "size", len(input))
		return nil, fmt.Errorf("input rejected: %w", err)
	}
	tokens := strings.Fields(clean)
	if len(tokens) == 0 {
		return nil, errors.New("tokens is empty")
	}
	return tokens, nil
}

func newResponse(state *domain.State) StateResponse {
	return StateResponse{
		State:      state,
		Display:    state.Display,
		Equation:   state.Equation,
		Indicators: runner.Indicators(state),
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("abacus://keys", "Calculator key layout",
		mcp.WithResourceDescription("Every key token the calculator accepts, with aliases and keyboard shortcuts."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.calc.Keymap().Bindings())
		if err != nil {
			return nil, fmt.Errorf("failed to encode key layout: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "abacus://keys",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource("abacus://help", "Calculator help",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "abacus://help",
				MIMEType: "text/markdown",
				Text:     runner.Help(s.calc.Keymap()),
			},
		}, nil
	})
}
