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

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/internal/logging"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/aretw0/tms/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// MachineResponse is the structured result of every tool.
type MachineResponse struct {
	SessionID string           `json:"session_id" jsonschema_description:"The session holding the machine"`
	Snapshot  *domain.Snapshot `json:"snapshot" jsonschema_description:"The machine after the operation"`
	Applied   int              `json:"applied" jsonschema_description:"Transitions applied by the operation"`
	Halted    bool             `json:"halted" jsonschema_description:"Indicates if the machine is in its halt state"`
	Stuck     bool             `json:"stuck,omitempty" jsonschema_description:"No instruction matched: the machine halted implicitly"`
	Notice    string           `json:"notice,omitempty" jsonschema_description:"Non-fatal condition reported by the operation"`
}

type loadArgs struct {
	SessionID string `mapstructure:"session_id"`
	Name      string `mapstructure:"name"`
	Config    string `mapstructure:"config"`
}

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
	MaxSteps  int    `mapstructure:"max_steps"`
}

// Server exposes a session.Manager as an MCP Server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		logger:    logger,
		mcpServer: server.NewMCPServer("tms-mcp", strings.TrimSpace(tms.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
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

		s.logger.Info("Shutdown signal received, shutting down server")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: load_machine
	loadTool := mcp.NewTool("load_machine",
		mcp.WithDescription("Load a Turing machine configuration into a session, replacing the machine it held."),
		mcp.WithString("config", mcp.Required(), mcp.Description("Configuration text: initial state and tape, halt state, then one instruction per line")),
		mcp.WithString("session_id", mcp.Description("Session to load into (a new ID is generated when omitted)")),
		mcp.WithString("name", mcp.Description("Name of the configuration, used in diagnostics")),
		mcp.WithOutputSchema[MachineResponse](),
	)
	s.mcpServer.AddTool(loadTool, mcp.NewStructuredToolHandler(s.handleLoad))

	// TOOL: step
	stepTool := mcp.NewTool("step",
		mcp.WithDescription("Apply the single transition matching the current state and the symbol under the head."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[MachineResponse](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))

	// TOOL: run
	runTool := mcp.NewTool("run",
		mcp.WithDescription("Step the machine until it halts, no instruction matches or max_steps is reached."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithNumber("max_steps", mcp.Description(fmt.Sprintf("Step bound (default %d)", tms.DefaultMaxSteps))),
		mcp.WithOutputSchema[MachineResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: reset
	resetTool := mcp.NewTool("reset",
		mcp.WithDescription("Reload the session configuration: initial state and tape, head at cell 0."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[MachineResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: inspect
	inspectTool := mcp.NewTool("inspect",
		mcp.WithDescription("Return the current machine of a session without changing it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[MachineResponse](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspect))
}

func decodeArgs(args map[string]interface{}, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) sessionArgs(args map[string]interface{}) (sessionArgs, error) {
	var in sessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return in, err
	}
	if in.SessionID == "" {
		return in, errors.New("session_id is required")
	}
	return in, nil
}

// Handler methods for structured tools

func (s *Server) handleLoad(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineResponse, error) {
	var in loadArgs
	if err := decodeArgs(args, &in); err != nil {
		return MachineResponse{}, err
	}
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}
	if err := session.ValidateID(in.SessionID); err != nil {
		return MachineResponse{}, err
	}
	if in.Name == "" {
		in.Name = in.SessionID
	}

	snap, err := s.sessions.Create(ctx, in.SessionID, in.Name, in.Config)
	if err != nil {
		s.logger.Warn("MCP load_machine: Configuration rejected", "session_id", in.SessionID, "err", err)
		return MachineResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return response(in.SessionID, snap, 0, nil), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineResponse, error) {
	return s.apply(ctx, args, func(ctx context.Context, sim *tms.Simulator, _ sessionArgs) (int, error) {
		if err := sim.Step(); err != nil {
			return 0, err
		}
		return 1, nil
	})
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineResponse, error) {
	return s.apply(ctx, args, func(ctx context.Context, sim *tms.Simulator, in sessionArgs) (int, error) {
		maxSteps := in.MaxSteps
		if maxSteps <= 0 {
			maxSteps = tms.DefaultMaxSteps
		}
		return sim.Run(ctx, maxSteps)
	})
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineResponse, error) {
	return s.apply(ctx, args, func(ctx context.Context, sim *tms.Simulator, _ sessionArgs) (int, error) {
		return 0, sim.Reset()
	})
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineResponse, error) {
	in, err := s.sessionArgs(args)
	if err != nil {
		return MachineResponse{}, err
	}
	snap, err := s.sessions.Load(ctx, in.SessionID)
	if err != nil {
		return MachineResponse{}, fmt.Errorf("inspect failed: %w", err)
	}
	return response(in.SessionID, snap, 0, nil), nil
}

// apply runs op on the stored machine. A stuck machine or a reached step limit
// is reported in the response; fatal step errors fail the tool call.
func (s *Server) apply(ctx context.Context, args map[string]interface{}, op func(context.Context, *tms.Simulator, sessionArgs) (int, error)) (MachineResponse, error) {
	in, err := s.sessionArgs(args)
	if err != nil {
		return MachineResponse{}, err
	}

	var applied int
	snap, err := s.sessions.Do(ctx, in.SessionID, func(ctx context.Context, sim *tms.Simulator) error {
		var opErr error
		applied, opErr = op(ctx, sim, in)
		return opErr
	})
	if err != nil && (snap == nil || !isNotice(err)) {
		s.logger.Warn("MCP tool failed", "session_id", in.SessionID, "err", err)
		return MachineResponse{}, err
	}
	return response(in.SessionID, snap, applied, err), nil
}

func isNotice(err error) bool {
	return errors.Is(err, domain.ErrNoMatchingInstruction) || errors.Is(err, domain.ErrStepLimit)
}

func response(id string, snap *domain.Snapshot, applied int, notice error) MachineResponse {
	res := MachineResponse{
		SessionID: id,
		Snapshot:  snap,
		Applied:   applied,
		Halted:    snap.Halted,
		Stuck:     errors.Is(notice, domain.ErrNoMatchingInstruction),
	}
	if notice != nil {
		res.Notice = notice.Error()
	}
	return res
}

func (s *Server) registerResources() {
	// EXPOSE: tms://sessions
	s.mcpServer.AddResource(mcp.NewResource("tms://sessions", "Active Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tms://sessions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
