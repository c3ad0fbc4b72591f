package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/internal/logging"
	"github.com/aretw0/tms/pkg/adapters/file"
	httpAdapter "github.com/aretw0/tms/pkg/adapters/http"
	"github.com/aretw0/tms/pkg/adapters/mcp"
	"github.com/aretw0/tms/pkg/adapters/memory"
	"github.com/aretw0/tms/pkg/adapters/redis"
	"github.com/aretw0/tms/pkg/observability"
	"github.com/aretw0/tms/pkg/ports"
	"github.com/aretw0/tms/pkg/session"
)

// HostOptions configure the HTTP and MCP hosts.
type HostOptions struct {
	Options
	Port      int
	RedisURL  string
	StoreDir  string
	Transport string
}

// host bundles the session manager of a server with what must be closed with it.
type host struct {
	manager *session.Manager
	metrics *observability.Metrics
	logger  *slog.Logger
	close   func() error
}

// newHost picks the snapshot store (Redis, a directory or memory), wires the
// metrics hooks and, with Redis, the distributed lock.
func newHost(opts HostOptions) (*host, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger, closeLog, err := createLogger(opts.Debug, opts.LogFile)
	if err != nil {
		return nil, err
	}
	if !opts.Debug && opts.LogFile == "" {
		// Servers always log their lifecycle on stderr.
		logger = logging.New(level)
	}

	simOpts, err := opts.simulatorOptions(logger)
	if err != nil {
		closeLog()
		return nil, err
	}
	metrics := observability.NewMetrics()
	simOpts = append(simOpts, tms.WithLifecycleHooks(metrics.Hooks()))

	h := &host{metrics: metrics, logger: logger, close: closeLog}
	mgrOpts := []session.Option{
		session.WithLogger(logger),
		session.WithSimulatorOptions(simOpts...),
	}

	var store ports.SnapshotStore
	switch {
	case opts.RedisURL != "":
		rs, err := redis.NewFromURL(opts.RedisURL)
		if err != nil {
			closeLog()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store = rs
		mgrOpts = append(mgrOpts, session.WithLocker(redis.NewLocker(rs.Client(), "tms:")))
		h.close = func() error {
			return errors.Join(rs.Close(), closeLog())
		}
		logger.Info("Using Redis snapshot store", "url", opts.RedisURL)
	case opts.StoreDir != "":
		store = file.NewStore(opts.StoreDir)
		logger.Info("Using file snapshot store", "dir", opts.StoreDir)
	default:
		store = memory.NewStore()
		logger.Info("Using in-memory snapshot store")
	}

	h.manager = session.NewManager(store, mgrOpts...)
	return h, nil
}

// preload creates the session "default" from --conf, when given.
func (h *host) preload(ctx context.Context, opts Options) error {
	if opts.ConfPath == "" {
		return nil
	}
	src := file.NewSource(opts.ConfPath)
	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("error loading %s: %w", opts.ConfPath, err)
	}
	defer rc.Close()

	buf, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", opts.ConfPath, err)
	}
	if _, err := h.manager.Create(ctx, "default", src.Name(), string(buf)); err != nil {
		return fmt.Errorf("error loading %s: %w", opts.ConfPath, err)
	}
	return nil
}

// Serve runs the HTTP host until SIGINT or SIGTERM.
func Serve(opts HostOptions) error {
	h, err := newHost(opts)
	if err != nil {
		return err
	}
	defer h.close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if err := h.preload(sigCtx, opts.Options); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", opts.Port),
		Handler: httpAdapter.NewHandler(h.manager,
			httpAdapter.WithMetrics(h.metrics),
			httpAdapter.WithLogger(h.logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		h.logger.Info("Starting TMS Server", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		h.logger.Info("Start shutdown", "signal", sigCtx.Signal())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			h.logger.Warn("Graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		h.logger.Info("TMS Server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP host on stdio or SSE.
func ServeMCP(opts HostOptions) error {
	h, err := newHost(opts)
	if err != nil {
		return err
	}
	defer h.close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if err := h.preload(sigCtx, opts.Options); err != nil {
		return err
	}

	srv := mcp.NewServer(h.manager, h.logger)
	switch opts.Transport {
	case "stdio", "":
		h.logger.Info("Starting TMS MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		h.logger.Info("Starting TMS MCP Server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(sigCtx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server execution failed: %w", err)
		}
		h.logger.Info("MCP Server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
}
