// Package mcp provides an MCP (Model Context Protocol) server exposing the
// saccade encoder, decoder and evaluation as tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/saccadegen/internal/config"
	"github.com/nvandessel/saccadegen/internal/logging"
	"github.com/nvandessel/saccadegen/internal/ratelimit"
	"github.com/nvandessel/saccadegen/internal/store"
)

// Server wraps the MCP SDK server and provides saccade-specific functionality.
type Server struct {
	server       *sdk.Server
	store        store.RunStore
	root         string
	settings     *config.SaccadeConfig
	logger       *slog.Logger
	events       *logging.EventLogger
	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "saccade")
	Version string // Server version
	Root    string // Project root directory

	// Settings is the loaded configuration. Nil uses config.Default().
	Settings *config.SaccadeConfig

	// Logger receives operational logs. Nil discards them.
	Logger *slog.Logger
}

// NewServer creates a new MCP server with saccade tools.
func NewServer(cfg *Config) (*Server, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	runStore, err := store.NewRunStore(settings.Store.Kind, cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to create run store: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	stateDir := store.LocalSaccadePath(cfg.Root)
	s := &Server{
		server:       mcpServer,
		store:        runStore,
		root:         cfg.Root,
		settings:     settings,
		logger:       logger,
		events:       logging.NewEventLogger(stateDir, settings.Logging.Level),
		toolLimiters: ratelimit.NewToolLimiters(nil),
		auditLogger:  NewAuditLogger(stateDir),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		select {
		case <-sigChan:
			s.logger.Info("shutting down on signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	s.events.Close()
	if err := s.auditLogger.Close(); err != nil {
		s.logger.Warn("failed to close audit log", "error", err)
	}
	return s.store.Close()
}
