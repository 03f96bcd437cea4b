package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/mcp"
	"github.com/arturoeanton/knowledge-chat/internal/observability"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP server",
		Long: `Run the HTTP server exposing the chat endpoints:

  POST /api/chat/completions  (also /v1/chat/completions and /chat/completions)
  POST /api/chat
  POST /api/add-document
  GET  /api/test-embedding
  GET  /api/health

With MCP_ENABLED=true an MCP server is started on MCP_PORT as well.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("🚀 Starting "+cfg.AppName,
		"port", cfg.Port,
		"vector_backend", cfg.VectorBackend,
		"embed_provider", cfg.EmbedProvider,
		"embed_model", cfg.EmbedModel,
		"completion_model", cfg.CompletionModel,
		"mcp_enabled", cfg.MCPEnabled,
	)

	// ── Tracing ──────────────────────────────────────────────────────────
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:    "knowledge-chat",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.OTelSampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown", "error", err)
		}
	}()

	comps, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	app := newApp(cfg, comps)

	// ── MCP Server (separate port) ───────────────────────────────────────
	var mcpServer *mcp.Server
	if cfg.MCPEnabled {
		mcpServer = mcp.NewServer(comps.chat, comps.docs, cfg.AppName, version, cfg.MCPPort)
		go func() {
			if err := mcpServer.Start(); err != nil {
				slog.Error("MCP server failed", "error", err)
			}
		}()
	}

	// ── Start ────────────────────────────────────────────────────────────
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("🌐 Fiber listening", "port", cfg.Port)
		serveErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if mcpServer != nil {
		if err := mcpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("MCP shutdown", "error", err)
		}
	}
	return app.ShutdownWithContext(shutdownCtx)
}
