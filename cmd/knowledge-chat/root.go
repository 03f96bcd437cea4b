package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/arturoeanton/knowledge-chat/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

// NewRootCmd builds the knowledge-chat command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge-chat",
		Short: "Grounded question answering over a pgvector knowledge base",
		Long: `knowledge-chat answers questions using only passages stored in a vector
knowledge base. It speaks the OpenAI chat-completions protocol used by voice
platforms as well as a bare {role, content} protocol for simple chat widgets.

Configuration is read from the environment (and an optional .env file).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load if present")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewTestEmbeddingCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func setupLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info", "":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

// loadConfig reads the env file (silently ignoring a missing one) and validates the result.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load(envFile)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
