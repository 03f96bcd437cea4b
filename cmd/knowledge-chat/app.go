package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/adapter/ai"
	"github.com/arturoeanton/knowledge-chat/internal/adapter/store"
	"github.com/arturoeanton/knowledge-chat/internal/handler"
	"github.com/arturoeanton/knowledge-chat/internal/middleware"
	"github.com/arturoeanton/knowledge-chat/internal/port"
	"github.com/arturoeanton/knowledge-chat/internal/service"
	"github.com/arturoeanton/knowledge-chat/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	_ "github.com/lib/pq"
)

// ingestTimeout bounds one embed + insert when adding a document.
const ingestTimeout = 30 * time.Second

// components is everything the commands need, built once from the config.
type components struct {
	pg      *store.PostgresStore // nil on the supabase backend
	backend port.VectorBackend
	chat    *service.ChatService
	docs    *service.DocumentService
}

func (c *components) Close() {
	if c.pg != nil {
		if err := c.pg.Close(); err != nil {
			slog.Warn("closing database", "error", err)
		}
	}
}

// buildComponents connects the vector backend and the providers.
func buildComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	comps := &components{}

	// ── Vector backend ───────────────────────────────────────────────────
	switch cfg.VectorBackend {
	case config.BackendSupabase:
		comps.backend = store.NewSupabaseStore(store.SupabaseConfig{
			URL:            cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseServiceRoleKey,
			Timeout:        2 * cfg.RetrieveTimeout,
		})
		if cfg.DBMigrate {
			slog.Warn("DB_MIGRATE ignored on the supabase backend; create the schema from the dashboard")
		}
	default:
		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		comps.pg = pg
		if cfg.DBMigrate {
			if err := pg.Migrate(ctx, cfg.EmbeddingDimension); err != nil {
				pg.Close()
				return nil, err
			}
			slog.Info("database schema ready", "dimension", cfg.EmbeddingDimension)
		}
		comps.backend = store.NewVectorStore(pg, cfg.EmbeddingDimension)
	}

	// ── Providers ────────────────────────────────────────────────────────
	embedder := newEmbedder(cfg)
	completer := ai.NewOpenAICompleter(ai.OpenAIConfig{
		APIKey:  cfg.CompletionAPIKey,
		BaseURL: cfg.CompletionBaseURL,
		Model:   cfg.CompletionModel,
		Timeout: 2 * cfg.CompleteTimeout,
	})

	// ── Services ─────────────────────────────────────────────────────────
	comps.chat = service.NewChatService(embedder, comps.backend, completer, service.ChatOptions{
		MatchThreshold:  cfg.MatchThreshold,
		MatchCount:      cfg.MatchCount,
		EmbedTimeout:    cfg.EmbedTimeout,
		RetrieveTimeout: cfg.RetrieveTimeout,
		CompleteTimeout: cfg.CompleteTimeout,
	})
	comps.docs = service.NewDocumentService(embedder, comps.backend, ingestTimeout)

	return comps, nil
}

func newEmbedder(cfg *config.Config) port.Embedder {
	if cfg.EmbedProvider == config.EmbedProviderOllama {
		return ai.NewOllamaEmbedder(ai.OllamaEndpointConfig{
			BaseURL:   cfg.OllamaEmbedURL,
			Model:     cfg.EmbedModel,
			Token:     cfg.OllamaEmbedToken,
			Dimension: cfg.EmbeddingDimension,
			Timeout:   2 * cfg.EmbedTimeout,
		})
	}
	return ai.NewHuggingFaceEmbedder(ai.HuggingFaceConfig{
		BaseURL:   cfg.HFBaseURL,
		Model:     cfg.EmbedModel,
		Token:     cfg.HFToken,
		Dimension: cfg.EmbeddingDimension,
		Timeout:   2 * cfg.EmbedTimeout,
	})
}

// newApp builds the Fiber app with every HTTP route mounted.
func newApp(cfg *config.Config, comps *components) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	if cfg.AuditEnabled && comps.pg != nil {
		app.Use(middleware.AuditMiddleware(comps.pg))
		handler.NewAuditHandler(comps.pg).Register(app)
	}

	var db handler.HealthChecker
	if comps.pg != nil {
		db = comps.pg
	}
	handler.RegisterHealth(app, cfg.AppName, version, db)
	handler.NewChatHandler(comps.chat).Register(app)
	handler.NewDocumentHandler(comps.docs).Register(app)

	return app
}
