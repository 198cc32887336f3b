// Package app provides application initialization and dependency wiring.
//
// Setup builds every component in dependency order: tracing, the model
// runtime, the knowledge index, and the chat pipeline. The knowledge
// base is loaded before Setup returns; a service that cannot answer from
// company knowledge must not start.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/movnaglobal/chat-service/db"
	"github.com/movnaglobal/chat-service/internal/chat"
	"github.com/movnaglobal/chat-service/internal/config"
	"github.com/movnaglobal/chat-service/internal/knowledge"
	"github.com/movnaglobal/chat-service/internal/log"
	"github.com/movnaglobal/chat-service/internal/observability"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit *genkit.Genkit
	Index  knowledge.Index
	Chat   *chat.Service
	DBPool *pgxpool.Pool

	otelShutdown func(context.Context) error
}

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close to release resources.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(ctx); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	if err := config.RequireAPIKey(); err != nil {
		return nil, err
	}

	// Tracing first so Genkit initialization is already instrumented.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, observability.Config{
			Endpoint:    cfg.OTLPEndpoint,
			Environment: cfg.Environment,
			ServiceName: "movna-chat",
		})
		if err != nil {
			return nil, fmt.Errorf("setting up tracing: %w", err)
		}
		a.otelShutdown = shutdown
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}

	index, err := provideIndex(ctx, a, knowledge.NewGenkitEmbedder(embedder))
	if err != nil {
		return nil, err
	}
	a.Index = index

	if err := loadKnowledge(ctx, cfg, index, logger); err != nil {
		return nil, err
	}

	completer := chat.NewGenkitCompleter(g, "googleai/"+cfg.ModelName, cfg.Temperature, cfg.MaxTokens)

	svc, err := chat.New(chat.Config{
		Index:     index,
		Completer: completer,
		Logger:    logger,
		Retrieval: knowledge.FilterConfig{
			TopK:            cfg.Retrieval.TopK,
			MinScore:        cfg.Retrieval.MinScore,
			MaxAnswerLength: cfg.Retrieval.MaxAnswerLength,
		},
		ValidationEnabled: cfg.Validation.Enabled,
		MaxReplyLength:    cfg.Validation.MaxReplyLength,
		StrictScript:      cfg.Validation.StrictScript,
		MaxHistoryTurns:   cfg.History.MaxTurns,
		RateLimiter:       rate.NewLimiter(rate.Limit(cfg.CompletionRPS), cfg.CompletionBurst),
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat service: %w", err)
	}
	a.Chat = svc

	return a, nil
}

// provideIndex builds the configured knowledge index backend. The postgres
// backend migrates its schema before first use.
func provideIndex(ctx context.Context, a *App, embedder knowledge.Embedder) (knowledge.Index, error) {
	cfg := a.Config
	overfetch := cfg.Retrieval.Overfetch

	switch cfg.KnowledgeBackend {
	case config.BackendMemory:
		return knowledge.NewMemoryIndex(embedder, overfetch), nil

	case config.BackendPostgres:
		connURL := cfg.PostgresURL()
		if err := db.Migrate(connURL); err != nil {
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		pool, err := pgxpool.New(ctx, connURL)
		if err != nil {
			return nil, fmt.Errorf("creating database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		a.DBPool = pool
		return knowledge.NewPostgresIndex(pool, embedder, overfetch), nil

	default:
		return nil, fmt.Errorf("unknown knowledge backend %q", cfg.KnowledgeBackend)
	}
}

// loadKnowledge reads and indexes the knowledge file. Failures abort
// startup: serving without the knowledge base would silently answer every
// question from the bare model.
func loadKnowledge(ctx context.Context, cfg *config.Config, index knowledge.Index, logger log.Logger) error {
	records, err := knowledge.LoadFile(cfg.KnowledgePath)
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}
	if err := index.Load(ctx, records); err != nil {
		return fmt.Errorf("indexing knowledge base: %w", err)
	}
	logger.Info("knowledge base loaded",
		"path", cfg.KnowledgePath,
		"backend", cfg.KnowledgeBackend,
		"records", len(records),
	)
	return nil
}

// Close gracefully shuts down all resources.
func (a *App) Close(ctx context.Context) error {
	slog.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			return fmt.Errorf("shutting down tracing: %w", err)
		}
	}
	return nil
}
