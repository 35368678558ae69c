package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-elderly-activity-suggestions/app/db"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/config"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/activity"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/dialogue"
	generativeAI "github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/generative_ai"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/intent"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/recommendation"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/session"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/vitals"
)

// Container holds all application dependencies
type Container struct {
	Config                *config.Config
	Logger                *slog.Logger
	Pool                  *pgxpool.Pool
	Catalog               *activity.Catalog
	RecommendationHandler *recommendation.HandlerImpl
	DialogueHandler       *dialogue.HandlerImpl
	VitalsHandler         *vitals.HandlerImpl

	closers []func() error
}

// NewContainer connects to Postgres (running migrations first), loads the activity
// catalog snapshot and wires every service and handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to generate database config: %w", err)
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, err
	}
	c.Pool = pool
	if !database.WaitForDB(ctx, pool, logger) {
		c.Close()
		return nil, errors.New("database not ready")
	}

	m := metrics.Get()

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.LLM, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	embeddings := generativeAI.NewEmbeddingService(aiClient, cfg.LLM.EmbeddingCacheTTL, logger)

	c.Catalog = activity.NewCatalog(activity.NewRepositoryImpl(pool, logger), logger, m)
	if err := c.Catalog.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load activity catalog: %w", err)
	}

	recommendationService, err := recommendation.NewServiceImpl(
		c.Catalog, embeddings, recommendation.ParamsFromConfig(cfg.Recommendation), logger, m)
	if err != nil {
		c.Close()
		return nil, err
	}

	sessionRepo, err := c.newSessionRepository(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	sessions := session.NewServiceImpl(sessionRepo, cfg.Session.MaxMessages, logger)

	extractor := generativeAI.NewProfileExtractorImpl(aiClient, cfg.Dialogue.HistoryLimit, logger, m)
	classifier := intent.NewEmbeddingClassifier(embeddings, nil, logger)
	knowledge := generativeAI.NewKnowledgeRepositoryImpl(pool, logger)
	qa := generativeAI.NewRAGService(embeddings, knowledge, aiClient, cfg.QA.TopK, logger, m)

	dialogueService := dialogue.NewServiceImpl(
		sessions, recommendationService, extractor, classifier, qa,
		dialogue.ParamsFromConfig(cfg.Dialogue), logger, m)

	c.RecommendationHandler = recommendation.NewHandlerImpl(recommendationService, logger)
	c.DialogueHandler = dialogue.NewHandlerImpl(dialogueService, logger)
	c.VitalsHandler = vitals.NewHandlerImpl(vitals.NewServiceImpl(sessions, logger), logger)
	return c, nil
}

func (c *Container) newSessionRepository(ctx context.Context) (session.Repository, error) {
	switch store := c.Config.Session.Store; store {
	case "", "memory":
		c.Logger.InfoContext(ctx, "Using in-memory session store")
		return session.NewMemoryRepository(), nil
	case "redis":
		redisCfg := c.Config.Repositories.Redis
		repo, err := session.NewRedisRepository(ctx, redisCfg.Addr, redisCfg.Password, redisCfg.DB, c.Config.Session.TTL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, repo.Close)
		c.Logger.InfoContext(ctx, "Using redis session store", slog.String("addr", redisCfg.Addr))
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", store)
	}
}

// StartBackground runs the periodic catalog refresh until ctx is cancelled.
func (c *Container) StartBackground(ctx context.Context) {
	if interval := c.Config.Catalog.RefreshInterval; interval > 0 {
		go c.Catalog.RunRefresher(ctx, interval)
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			c.Logger.Warn("Error releasing resource", slog.Any("error", err))
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
