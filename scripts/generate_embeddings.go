package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/go-elderly-activity-suggestions/app/db"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/config"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/activity"
	generativeAI "github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/generative_ai"
)

var (
	target      = flag.String("target", "all", "what to embed: activities, knowledge or all")
	batchSize   = flag.Int("batch", 50, "rows fetched per batch")
	concurrency = flag.Int("concurrency", 4, "parallel embedding requests")
)

// pending is one row that still needs a vector.
type pending struct {
	id   string
	text string
}

type batchSource struct {
	name   string
	next   func(ctx context.Context, limit int) ([]pending, error)
	update func(ctx context.Context, id string, vector []float32) error
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		log.Fatalf("Failed to generate database config: %v", err)
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	if !database.WaitForDB(ctx, pool, logger) {
		log.Fatal("Database not ready")
	}

	client, err := generativeAI.NewAIClient(ctx, cfg.LLM, logger)
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}

	activities := activity.NewRepositoryImpl(pool, logger)
	knowledge := generativeAI.NewKnowledgeRepositoryImpl(pool, logger)

	sources := map[string]batchSource{
		"activities": {
			name: "activities",
			next: func(ctx context.Context, limit int) ([]pending, error) {
				recs, err := activities.ListActivitiesWithoutEmbeddings(ctx, limit)
				if err != nil {
					return nil, err
				}
				out := make([]pending, 0, len(recs))
				for _, r := range recs {
					out = append(out, pending{id: r.ID, text: activity.EmbeddingText(r)})
				}
				return out, nil
			},
			update: activities.UpdateActivityEmbedding,
		},
		"knowledge": {
			name: "knowledge",
			next: func(ctx context.Context, limit int) ([]pending, error) {
				snippets, err := knowledge.ListSnippetsWithoutEmbeddings(ctx, limit)
				if err != nil {
					return nil, err
				}
				out := make([]pending, 0, len(snippets))
				for _, s := range snippets {
					out = append(out, pending{id: s.ID, text: s.Content})
				}
				return out, nil
			},
			update: knowledge.UpdateSnippetEmbedding,
		},
	}

	var selected []batchSource
	switch *target {
	case "all":
		selected = []batchSource{sources["activities"], sources["knowledge"]}
	case "activities", "knowledge":
		selected = []batchSource{sources[*target]}
	default:
		log.Fatalf("Unknown target %q", *target)
	}

	for _, src := range selected {
		n, err := fill(ctx, src, client, logger)
		if err != nil {
			logger.Error("Embedding generation failed", slog.String("target", src.name), slog.Int("updated", n), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Embedding generation finished", slog.String("target", src.name), slog.Int("updated", n))
	}
}

// fill embeds batches until no row is missing a vector. A batch in which every row
// fails stops the run so a persistent upstream error cannot loop forever.
func fill(ctx context.Context, src batchSource, embedder generativeAI.Embedder, logger *slog.Logger) (int, error) {
	total := 0
	for {
		rows, err := src.next(ctx, *batchSize)
		if err != nil {
			return total, fmt.Errorf("list %s without embeddings: %w", src.name, err)
		}
		if len(rows) == 0 {
			return total, nil
		}

		var updated atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(*concurrency)
		for _, row := range rows {
			g.Go(func() error {
				vec, err := embedder.EmbedText(gctx, row.text)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					logger.Warn("Failed to embed row", slog.String("target", src.name), slog.String("id", row.id), slog.Any("error", err))
					return nil
				}
				if err := src.update(gctx, row.id, vec); err != nil {
					return fmt.Errorf("store vector for %s: %w", row.id, err)
				}
				updated.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return total + int(updated.Load()), err
		}

		done := int(updated.Load())
		total += done
		logger.Info("Batch embedded", slog.String("target", src.name), slog.Int("batch", len(rows)), slog.Int("updated", done))
		if done == 0 {
			return total, fmt.Errorf("no %s row in the last batch could be embedded", src.name)
		}
	}
}
