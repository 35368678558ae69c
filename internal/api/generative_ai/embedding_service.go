package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// EmbeddingService caches embeddings by normalised text so that repeated interests and
// intent examples are embedded once.
type EmbeddingService struct {
	embedder Embedder
	cache    *cache.Cache
	logger   *slog.Logger
}

func NewEmbeddingService(embedder Embedder, ttl time.Duration, logger *slog.Logger) *EmbeddingService {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &EmbeddingService{
		embedder: embedder,
		cache:    cache.New(ttl, time.Hour),
		logger:   logger,
	}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := normalizeText(text)
	if key == "" {
		return nil, fmt.Errorf("embed empty text: %w", types.ErrInvalidInput)
	}
	if v, ok := s.cache.Get(key); ok {
		return slices.Clone(v.([]float32)), nil
	}

	vec, err := s.embedder.EmbedText(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, slices.Clone(vec), cache.DefaultExpiration)
	s.logger.DebugContext(ctx, "Embedding cached", slog.Int("dimension", len(vec)), slog.Int("cached", s.cache.ItemCount()))
	return vec, nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
