package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

const embedConcurrency = 4

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (types.IntentType, error)
}

var _ Classifier = (*EmbeddingClassifier)(nil)

// EmbeddingClassifier assigns the intent whose example centroid is closest (cosine) to the text.
// Centroids are built on first use; a failed build is retried on the next call.
type EmbeddingClassifier struct {
	embedder Embedder
	examples []Example
	logger   *slog.Logger

	mu        sync.Mutex
	centroids map[types.IntentType][]float64
}

func NewEmbeddingClassifier(embedder Embedder, examples []Example, logger *slog.Logger) *EmbeddingClassifier {
	if len(examples) == 0 {
		examples = DefaultExamples
	}
	return &EmbeddingClassifier{
		embedder: embedder,
		examples: examples,
		logger:   logger,
	}
}

func (c *EmbeddingClassifier) Classify(ctx context.Context, text string) (types.IntentType, error) {
	ctx, span := otel.Tracer("IntentClassifier").Start(ctx, "Classify")
	defer span.End()

	centroids, err := c.ensureCentroids(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "centroids unavailable")
		return "", err
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "embedding failed")
		return "", fmt.Errorf("embed message: %w", err)
	}

	var (
		best      types.IntentType
		bestScore = math.Inf(-1)
	)
	// Iterate in a fixed order so ties resolve deterministically.
	for _, intent := range []types.IntentType{types.IntentRecommendActivity, types.IntentHealthQA, types.IntentChitchat} {
		centroid, ok := centroids[intent]
		if !ok || len(centroid) != len(vec) {
			continue
		}
		if s := cosine(vec, centroid); s > bestScore {
			best, bestScore = intent, s
		}
	}
	if best == "" {
		err := errors.New("no centroid matches the message embedding dimension")
		span.RecordError(err)
		span.SetStatus(codes.Error, "dimension mismatch")
		return "", err
	}

	span.SetAttributes(attribute.String("intent", string(best)), attribute.Float64("similarity", bestScore))
	span.SetStatus(codes.Ok, "")
	return best, nil
}

func (c *EmbeddingClassifier) ensureCentroids(ctx context.Context) (map[types.IntentType][]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.centroids != nil {
		return c.centroids, nil
	}

	vectors := make([][]float32, len(c.examples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, ex := range c.examples {
		g.Go(func() error {
			v, err := c.embedder.Embed(gctx, ex.Text)
			if err != nil {
				return fmt.Errorf("embed example %q: %w", ex.Text, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.WarnContext(ctx, "Failed to build intent centroids", slog.Any("error", err))
		return nil, err
	}

	sums := make(map[types.IntentType][]float64)
	counts := make(map[types.IntentType]int)
	for i, ex := range c.examples {
		v := vectors[i]
		sum, ok := sums[ex.Intent]
		if !ok {
			sum = make([]float64, len(v))
			sums[ex.Intent] = sum
		}
		if len(v) != len(sum) {
			return nil, fmt.Errorf("example %q has dimension %d, expected %d", ex.Text, len(v), len(sum))
		}
		for j, x := range v {
			sum[j] += float64(x)
		}
		counts[ex.Intent]++
	}
	for intent, sum := range sums {
		n := float64(counts[intent])
		for j := range sum {
			sum[j] /= n
		}
	}

	c.centroids = sums
	c.logger.InfoContext(ctx, "Intent centroids built",
		slog.Int("examples", len(c.examples)),
		slog.Any("intents", slices.Sorted(maps.Keys(sums))))
	return c.centroids, nil
}

func cosine(a []float32, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		dot += x * b[i]
		na += x * x
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
