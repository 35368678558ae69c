package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

const qaSystemInstruction = `You are a friendly assistant for senior citizens.
Answer health and wellbeing questions in plain, short sentences.
Use the provided context when it is relevant. If the context does not cover the question,
give general, safe advice and suggest consulting a doctor for anything medical.`

// QueryEmbedder embeds a free-text query.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// QAService answers open-domain questions from the health knowledge base.
type QAService interface {
	Answer(ctx context.Context, query string) (types.QAAnswer, error)
}

var _ QAService = (*RAGService)(nil)

// RAGService retrieves the closest knowledge snippets and lets the model answer with them.
type RAGService struct {
	embedder  QueryEmbedder
	knowledge KnowledgeRepository
	generator TextGenerator
	topK      int
	logger    *slog.Logger
	metrics   *metrics.AppMetrics
}

func NewRAGService(embedder QueryEmbedder, knowledge KnowledgeRepository, generator TextGenerator, topK int, logger *slog.Logger, m *metrics.AppMetrics) *RAGService {
	if topK <= 0 {
		topK = 3
	}
	return &RAGService{
		embedder:  embedder,
		knowledge: knowledge,
		generator: generator,
		topK:      topK,
		logger:    logger,
		metrics:   m,
	}
}

func (s *RAGService) Answer(ctx context.Context, query string) (types.QAAnswer, error) {
	ctx, span := otel.Tracer("RAGService").Start(ctx, "Answer", trace.WithAttributes(
		attribute.Int("query.length", len(query)),
		attribute.Int("top_k", s.topK),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Answer"))

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.fail(ctx, span, "embedding", err)
		return types.QAAnswer{}, fmt.Errorf("embed query: %w", err)
	}

	snippets, err := s.knowledge.FindSimilarSnippets(ctx, vec, s.topK)
	if err != nil {
		s.fail(ctx, span, "knowledge_base", err)
		return types.QAAnswer{}, fmt.Errorf("retrieve snippets: %w", err)
	}

	answer, err := s.generator.GenerateText(ctx, qaPrompt(query, snippets), GenerateOptions{
		SystemInstruction: qaSystemInstruction,
	})
	if err != nil {
		s.fail(ctx, span, "qa", err)
		return types.QAAnswer{}, fmt.Errorf("generate answer: %w", err)
	}

	retrieved := make([]string, 0, len(snippets))
	for _, sn := range snippets {
		retrieved = append(retrieved, fmt.Sprintf("[Score=%.4f] %s", sn.Score, sn.Content))
	}

	l.InfoContext(ctx, "Question answered", slog.Int("retrieved", len(snippets)))
	span.SetAttributes(attribute.Int("retrieved.count", len(snippets)))
	span.SetStatus(codes.Ok, "")
	return types.QAAnswer{Answer: answer, Retrieved: retrieved}, nil
}

func (s *RAGService) fail(ctx context.Context, span trace.Span, component string, err error) {
	s.metrics.UpstreamFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
	s.logger.WarnContext(ctx, "Question answering failed", slog.String("component", component), slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, component+" failed")
}

func qaPrompt(query string, snippets []types.KnowledgeSnippet) string {
	var sb strings.Builder
	if len(snippets) > 0 {
		sb.WriteString("Context:\n")
		for i, sn := range snippets {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.TrimSpace(sn.Content))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(strings.TrimSpace(query))
	sb.WriteString("\nAnswer:")
	return sb.String()
}
