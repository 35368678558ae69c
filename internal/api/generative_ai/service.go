package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/config"
)

// ErrEmptyResponse is returned when the model answers with no usable content.
var ErrEmptyResponse = errors.New("empty model response")

// modelsAPI is the part of genai.Models the client calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Embedder turns text into a vector without caching.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type GenerateOptions struct {
	SystemInstruction string
	// JSON asks the model for an application/json response.
	JSON        bool
	Temperature *float32
}

var (
	_ TextGenerator = (*AIClient)(nil)
	_ Embedder      = (*AIClient)(nil)
)

// AIClient wraps the Gemini models API with a shared rate limiter and one circuit breaker
// per call kind.
type AIClient struct {
	models         modelsAPI
	model          string
	embeddingModel string
	dimension      int32
	temperature    float32
	limiter        *rate.Limiter
	generate       *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
	embed          *gobreaker.CircuitBreaker[*genai.EmbedContentResponse]
	logger         *slog.Logger
}

// NewAIClient builds a Gemini client. The key comes from llm.apiKey, then
// GOOGLE_GEMINI_API_KEY, then GEMINI_API_KEY.
func NewAIClient(ctx context.Context, cfg config.LLM, logger *slog.Logger) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	apiKey := cfg.APIKey
	for _, env := range []string{"GOOGLE_GEMINI_API_KEY", "GEMINI_API_KEY"} {
		if apiKey != "" {
			break
		}
		apiKey = os.Getenv(env)
	}
	if apiKey == "" {
		err := errors.New("no Gemini API key configured")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return newAIClient(client.Models, cfg, logger), nil
}

func newAIClient(models modelsAPI, cfg config.LLM, logger *slog.Logger) *AIClient {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &AIClient{
		models:         models,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		dimension:      int32(cfg.EmbeddingDimension),
		temperature:    cfg.Temperature,
		limiter:        rate.NewLimiter(limit, burst),
		generate:       gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](breakerSettings("gemini-generate", cfg, logger)),
		embed:          gobreaker.NewCircuitBreaker[*genai.EmbedContentResponse](breakerSettings("gemini-embed", cfg, logger)),
		logger:         logger,
	}
}

func breakerSettings(name string, cfg config.LLM, logger *slog.Logger) gobreaker.Settings {
	maxFailures := cfg.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A caller giving up is not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
}

func (ai *AIClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateText", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", ai.model),
	))
	defer span.End()

	if err := ai.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limiter")
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	temperature := ai.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	}
	if opts.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}
	if opts.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	res, err := ai.generate.Execute(func() (*genai.GenerateContentResponse, error) {
		return ai.models.GenerateContent(ctx, ai.model, genai.Text(prompt), cfg)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("generate content: %w", err)
	}

	var text string
	if res != nil {
		text = strings.TrimSpace(res.Text())
	}
	if text == "" {
		span.SetStatus(codes.Error, "empty response")
		return "", ErrEmptyResponse
	}
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return text, nil
}

func (ai *AIClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "EmbedText", trace.WithAttributes(
		attribute.Int("text.length", len(text)),
		attribute.String("model", ai.embeddingModel),
	))
	defer span.End()

	if err := ai.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limiter")
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	cfg := &genai.EmbedContentConfig{}
	if ai.dimension > 0 {
		cfg.OutputDimensionality = genai.Ptr[int32](ai.dimension)
	}

	res, err := ai.embed.Execute(func() (*genai.EmbedContentResponse, error) {
		return ai.models.EmbedContent(ctx, ai.embeddingModel, genai.Text(text), cfg)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to embed content")
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil || len(res.Embeddings[0].Values) == 0 {
		span.SetStatus(codes.Error, "empty embedding")
		return nil, ErrEmptyResponse
	}

	values := res.Embeddings[0].Values
	span.SetAttributes(attribute.Int("embedding.dimension", len(values)))
	span.SetStatus(codes.Ok, "")
	return values, nil
}
