package generativeAI

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/config"
)

type fakeModels struct {
	generateCalls int
	embedCalls    int
	lastGenConfig *genai.GenerateContentConfig
	lastEmbConfig *genai.EmbedContentConfig

	text   string
	vector []float32
	err    error
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.generateCalls++
	f.lastGenConfig = cfg
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func (f *fakeModels) EmbedContent(_ context.Context, _ string, _ []*genai.Content, cfg *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.embedCalls++
	f.lastEmbConfig = cfg
	if f.err != nil {
		return nil, f.err
	}
	if f.vector == nil {
		return &genai.EmbedContentResponse{}, nil
	}
	return &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: f.vector}},
	}, nil
}

func testLLMConfig() config.LLM {
	cfg := config.LLM{
		Model:              "gemini-2.0-flash",
		EmbeddingModel:     "text-embedding-004",
		EmbeddingDimension: 3,
		Temperature:        0.2,
	}
	cfg.Breaker.MaxFailures = 2
	return cfg
}

func TestAIClient_GenerateText(t *testing.T) {
	t.Run("json request", func(t *testing.T) {
		models := &fakeModels{text: "  {\"interests\": []}  "}
		client := newAIClient(models, testLLMConfig(), slog.Default())

		got, err := client.GenerateText(context.Background(), "prompt", GenerateOptions{
			JSON:              true,
			SystemInstruction: "be brief",
		})

		require.NoError(t, err)
		assert.Equal(t, `{"interests": []}`, got)
		require.NotNil(t, models.lastGenConfig)
		assert.Equal(t, "application/json", models.lastGenConfig.ResponseMIMEType)
		assert.Equal(t, float32(0.2), *models.lastGenConfig.Temperature)
		assert.NotNil(t, models.lastGenConfig.SystemInstruction)
	})

	t.Run("empty answer", func(t *testing.T) {
		client := newAIClient(&fakeModels{text: "   "}, testLLMConfig(), slog.Default())
		_, err := client.GenerateText(context.Background(), "prompt", GenerateOptions{})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("breaker opens after consecutive failures", func(t *testing.T) {
		models := &fakeModels{err: errors.New("503")}
		client := newAIClient(models, testLLMConfig(), slog.Default())

		for range 2 {
			_, err := client.GenerateText(context.Background(), "p", GenerateOptions{})
			require.Error(t, err)
		}
		_, err := client.GenerateText(context.Background(), "p", GenerateOptions{})
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
		assert.Equal(t, 2, models.generateCalls)
	})

	t.Run("cancelled caller does not trip the breaker", func(t *testing.T) {
		models := &fakeModels{err: context.Canceled}
		client := newAIClient(models, testLLMConfig(), slog.Default())

		for range 3 {
			_, err := client.GenerateText(context.Background(), "p", GenerateOptions{})
			assert.ErrorIs(t, err, context.Canceled)
		}
		assert.Equal(t, 3, models.generateCalls)
	})
}

func TestAIClient_EmbedText(t *testing.T) {
	t.Run("dimension is requested", func(t *testing.T) {
		models := &fakeModels{vector: []float32{0.1, 0.2, 0.3}}
		client := newAIClient(models, testLLMConfig(), slog.Default())

		v, err := client.EmbedText(context.Background(), "tai chi")

		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, v)
		require.NotNil(t, models.lastEmbConfig.OutputDimensionality)
		assert.Equal(t, int32(3), *models.lastEmbConfig.OutputDimensionality)
	})

	t.Run("no embeddings", func(t *testing.T) {
		client := newAIClient(&fakeModels{}, testLLMConfig(), slog.Default())
		_, err := client.EmbedText(context.Background(), "tai chi")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("generation and embedding breakers are independent", func(t *testing.T) {
		models := &fakeModels{err: errors.New("quota")}
		client := newAIClient(models, testLLMConfig(), slog.Default())
		for range 3 {
			_, _ = client.EmbedText(context.Background(), "x")
		}
		assert.Equal(t, 2, models.embedCalls)

		models.err = nil
		models.text = "ok"
		got, err := client.GenerateText(context.Background(), "p", GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	})
}

func TestNewAIClient_MissingKey(t *testing.T) {
	t.Setenv("GOOGLE_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewAIClient(context.Background(), config.LLM{}, slog.Default())
	assert.Error(t, err)
}
