package intent

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// keywordEmbedder maps text onto three axes: activity, health and small talk.
type keywordEmbedder struct {
	calls atomic.Int64
	fail  atomic.Bool
}

var (
	activityStems = []string{"recommend", "suggest", "activit", "workout", "something to do"}
	healthStems   = []string{"blood", "diabetes", "heart", "diet", "health", "food", "hypertension", "cholesterol", "oxygen"}
	smallTalk     = []string{"hello", "hi", "joke", "thank", "goodbye", "nice", "name", "later", "who", "you"}
)

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	if e.fail.Load() {
		return nil, errors.New("embedding backend down")
	}
	text = strings.ToLower(text)
	v := []float32{0.05, 0.05, 0.05}
	for _, s := range activityStems {
		if strings.Contains(text, s) {
			v[0]++
		}
	}
	for _, s := range healthStems {
		if strings.Contains(text, s) {
			v[1]++
		}
	}
	for _, w := range strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == '\'' || r == '?' }) {
		if slices.Contains(smallTalk, w) {
			v[2]++
		}
	}
	return v, nil
}

func TestEmbeddingClassifier_Classify(t *testing.T) {
	embedder := &keywordEmbedder{}
	c := NewEmbeddingClassifier(embedder, nil, slog.Default())

	tests := []struct {
		text string
		want types.IntentType
	}{
		{"please suggest a workout", types.IntentRecommendActivity},
		{"I have high blood pressure, what should I eat", types.IntentHealthQA},
		{"hello there", types.IntentChitchat},
		{"thank you so much", types.IntentChitchat},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, int64(len(DefaultExamples)+len(tests)), embedder.calls.Load(), "centroids are built once")
}

func TestEmbeddingClassifier_RetriesCentroidBuild(t *testing.T) {
	embedder := &keywordEmbedder{}
	embedder.fail.Store(true)
	c := NewEmbeddingClassifier(embedder, nil, slog.Default())

	_, err := c.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.Nil(t, c.centroids)

	embedder.fail.Store(false)
	got, err := c.Classify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, types.IntentChitchat, got)
}

func TestEmbeddingClassifier_CustomExamples(t *testing.T) {
	c := NewEmbeddingClassifier(&keywordEmbedder{}, []Example{
		{"hello", types.IntentChitchat},
		{"diabetes", types.IntentHealthQA},
	}, slog.Default())

	got, err := c.Classify(context.Background(), "suggest an activity")
	require.NoError(t, err)
	assert.NotEqual(t, types.IntentRecommendActivity, got, "intents without examples are never predicted")
}
