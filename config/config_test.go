package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 30, cfg.Server.ChatRequestsPerMin)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 50, cfg.Session.MaxMessages)
	assert.Equal(t, 3, cfg.Recommendation.TopK)
	assert.InDelta(t, 0.6, cfg.Recommendation.InterestThreshold, 1e-9)
	assert.InDelta(t, 0.55, cfg.Recommendation.Weights.Alpha, 1e-9)
	assert.Equal(t, 5, cfg.Dialogue.HistoryLimit)
	assert.InDelta(t, 0.5, cfg.Dialogue.CheaperFactor, 1e-9)
	assert.Contains(t, cfg.Dialogue.RefinementKeywords, "cheap")
	assert.Contains(t, cfg.Dialogue.GuardKeywords, "something to do")
	assert.Equal(t, 768, cfg.LLM.EmbeddingDimension)
	assert.Equal(t, 3, cfg.QA.TopK)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("REPOSITORIES_POSTGRES_PASSWORD", "from-env")
	t.Setenv("SESSION_STORE", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Repositories.Postgres.Password)
	assert.Equal(t, "redis", cfg.Session.Store)
}
