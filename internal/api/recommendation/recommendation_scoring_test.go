package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

func TestKeywordBonus(t *testing.T) {
	p := DefaultParams()

	t.Run("bonus is capped", func(t *testing.T) {
		bonus, matched := keywordBonus("Yoga and Art Jam", "live music session",
			compileKeywords([]string{"yoga", "art", "music"}), p)
		assert.InDelta(t, 0.4, bonus, 1e-9)
		assert.Equal(t, []string{"yoga", "art", "music"}, matched)
	})

	t.Run("title requires a whole word", func(t *testing.T) {
		bonus, matched := keywordBonus("Smart Phones for Seniors", "", compileKeywords([]string{"art"}), p)
		assert.Zero(t, bonus)
		assert.Empty(t, matched)
	})

	t.Run("description substring", func(t *testing.T) {
		bonus, matched := keywordBonus("Morning Stretch", "gentle qigong and tai chi moves",
			compileKeywords([]string{"Tai Chi"}), p)
		assert.InDelta(t, 0.15, bonus, 1e-9)
		assert.Equal(t, []string{"tai chi"}, matched)
	})
}

func TestPenalties(t *testing.T) {
	assert.Equal(t, 0.0, distancePenalty(0, 50))
	assert.InDelta(t, 0.375, distancePenalty(25, 50), 1e-9)
	assert.Equal(t, 1.0, distancePenalty(50, 50))
	assert.Equal(t, 1.0, distancePenalty(120, 50))

	assert.Equal(t, 0.0, pricePenalty(nil, 50))
	assert.Equal(t, 0.0, pricePenalty(ptr(40.0), 50))
	assert.InDelta(t, 0.5, pricePenalty(ptr(75.0), 50), 1e-9)
	assert.Equal(t, 1.0, pricePenalty(ptr(200.0), 50))
}

func TestScoreCandidates(t *testing.T) {
	p := DefaultParams()

	rec := &types.ActivityRecord{ID: "a", Title: "Watercolour Painting", Description: "", PriceNum: ptr(75.0)}
	cands := []candidate{{record: rec, distance: 25, timeSlotPenalty: 1}}

	mismatched := scoreCandidates(cands, scoringInput{
		interests: []string{"painting"},
		budget:    50,
		maxDistKm: 50,
	}, p)
	require.Zero(t, mismatched)

	c := cands[0]
	// keyword bonus 0.25, square root smoothing -> 0.5
	assert.InDelta(t, 0.5, c.interestScore, 1e-9)
	assert.InDelta(t, 0.5, c.pricePenalty, 1e-9)
	assert.InDelta(t, 0.375, c.distancePenalty, 1e-9)
	assert.InDelta(t, 0.55*0.5-0.15*0.5-0.1*1-0.2*0.375, c.score, 1e-9)
}

func TestScoreCandidates_FreeBonusAndVectors(t *testing.T) {
	p := DefaultParams()

	free := &types.ActivityRecord{ID: "free", Title: "Choir", IsFree: true, ActivityVector: []float32{1, 0}}
	paid := &types.ActivityRecord{ID: "paid", Title: "Choir", PriceNum: ptr(10.0), ActivityVector: []float32{1, 0}}
	short := &types.ActivityRecord{ID: "short", Title: "Choir", ActivityVector: []float32{1}}
	cands := []candidate{{record: free}, {record: paid}, {record: short}}

	mismatched := scoreCandidates(cands, scoringInput{
		userVector: []float32{1, 0},
		budget:     999,
		needFree:   true,
		maxDistKm:  50,
	}, p)

	assert.Equal(t, 1, mismatched)
	assert.InDelta(t, p.Weights.FreeBonus, cands[0].freeBonus, 1e-9)
	assert.Zero(t, cands[1].freeBonus)
	assert.Greater(t, cands[0].score, cands[1].score)
	assert.Zero(t, cands[2].interestScore)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.Weights.Delta = 0.6
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.TopK = 0
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.InterestThreshold = 1.5
	assert.Error(t, p.Validate())
}
