package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

func scored(id, title string, score, interest float64) candidate {
	return candidate{
		record:        &types.ActivityRecord{ID: id, Title: title},
		score:         score,
		interestScore: interest,
	}
}

func TestNormalizeScores(t *testing.T) {
	t.Run("within unit interval", func(t *testing.T) {
		cands := []candidate{
			scored("a", "A", 0.9, 1), scored("b", "B", -0.3, 1),
			scored("c", "C", 0.1, 1), scored("d", "D", 0.55, 1),
		}
		normalizeScores(cands, 2.0)
		for _, c := range cands {
			assert.GreaterOrEqual(t, c.normalized, 0.0)
			assert.LessOrEqual(t, c.normalized, 1.0)
		}
		assert.Greater(t, cands[0].normalized, 0.5)
		assert.Less(t, cands[1].normalized, 0.5)
	})

	t.Run("zero variance", func(t *testing.T) {
		cands := []candidate{scored("a", "A", 0.4, 1), scored("b", "B", 0.4, 1), scored("c", "C", 0.4, 1)}
		normalizeScores(cands, 2.0)
		for _, c := range cands {
			assert.Equal(t, 0.5, c.normalized)
		}
	})

	t.Run("identical scores with rounding noise", func(t *testing.T) {
		// 0.1 three times sums to 0.30000000000000004, so the mean is off by an ulp.
		cands := []candidate{scored("a", "A", 0.1, 1), scored("b", "B", 0.1, 1), scored("c", "C", 0.1, 1)}
		normalizeScores(cands, 2.0)
		for _, c := range cands {
			assert.Equal(t, 0.5, c.normalized)
		}
	})

	t.Run("small real spread is still normalized", func(t *testing.T) {
		cands := []candidate{scored("a", "A", 0.101, 1), scored("b", "B", 0.1, 1), scored("c", "C", 0.099, 1)}
		normalizeScores(cands, 2.0)
		assert.Greater(t, cands[0].normalized, 0.5)
		assert.InDelta(t, 0.5, cands[1].normalized, 1e-9)
		assert.Less(t, cands[2].normalized, 0.5)
	})

	t.Run("single candidate", func(t *testing.T) {
		cands := []candidate{scored("a", "A", 0.7, 1)}
		normalizeScores(cands, 2.0)
		assert.Equal(t, 0.5, cands[0].normalized)
	})
}

func TestSelectTop(t *testing.T) {
	t.Run("duplicate titles are replaced by backfill", func(t *testing.T) {
		cands := []candidate{
			scored("1", "Yoga", 0.9, 0.9),
			scored("2", "Yoga", 0.8, 0.9),
			scored("3", "Tai Chi", 0.7, 0.9),
			scored("4", "Choir", 0.6, 0.9),
		}
		got := selectTop(cands, 3, 0.6)
		require.Len(t, got, 3)
		assert.Equal(t, "1", got[0].record.ID)
		assert.Equal(t, "3", got[1].record.ID)
		assert.Equal(t, "4", got[2].record.ID)
	})

	t.Run("relevant candidates come first", func(t *testing.T) {
		cands := []candidate{
			scored("x", "X", 0.5, 0.5),
			scored("y", "Y", 0.4, 0.9),
			scored("z", "Z", 0.3, 0.2),
		}
		got := selectTop(cands, 2, 0.6)
		require.Len(t, got, 2)
		assert.Equal(t, "y", got[0].record.ID)
		assert.Equal(t, "x", got[1].record.ID)
	})

	t.Run("duplicate title keeps the higher score across the threshold", func(t *testing.T) {
		cands := []candidate{
			scored("hi", "Same", 0.5, 0.2),
			scored("x", "Other", 0.4, 0.9),
			scored("lo", "Same", 0.3, 0.9),
		}
		got := selectTop(cands, 2, 0.6)
		require.Len(t, got, 2)
		assert.Equal(t, "x", got[0].record.ID)
		assert.Equal(t, "hi", got[1].record.ID)
	})

	t.Run("pool smaller than k", func(t *testing.T) {
		cands := []candidate{scored("a", "Same", 0.5, 0.1), scored("b", "Same", 0.4, 0.1)}
		got := selectTop(cands, 3, 0.6)
		assert.Len(t, got, 1)
	})

	t.Run("no two results share a title", func(t *testing.T) {
		titles := []string{"A", "B", "A", "C", "B", "D", "A", "E"}
		var cands []candidate
		for i, title := range titles {
			cands = append(cands, scored(string(rune('a'+i)), title, 1-float64(i)/10, float64(i%3)/2))
		}
		sortByScore(cands)
		for k := 1; k <= len(titles); k++ {
			seen := map[string]bool{}
			for _, c := range selectTop(cands, k, 0.6) {
				assert.False(t, seen[c.record.Title], "duplicate title %s for k=%d", c.record.Title, k)
				seen[c.record.Title] = true
			}
		}
	})
}

func TestExplain(t *testing.T) {
	p := DefaultParams()

	t.Run("free, close and on time", func(t *testing.T) {
		c := candidate{
			record:        &types.ActivityRecord{IsFree: true},
			interestScore: 0.9,
			matched:       []string{"tai chi"},
			distance:      1,
		}
		got := explain(c, explanationContext{needFree: true, timeProvided: true, geoActive: true}, p)
		assert.Equal(t, "This activity strongly matches your interest in tai chi, "+
			"is free, perfectly fitting your preference for free activities, "+
			"is very close to your location, matches your preferred time slot.", got)
	})

	t.Run("over budget and far", func(t *testing.T) {
		c := candidate{
			record:          &types.ActivityRecord{PriceNum: ptr(60.0)},
			interestScore:   0.5,
			distance:        20,
			timeSlotPenalty: 1,
		}
		got := explain(c, explanationContext{budget: 50, budgetProvided: true, timeProvided: true, geoActive: true}, p)
		assert.Equal(t, "This activity is somewhat related to your interests, "+
			"is slightly above your budget (SGD 60.00), is a bit farther but still accessible.", got)
	})

	t.Run("budget not mentioned without a user budget", func(t *testing.T) {
		c := candidate{record: &types.ActivityRecord{PriceNum: ptr(10.0)}, interestScore: 0.75}
		got := explain(c, explanationContext{budget: 999}, p)
		assert.Equal(t, "This activity matches your interests.", got)
	})
}
