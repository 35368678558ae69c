package recommendation

import (
	"cmp"
	"math"
	"slices"
)

func sortByScore(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.record.ID, b.record.ID)
	})
}

// normalizeScores sets a population-relative confidence on every candidate:
// sigmoid((s - mean) / (sampleStd * temperature)). Degenerate populations get 0.5.
func normalizeScores(cands []candidate, temperature float64) {
	n := len(cands)
	if n < 2 || flatScores(cands) {
		for i := range cands {
			cands[i].normalized = 0.5
		}
		return
	}

	var sum float64
	for _, c := range cands {
		sum += c.score
	}
	mean := sum / float64(n)

	var sq float64
	for _, c := range cands {
		sq += (c.score - mean) * (c.score - mean)
	}
	std := math.Sqrt(sq / float64(n-1))

	for i := range cands {
		if std == 0 || math.IsNaN(std) {
			cands[i].normalized = 0.5
			continue
		}
		cands[i].normalized = sigmoid((cands[i].score - mean) / (std * temperature))
	}
}

// flatScores reports whether all scores are equal up to rounding. The mean of equal
// values can drift by an ulp, which would otherwise leave a tiny nonzero deviation.
func flatScores(cands []candidate) bool {
	lo, hi := cands[0].score, cands[0].score
	for _, c := range cands[1:] {
		lo = min(lo, c.score)
		hi = max(hi, c.score)
	}
	return hi-lo <= scoreTolerance*max(1, math.Abs(hi), math.Abs(lo))
}

const scoreTolerance = 1e-12

// selectTop expects cands sorted by score. Duplicate titles keep their best scoring
// entry, then candidates whose interest score reaches the threshold come first and
// the rest backfill up to k.
func selectTop(cands []candidate, k int, threshold float64) []candidate {
	if k <= 0 || len(cands) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(cands))
	var relevant, rest []candidate
	for _, c := range cands {
		if _, dup := seen[c.record.Title]; dup {
			continue
		}
		seen[c.record.Title] = struct{}{}
		if c.interestScore >= threshold {
			relevant = append(relevant, c)
		} else {
			rest = append(rest, c)
		}
	}

	out := append(relevant, rest...)
	if len(out) > k {
		out = out[:k]
	}
	return out
}
