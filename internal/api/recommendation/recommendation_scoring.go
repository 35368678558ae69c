package recommendation

import (
	"math"
	"regexp"
	"strings"
)

type scoringInput struct {
	userVector []float32
	interests  []string
	budget     float64
	needFree   bool
	maxDistKm  float64
}

// scoreCandidates fills the score components of every candidate in place and returns the
// number of records whose vector could not be compared with the user vector.
func scoreCandidates(cands []candidate, in scoringInput, p Params) int {
	keywords := compileKeywords(in.interests)
	mismatched := 0
	for i := range cands {
		c := &cands[i]
		rec := c.record

		sim := 0.0
		if len(in.userVector) > 0 {
			if len(rec.ActivityVector) != len(in.userVector) {
				mismatched++
			} else {
				sim = cosineSimilarity(in.userVector, rec.ActivityVector)
			}
		}
		bonus, matched := keywordBonus(rec.Title, rec.Description, keywords, p)
		interest := clip(sim+bonus, 0, 1)
		if p.SqrtSmoothing {
			interest = math.Sqrt(interest)
		}

		c.interestScore = interest
		c.matched = matched
		c.distancePenalty = distancePenalty(c.distance, in.maxDistKm)
		c.pricePenalty = pricePenalty(rec.PriceNum, in.budget)
		if in.needFree && rec.IsFree {
			c.freeBonus = p.Weights.FreeBonus
		}

		w := p.Weights
		c.score = w.Alpha*c.interestScore -
			w.Beta*c.pricePenalty -
			w.Gamma*c.timeSlotPenalty -
			w.Delta*c.distancePenalty +
			c.freeBonus
	}
	return mismatched
}

type keyword struct {
	text      string
	wholeWord *regexp.Regexp
}

func compileKeywords(interests []string) []keyword {
	out := make([]keyword, 0, len(interests))
	for _, in := range interests {
		kw := strings.ToLower(strings.TrimSpace(in))
		if kw == "" {
			continue
		}
		out = append(out, keyword{
			text:      kw,
			wholeWord: regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
		})
	}
	return out
}

// keywordBonus rewards whole-word title hits over description substrings, capped in total.
func keywordBonus(title, description string, keywords []keyword, p Params) (float64, []string) {
	title = strings.ToLower(title)
	description = strings.ToLower(description)

	var bonus float64
	var matched []string
	for _, kw := range keywords {
		switch {
		case kw.wholeWord.MatchString(title):
			bonus += p.TitleKeywordBonus
			matched = append(matched, kw.text)
		case strings.Contains(description, kw.text):
			bonus += p.DescriptionKeywordBonus
			matched = append(matched, kw.text)
		}
	}
	return math.Min(bonus, p.KeywordBonusCap), matched
}

// distancePenalty blends linear and quadratic normalised distance.
func distancePenalty(distance, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return 0
	}
	d := math.Min(distance/maxDistance, 1)
	return 0.5*d + 0.5*d*d
}

// pricePenalty expects a positive budget; an unknown price is not penalised.
func pricePenalty(price *float64, budget float64) float64 {
	if price == nil || budget <= 0 {
		return 0
	}
	return clip((*price-budget)/budget, 0, 1)
}
