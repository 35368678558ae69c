package recommendation

import (
	"fmt"
	"strings"
)

const randomExplanation = "This is a randomly selected activity for you to explore."

type explanationContext struct {
	needFree       bool
	budget         float64
	budgetProvided bool
	timeProvided   bool
	geoActive      bool
}

func explain(c candidate, ec explanationContext, p Params) string {
	reasons := []string{interestReason(c, p)}

	rec := c.record
	switch {
	case rec.IsFree && ec.needFree:
		reasons = append(reasons, "is free, perfectly fitting your preference for free activities")
	case rec.IsFree:
		reasons = append(reasons, "is free to join")
	case ec.budgetProvided && rec.PriceNum != nil:
		if *rec.PriceNum <= ec.budget {
			reasons = append(reasons, fmt.Sprintf("is within your budget (%s %.2f)", p.Currency, *rec.PriceNum))
		} else {
			reasons = append(reasons, fmt.Sprintf("is slightly above your budget (%s %.2f)", p.Currency, *rec.PriceNum))
		}
	}

	if ec.geoActive {
		switch {
		case c.distance <= p.VeryCloseKm:
			reasons = append(reasons, "is very close to your location")
		case c.distance <= p.NearKm:
			reasons = append(reasons, "is reasonably near you")
		default:
			reasons = append(reasons, "is a bit farther but still accessible")
		}
	}

	if ec.timeProvided && c.timeSlotPenalty == 0 {
		reasons = append(reasons, "matches your preferred time slot")
	}

	return "This activity " + strings.Join(reasons, ", ") + "."
}

func interestReason(c candidate, p Params) string {
	named := strings.Join(c.matched, ", ")
	switch {
	case c.interestScore >= p.StrongMatchTier:
		if named != "" {
			return "strongly matches your interest in " + named
		}
		return "is highly relevant to your interests"
	case c.interestScore >= p.MatchTier:
		if named != "" {
			return "matches your interest in " + named
		}
		return "matches your interests"
	default:
		if named != "" {
			return "is somewhat related to your interest in " + named
		}
		return "is somewhat related to your interests"
	}
}
