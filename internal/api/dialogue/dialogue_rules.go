package dialogue

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// ResultsMarker opens every reply that lists recommendations. A follow-up is
// treated as a refinement only when the previous assistant turn carries it or
// reported that nothing matched.
const ResultsMarker = "Here are some activities you might enjoy"

const (
	ruleRecommendKeyword = "recommend_keyword"
	ruleRefinement       = "refinement"
	ruleClassifier       = "classifier"
	ruleOpenQA           = "open_qa"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// turn is the state one message is routed with. Rules may record what they
// learned while matching so the handler does not repeat the work.
type turn struct {
	sess    *types.SessionContext
	message string
	lower   string
	words   []string
	history []types.ConversationMessage

	refinement refinement
	intent     types.IntentType
}

func newTurn(sess *types.SessionContext, message string, historyLimit int) *turn {
	lower := strings.ToLower(message)
	return &turn{
		sess:    sess,
		message: message,
		lower:   lower,
		words:   wordPattern.FindAllString(lower, -1),
		history: sess.Recent(historyLimit),
	}
}

// rule is one predicate/handler pair. Rules are evaluated in order and the first match handles the turn.
type rule struct {
	name   string
	match  func(ctx context.Context, t *turn) bool
	handle func(ctx context.Context, t *turn) (types.ChatResponse, error)
}

func (s *ServiceImpl) rules() []rule {
	return []rule{
		{name: ruleRecommendKeyword, match: s.matchRecommendKeyword, handle: s.handleRecommend},
		{name: ruleRefinement, match: s.matchRefinement, handle: s.handleRefinement},
		{name: ruleClassifier, match: s.matchClassifier, handle: s.handleClassified},
		{name: ruleOpenQA, match: func(context.Context, *turn) bool { return true }, handle: s.handleOpenQA},
	}
}

func (s *ServiceImpl) matchRecommendKeyword(_ context.Context, t *turn) bool {
	return containsAny(t.lower, s.params.RecommendKeywords)
}

func (s *ServiceImpl) matchRefinement(_ context.Context, t *turn) bool {
	r, ok := parseRefinement(t.words, s.params.RefinementKeywords)
	if !ok {
		return false
	}
	last, ok := t.sess.LastAssistantMessage()
	if !ok || !isRecommendationReply(last.Content) {
		return false
	}
	t.refinement = r
	return true
}

// matchClassifier claims the turn unless the classifier routes it to question answering.
func (s *ServiceImpl) matchClassifier(ctx context.Context, t *turn) bool {
	if s.classifier == nil {
		return false
	}
	t.intent = s.classify(ctx, t)
	return t.intent != types.IntentHealthQA
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// refinement holds the adjustments a follow-up message asks for.
type refinement struct {
	keywords  []string
	timeSlots []types.TimeSlot
	cheaper   bool
	free      bool
	nearby    bool
	different bool
}

// refinementForms lists the whole words each built-in keyword accepts. Keywords
// without an entry match only themselves, so "far" never matches "farewell".
var refinementForms = map[string][]string{
	"morning":   {"morning", "mornings"},
	"afternoon": {"afternoon", "afternoons"},
	"evening":   {"evening", "evenings"},
	"cheap":     {"cheap", "cheaper", "cheapest"},
	"expensive": {"expensive", "pricey"},
	"free":      {"free"},
	"nearby":    {"nearby"},
	"near":      {"near", "nearer", "nearest"},
	"closer":    {"closer", "closest"},
	"far":       {"far", "farther", "farthest"},
	"different": {"different"},
	"another":   {"another"},
}

func keywordMatches(words []string, keyword string) bool {
	forms, ok := refinementForms[keyword]
	if !ok {
		forms = []string{keyword}
	}
	return slices.ContainsFunc(words, func(w string) bool { return slices.Contains(forms, w) })
}

// parseRefinement matches keywords against whole words, including the listed inflections.
func parseRefinement(words []string, keywords []string) (refinement, bool) {
	var r refinement
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || !keywordMatches(words, k) {
			continue
		}
		r.keywords = append(r.keywords, k)
		switch k {
		case "morning", "afternoon", "evening":
			if slot, ok := types.ParsePreferredTimeSlot(k); ok && !slices.Contains(r.timeSlots, slot) {
				r.timeSlots = append(r.timeSlots, slot)
			}
		case "cheap", "expensive":
			r.cheaper = true
		case "free":
			r.free = true
		case "nearby", "near", "closer", "far":
			r.nearby = true
		case "different", "another":
			r.different = true
		}
	}
	return r, len(r.keywords) > 0
}

// apply overlays the adjustments on profile and returns the per-call options.
// Values stated explicitly in the extracted fragment win over keyword adjustments.
func (r refinement) apply(profile *types.UserProfile, fragment types.ProfileFragment, lastResults []string, p Params) types.RecommendOptions {
	var opts types.RecommendOptions
	if len(r.timeSlots) > 0 && len(fragment.TimeSlots) == 0 {
		profile.TimeSlots = slices.Clone(r.timeSlots)
	}
	if r.cheaper && fragment.Budget == nil {
		budget := p.CheapBudget
		if profile.Budget != nil && *profile.Budget > 0 {
			budget = *profile.Budget * p.CheaperFactor
		}
		profile.Budget = &budget
	}
	if r.free && fragment.NeedFree == nil {
		profile.NeedFree = true
	}
	if r.nearby {
		opts.MaxDistanceKm = p.NearbyDistanceKm
	}
	if r.different {
		opts.ExcludeIDs = slices.Clone(lastResults)
	}
	return opts
}
