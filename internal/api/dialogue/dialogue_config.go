package dialogue

import (
	"time"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/config"
)

type Params struct {
	HistoryLimit     int
	NearbyDistanceKm float64
	CheapBudget      float64
	CheaperFactor    float64

	ExtractTimeout  time.Duration
	ClassifyTimeout time.Duration
	AnswerTimeout   time.Duration

	RecommendKeywords  []string
	RefinementKeywords []string
	GuardKeywords      []string
}

func DefaultParams() Params {
	return Params{
		HistoryLimit:     5,
		NearbyDistanceKm: 5,
		CheapBudget:      20,
		CheaperFactor:    0.5,
		ExtractTimeout:   8 * time.Second,
		ClassifyTimeout:  5 * time.Second,
		AnswerTimeout:    15 * time.Second,
		RecommendKeywords: []string{
			"recommend", "activity", "suggestion", "suggest",
		},
		RefinementKeywords: []string{
			"morning", "afternoon", "evening", "cheap", "expensive", "free",
			"nearby", "near", "closer", "far", "different", "another",
		},
		GuardKeywords: []string{
			"recommend", "activity", "suggest", "exercise", "workout", "class", "course",
			"event", "group", "join", "hobby", "hobbies", "something to do", "things to do",
		},
	}
}

// ParamsFromConfig overlays configured values on the defaults. Zero values keep the default.
func ParamsFromConfig(c config.Dialogue) Params {
	p := DefaultParams()
	if c.HistoryLimit > 0 {
		p.HistoryLimit = c.HistoryLimit
	}
	if c.NearbyDistanceKm > 0 {
		p.NearbyDistanceKm = c.NearbyDistanceKm
	}
	if c.CheapBudget > 0 {
		p.CheapBudget = c.CheapBudget
	}
	if c.CheaperFactor > 0 && c.CheaperFactor < 1 {
		p.CheaperFactor = c.CheaperFactor
	}
	if c.ExtractTimeout > 0 {
		p.ExtractTimeout = c.ExtractTimeout
	}
	if c.ClassifyTimeout > 0 {
		p.ClassifyTimeout = c.ClassifyTimeout
	}
	if c.AnswerTimeout > 0 {
		p.AnswerTimeout = c.AnswerTimeout
	}
	if len(c.RecommendKeywords) > 0 {
		p.RecommendKeywords = c.RecommendKeywords
	}
	if len(c.RefinementKeywords) > 0 {
		p.RefinementKeywords = c.RefinementKeywords
	}
	if len(c.GuardKeywords) > 0 {
		p.GuardKeywords = c.GuardKeywords
	}
	return p
}
