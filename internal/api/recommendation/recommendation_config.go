package recommendation

import (
	"errors"
	"fmt"
	"time"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/config"
)

// Weights of the composite score: alpha·interest − beta·price − gamma·time − delta·distance + free.
type Weights struct {
	Alpha     float64
	Beta      float64
	Gamma     float64
	Delta     float64
	FreeBonus float64
}

type Params struct {
	TopK              int
	InterestThreshold float64
	MaxDistanceKm     float64
	DefaultBudget     float64
	Temperature       float64
	SqrtSmoothing     bool
	RandomSeed        int64
	EmbedTimeout      time.Duration
	Currency          string

	TitleKeywordBonus       float64
	DescriptionKeywordBonus float64
	KeywordBonusCap         float64

	Weights Weights

	StrongMatchTier float64
	MatchTier       float64
	VeryCloseKm     float64
	NearKm          float64
}

func DefaultParams() Params {
	return Params{
		TopK:                    3,
		InterestThreshold:       0.6,
		MaxDistanceKm:           50,
		DefaultBudget:           999,
		Temperature:             2.0,
		SqrtSmoothing:           true,
		RandomSeed:              42,
		EmbedTimeout:            5 * time.Second,
		Currency:                "SGD",
		TitleKeywordBonus:       0.25,
		DescriptionKeywordBonus: 0.15,
		KeywordBonusCap:         0.4,
		Weights: Weights{
			Alpha:     0.55,
			Beta:      0.15,
			Gamma:     0.1,
			Delta:     0.2,
			FreeBonus: 0.1,
		},
		StrongMatchTier: 0.85,
		MatchTier:       0.7,
		VeryCloseKm:     2,
		NearKm:          8,
	}
}

// ParamsFromConfig overlays configured values on the defaults. Zero values keep the default.
func ParamsFromConfig(c config.Recommendation) Params {
	p := DefaultParams()
	if c.TopK > 0 {
		p.TopK = c.TopK
	}
	if c.InterestThreshold > 0 {
		p.InterestThreshold = c.InterestThreshold
	}
	if c.MaxDistanceKm > 0 {
		p.MaxDistanceKm = c.MaxDistanceKm
	}
	if c.DefaultBudget > 0 {
		p.DefaultBudget = c.DefaultBudget
	}
	if c.Temperature > 0 {
		p.Temperature = c.Temperature
	}
	p.SqrtSmoothing = c.SqrtSmoothing
	if c.RandomSeed != 0 {
		p.RandomSeed = c.RandomSeed
	}
	if c.EmbedTimeout > 0 {
		p.EmbedTimeout = c.EmbedTimeout
	}
	if c.Currency != "" {
		p.Currency = c.Currency
	}
	if c.TitleKeywordBonus > 0 {
		p.TitleKeywordBonus = c.TitleKeywordBonus
	}
	if c.DescriptionKeywordBonus > 0 {
		p.DescriptionKeywordBonus = c.DescriptionKeywordBonus
	}
	if c.KeywordBonusCap > 0 {
		p.KeywordBonusCap = c.KeywordBonusCap
	}
	if w := c.Weights; w.Alpha > 0 {
		p.Weights = Weights{
			Alpha:     w.Alpha,
			Beta:      w.Beta,
			Gamma:     w.Gamma,
			Delta:     w.Delta,
			FreeBonus: w.FreeBonus,
		}
	}
	return p
}

func (p Params) Validate() error {
	var errs []error
	if p.TopK < 1 {
		errs = append(errs, fmt.Errorf("topK must be at least 1, got %d", p.TopK))
	}
	if p.InterestThreshold < 0 || p.InterestThreshold > 1 {
		errs = append(errs, fmt.Errorf("interestThreshold must be within [0,1], got %v", p.InterestThreshold))
	}
	if p.MaxDistanceKm <= 0 {
		errs = append(errs, fmt.Errorf("maxDistanceKm must be positive, got %v", p.MaxDistanceKm))
	}
	if p.DefaultBudget <= 0 {
		errs = append(errs, fmt.Errorf("defaultBudget must be positive, got %v", p.DefaultBudget))
	}
	if p.Temperature <= 0 {
		errs = append(errs, fmt.Errorf("temperature must be positive, got %v", p.Temperature))
	}
	if p.KeywordBonusCap < 0 || p.TitleKeywordBonus < 0 || p.DescriptionKeywordBonus < 0 {
		errs = append(errs, errors.New("keyword bonuses must not be negative"))
	}

	w := p.Weights
	if w.Alpha < 0 || w.Beta < 0 || w.Gamma < 0 || w.Delta < 0 || w.FreeBonus < 0 {
		errs = append(errs, errors.New("weights must not be negative"))
	}
	// interest dominates, distance comes second
	if !(w.Alpha > w.Delta && w.Delta > w.Beta && w.Delta > w.Gamma) {
		errs = append(errs, fmt.Errorf("weights must satisfy alpha > delta > beta, gamma (got alpha=%v delta=%v beta=%v gamma=%v)",
			w.Alpha, w.Delta, w.Beta, w.Gamma))
	}
	return errors.Join(errs...)
}
