package types

// RecommendationResult is one ranked activity returned to the caller. It is never persisted.
type RecommendationResult struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	Language        string     `json:"language"`
	PriceNum        *float64   `json:"price_num,omitempty"`
	IsFree          bool       `json:"is_free"`
	Distance        float64    `json:"distance"`
	Date            string     `json:"date"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time"`
	TimeSlot        TimeSlot   `json:"time_slot"`
	SourceType      SourceType `json:"source_type"`
	Lat             *float64   `json:"lat,omitempty"`
	Lon             *float64   `json:"lon,omitempty"`
	Remaining       *int       `json:"remaining,omitempty"`
	Score           float64    `json:"score"`
	InterestScore   float64    `json:"interest_score"`
	ScoreNormalized float64    `json:"score_normalized"`
	Explanation     string     `json:"explanation"`
}

// RecommendOptions carries per-call adjustments that are not part of the stored profile.
type RecommendOptions struct {
	// K overrides the configured result count when positive.
	K int
	// MaxDistanceKm narrows the distance ceiling when positive.
	MaxDistanceKm float64
	ExcludeIDs    []string
}

type RecommendationRequest struct {
	Profile UserProfile `json:"profile"`
	K       int         `json:"k,omitempty" validate:"gte=0,lte=20"`
}

type RecommendationResponse struct {
	Results []RecommendationResult `json:"results"`
}
