package types

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type IntentType string

const (
	IntentRecommendActivity IntentType = "recommend_activity"
	IntentHealthQA          IntentType = "health_qa"
	IntentChitchat          IntentType = "chitchat"
)

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Message   string `json:"message" validate:"required,min=1,max=2000"`
	// ContextVitals is an optional reading taken alongside the message.
	ContextVitals *HealthData `json:"context_vitals,omitempty" validate:"omitempty"`
}

type LocationRequest struct {
	SessionID string  `json:"session_id" validate:"required,max=128"`
	Lat       float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon       float64 `json:"lon" validate:"gte=-180,lte=180"`
}

type UserLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type ChatResponse struct {
	SessionID     string                 `json:"session_id"`
	Answer        string                 `json:"answer"`
	Result        []RecommendationResult `json:"result"`
	Retrieved     []string               `json:"retrieved,omitempty"`
	ShowMap       *bool                  `json:"show_map,omitempty"`
	UserLocation  *UserLocation          `json:"user_location,omitempty"`
	Intent        string                 `json:"intent,omitempty"`
	MissingFields []string               `json:"missing_fields,omitempty"`
}

// QAAnswer is the output of open-domain question answering.
type QAAnswer struct {
	Answer    string   `json:"answer"`
	Retrieved []string `json:"retrieved"`
}

type KnowledgeSnippet struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response is the generic error envelope used in API docs.
type Response struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
