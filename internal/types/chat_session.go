package types

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ConversationMessage struct {
	ID        uuid.UUID   `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// SessionContext is the per-session state: the accumulated profile, the message log
// and the latest vital signs reading.
type SessionContext struct {
	ID               string                `json:"id"`
	Profile          UserProfile           `json:"profile"`
	Messages         []ConversationMessage `json:"messages"`
	AwaitingLocation bool                  `json:"awaiting_location"`
	LastResultIDs    []string              `json:"last_result_ids,omitempty"`
	Vitals           *VitalSigns           `json:"vitals,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

func NewSessionContext(id string) *SessionContext {
	now := time.Now().UTC()
	return &SessionContext{
		ID:        id,
		Profile:   NewUserProfile(),
		Messages:  []ConversationMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *SessionContext) AddMessage(role MessageRole, content string) {
	s.Messages = append(s.Messages, ConversationMessage{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// Recent returns up to limit of the latest messages in arrival order.
// A non-positive limit returns the whole log.
func (s *SessionContext) Recent(limit int) []ConversationMessage {
	if limit <= 0 || limit >= len(s.Messages) {
		return slices.Clone(s.Messages)
	}
	return slices.Clone(s.Messages[len(s.Messages)-limit:])
}

// LastAssistantMessage returns the most recent assistant turn, if any.
func (s *SessionContext) LastAssistantMessage() (ConversationMessage, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return ConversationMessage{}, false
}

// Trim drops the oldest messages so that at most max remain.
func (s *SessionContext) Trim(max int) {
	if max > 0 && len(s.Messages) > max {
		s.Messages = slices.Clone(s.Messages[len(s.Messages)-max:])
	}
}

func (s *SessionContext) Clone() *SessionContext {
	c := *s
	c.Profile = s.Profile.Clone()
	c.Messages = slices.Clone(s.Messages)
	c.LastResultIDs = slices.Clone(s.LastResultIDs)
	if s.Vitals != nil {
		v := *s.Vitals
		c.Vitals = &v
	}
	return &c
}

// FormatHistory renders messages as "role: content" lines.
func FormatHistory(messages []ConversationMessage) string {
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(string(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
