package generativeAI

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

const extractorSystemInstruction = `You extract activity preferences of elderly users from chat messages.
Answer with a single JSON object and nothing else.`

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ProfileExtractorImpl turns free text into a partial profile with the LLM.
type ProfileExtractorImpl struct {
	generator    TextGenerator
	historyLimit int
	logger       *slog.Logger
	metrics      *metrics.AppMetrics
}

func NewProfileExtractorImpl(generator TextGenerator, historyLimit int, logger *slog.Logger, m *metrics.AppMetrics) *ProfileExtractorImpl {
	return &ProfileExtractorImpl{
		generator:    generator,
		historyLimit: historyLimit,
		logger:       logger,
		metrics:      m,
	}
}

// Extract never fails: on any error the empty fragment is returned.
func (e *ProfileExtractorImpl) Extract(ctx context.Context, message string, history []types.ConversationMessage) types.ProfileFragment {
	ctx, span := otel.Tracer("ProfileExtractor").Start(ctx, "Extract")
	defer span.End()

	l := e.logger.With(slog.String("method", "Extract"))

	if e.historyLimit > 0 && len(history) > e.historyLimit {
		history = history[len(history)-e.historyLimit:]
	}

	raw, err := e.generator.GenerateText(ctx, extractionPrompt(message, history), GenerateOptions{
		SystemInstruction: extractorSystemInstruction,
		JSON:              true,
	})
	if err != nil {
		e.metrics.UpstreamFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("component", "extractor")))
		l.WarnContext(ctx, "Profile extraction failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return types.ProfileFragment{}
	}

	fragment, err := parseProfileFragment(raw)
	if err != nil {
		l.WarnContext(ctx, "Unparseable extraction result", slog.Any("error", err), slog.String("response", raw))
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return types.ProfileFragment{}
	}

	span.SetAttributes(attribute.Bool("fragment.empty", fragment.IsEmpty()))
	span.SetStatus(codes.Ok, "")
	return fragment
}

func extractionPrompt(message string, history []types.ConversationMessage) string {
	var sb strings.Builder
	if len(history) > 0 {
		sb.WriteString("Previous conversation:\n")
		sb.WriteString(types.FormatHistory(history))
		sb.WriteString("\n")
	}
	sb.WriteString(`Extract the user's preferences for activity recommendations from the message below.
Return ONLY a JSON object with these optional keys:

{
  "interests": ["hobbies, activities or topics, e.g. tai chi, yoga, music, cooking"],
  "languages": ["preferred languages"],
  "time_slots": ["morning" | "afternoon" | "evening" | "any"],
  "budget": number,
  "need_free": boolean,
  "location": "city, area or place name",
  "sourcetypes": ["course" | "event" | "interest_group"]
}

Omit every key the user did not mention. Do not invent values.

Examples:
- "I like tai chi in the morning, budget 50, free if possible" -> {"interests": ["tai chi"], "time_slots": ["morning"], "budget": 50, "need_free": true}
- "I want fitness activities in Bishan" -> {"interests": ["fitness"], "location": "Bishan"}
- "Can you suggest free music events?" -> {"interests": ["music"], "need_free": true, "sourcetypes": ["event"]}

User message: `)
	sb.WriteString(strconv.Quote(message))
	sb.WriteString("\n")
	return sb.String()
}

type rawProfile struct {
	Interests   any `json:"interests"`
	Languages   any `json:"languages"`
	TimeSlots   any `json:"time_slots"`
	Budget      any `json:"budget"`
	NeedFree    any `json:"need_free"`
	Location    any `json:"location"`
	SourceTypes any `json:"sourcetypes"`
}

func parseProfileFragment(response string) (types.ProfileFragment, error) {
	var raw rawProfile
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &raw); err != nil {
		return types.ProfileFragment{}, fmt.Errorf("decode profile JSON: %w", err)
	}

	f := types.ProfileFragment{
		Interests: cleanList(raw.Interests),
		Languages: cleanList(raw.Languages),
		Budget:    cleanBudget(raw.Budget),
		NeedFree:  cleanBool(raw.NeedFree),
	}
	for _, s := range cleanList(raw.TimeSlots) {
		if ts, ok := types.ParsePreferredTimeSlot(s); ok {
			f.TimeSlots = append(f.TimeSlots, ts)
		}
	}
	for _, s := range cleanList(raw.SourceTypes) {
		if st, ok := types.ParseSourceType(s); ok {
			f.SourceTypes = append(f.SourceTypes, st)
		}
	}
	if loc, ok := raw.Location.(string); ok && !isPlaceholder(loc) {
		f.Location = strings.TrimSpace(loc)
	}
	return f, nil
}

// cleanJSONResponse strips markdown fences and surrounding prose from a model reply.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	first := strings.Index(response, "{")
	last := strings.LastIndex(response, "}")
	if first == -1 || last <= first {
		return response
	}
	return response[first : last+1]
}

func cleanList(v any) []string {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case string:
		items = []any{t}
	default:
		return nil
	}
	var out []string
	for _, item := range items {
		if item == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(item))
		if isPlaceholder(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func cleanBudget(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return nil
		}
		return &t
	case string:
		m := numberPattern.FindString(t)
		if m == "" {
			return nil
		}
		b, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		return &b
	default:
		return nil
	}
}

func cleanBool(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &b
	default:
		return nil
	}
}

func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "null")
}
