package dialogue

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// noMatchMarker opens every reply to a recommendation run that found nothing.
const noMatchMarker = "Sorry, I couldn't find any activities matching your preferences"

const (
	mapPrompt              = "Please select your location on the map so I can find activities near you."
	noMatchReply           = noMatchMarker + ". You could try other interests, another time of day or a higher budget."
	refinementNoMatchReply = noMatchMarker + " after that change, so I kept your previous preferences. You can ask for another time of day, something nearby or something different."
	smallTalkReply         = "Hello! I can suggest courses, events and interest groups for you, or answer your health questions. Tell me what you enjoy doing to get started."
	qaApology              = "Sorry, I can't answer that question right now. Please try again in a moment."
)

var fieldLabels = map[string]string{
	"interests": "interests (for example tai chi, singing or cooking)",
}

// missingFieldsPrompt names every missing field and nothing else.
func missingFieldsPrompt(missing []string) string {
	labels := make([]string, 0, len(missing))
	for _, f := range missing {
		if l, ok := fieldLabels[f]; ok {
			labels = append(labels, l)
			continue
		}
		labels = append(labels, f)
	}
	return "To recommend activities I need a little more information. Please tell me your " + joinWithAnd(labels) + "."
}

// formatResults lists the results. A stored reading is quoted ahead of the list.
func formatResults(results []types.RecommendationResult, reading *types.VitalSigns) string {
	if len(results) == 0 {
		return noMatchReply
	}
	var sb strings.Builder
	if reading != nil {
		fmt.Fprintf(&sb, "Based on your current readings %s:\n", reading.Summary())
	}
	sb.WriteString(ResultsMarker)
	sb.WriteString(":\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s", i+1, r.Title)
		if r.Category != "" {
			fmt.Fprintf(&sb, " (%s)", r.Category)
		}
		if when := strings.TrimSpace(strings.Join([]string{r.Date, r.StartTime}, " ")); when != "" {
			fmt.Fprintf(&sb, ", %s", when)
		}
		if r.Explanation != "" {
			sb.WriteString("\n   ")
			sb.WriteString(r.Explanation)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// isRecommendationReply reports whether an assistant message answered a recommendation
// run, with or without results.
func isRecommendationReply(content string) bool {
	return strings.Contains(content, ResultsMarker) || strings.HasPrefix(content, noMatchMarker)
}

func locationLabel(lat, lon float64) string {
	return fmt.Sprintf("Selected location (%.4f, %.4f)", lat, lon)
}

func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
