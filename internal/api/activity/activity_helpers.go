package activity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

var clockPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?:[:.](\d{2}))?(?::\d{2})?\s*(am|pm)?`)

// TimeSlotFromStart derives the slot of an activity from its start time.
// Accepts forms like "14:30", "09:00:00", "9am", "7.30pm" and "2:30 PM".
func TimeSlotFromStart(start string) types.TimeSlot {
	m := clockPattern.FindStringSubmatch(start)
	if m == nil {
		return types.TimeSlotUnknown
	}
	h, err := strconv.Atoi(m[1])
	if err != nil || h > 23 {
		return types.TimeSlotUnknown
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	switch {
	case h >= 6 && h < 12:
		return types.TimeSlotMorning
	case h >= 12 && h < 18:
		return types.TimeSlotAfternoon
	case h >= 18 && h < 23:
		return types.TimeSlotEvening
	default:
		return types.TimeSlotOther
	}
}

// EmbeddingText builds the weighted text the catalog vectors are computed from:
// title x5, category x2, subcategory x2, description x1.
func EmbeddingText(rec types.ActivityRecord) string {
	parts := []struct {
		text   string
		weight int
	}{
		{rec.Title, 5},
		{rec.Category, 2},
		{rec.Subcategory, 2},
		{rec.Description, 1},
	}
	var out []string
	for _, p := range parts {
		t := strings.TrimSpace(p.text)
		if t == "" {
			continue
		}
		for range p.weight {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// ParseVector reads the pgvector text form "[0.1,0.2,...]". An empty string is a missing vector.
func ParseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("malformed vector literal %q", truncate(s, 32))
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []float32{}, nil
	}
	fields := strings.Split(body, ",")
	v := make([]float32, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("vector component %d: %w", i, err)
		}
		v[i] = float32(x)
	}
	return v, nil
}

// FormatVector renders v in the pgvector text form.
func FormatVector(v []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(x), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
