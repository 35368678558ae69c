package types

import "strings"

type SourceType string

const (
	SourceTypeCourse        SourceType = "course"
	SourceTypeEvent         SourceType = "event"
	SourceTypeInterestGroup SourceType = "interest_group"
)

// ParseSourceType normalises s and reports whether it names a known source type.
func ParseSourceType(s string) (SourceType, bool) {
	switch st := SourceType(strings.ToLower(strings.TrimSpace(s))); st {
	case SourceTypeCourse, SourceTypeEvent, SourceTypeInterestGroup:
		return st, true
	default:
		return "", false
	}
}

type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
	TimeSlotOther     TimeSlot = "other"
	TimeSlotUnknown   TimeSlot = "unknown"
	// TimeSlotAny is only valid in a user preference.
	TimeSlotAny TimeSlot = "any"
)

// ParsePreferredTimeSlot accepts the values a user may ask for: morning, afternoon, evening or any.
func ParsePreferredTimeSlot(s string) (TimeSlot, bool) {
	switch ts := TimeSlot(strings.ToLower(strings.TrimSpace(s))); ts {
	case TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening, TimeSlotAny:
		return ts, true
	default:
		return "", false
	}
}

// ActivityRecord is one catalog entry. Records are immutable between catalog refreshes.
type ActivityRecord struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	Subcategory    string     `json:"subcategory"`
	Description    string     `json:"description"`
	Language       string     `json:"language"`
	PriceNum       *float64   `json:"price_num,omitempty"`
	IsFree         bool       `json:"is_free"`
	Lat            *float64   `json:"lat,omitempty"`
	Lon            *float64   `json:"lon,omitempty"`
	Date           string     `json:"date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	TimeSlot       TimeSlot   `json:"time_slot"`
	Capacity       *int       `json:"capacity,omitempty"`
	Enrolled       *int       `json:"enrolled,omitempty"`
	SourceType     SourceType `json:"source_type"`
	ActivityVector []float32  `json:"-"`
}

// Slot returns the record's time slot, mapping an empty value to unknown.
func (a ActivityRecord) Slot() TimeSlot {
	if a.TimeSlot == "" {
		return TimeSlotUnknown
	}
	return a.TimeSlot
}

func (a ActivityRecord) HasCoordinates() bool {
	return a.Lat != nil && a.Lon != nil
}

// Remaining returns the number of open places, or nil when capacity or enrolment is unknown.
func (a ActivityRecord) Remaining() *int {
	if a.Capacity == nil || a.Enrolled == nil {
		return nil
	}
	r := *a.Capacity - *a.Enrolled
	if r < 0 {
		r = 0
	}
	return &r
}
