package types

import (
	"slices"
	"strings"
)

const DefaultLanguage = "English"

// UserProfile holds the preferences collected for one chat session.
// Validation tags bound what a direct recommendation request may carry.
type UserProfile struct {
	Interests   []string     `json:"interests" validate:"max=20,dive,max=100"`
	Languages   []string     `json:"languages" validate:"max=10,dive,max=50"`
	TimeSlots   []TimeSlot   `json:"time_slots" validate:"max=4"`
	Budget      *float64     `json:"budget" validate:"omitempty,gte=0"`
	NeedFree    bool         `json:"need_free"`
	Location    string       `json:"location" validate:"max=256"`
	Lat         *float64     `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon         *float64     `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	SourceTypes []SourceType `json:"sourcetypes" validate:"max=3"`
}

// NewUserProfile returns the profile a session starts with.
func NewUserProfile() UserProfile {
	return UserProfile{
		Interests: []string{},
		Languages: []string{DefaultLanguage},
		TimeSlots: []TimeSlot{TimeSlotAny},
	}
}

// ProfileFragment is a partial profile as returned by extraction. Nil or empty
// fields mean "not mentioned".
type ProfileFragment struct {
	Interests   []string     `json:"interests,omitempty"`
	Languages   []string     `json:"languages,omitempty"`
	TimeSlots   []TimeSlot   `json:"time_slots,omitempty"`
	Budget      *float64     `json:"budget,omitempty"`
	NeedFree    *bool        `json:"need_free,omitempty"`
	Location    string       `json:"location,omitempty"`
	Lat         *float64     `json:"lat,omitempty"`
	Lon         *float64     `json:"lon,omitempty"`
	SourceTypes []SourceType `json:"sourcetypes,omitempty"`
}

// IsEmpty reports whether merging f would leave any profile unchanged.
func (f ProfileFragment) IsEmpty() bool {
	return len(cleanStrings(f.Interests)) == 0 &&
		len(cleanStrings(f.Languages)) == 0 &&
		len(f.TimeSlots) == 0 &&
		f.Budget == nil &&
		f.NeedFree == nil &&
		isBlank(f.Location) &&
		!nonZero(f.Lat) && !nonZero(f.Lon) &&
		len(f.SourceTypes) == 0
}

// Merge overwrites the fields of p for which f carries a non-empty value.
// Lists are replaced, never unioned.
func (p *UserProfile) Merge(f ProfileFragment) {
	if v := cleanStrings(f.Interests); len(v) > 0 {
		p.Interests = v
	}
	if v := cleanStrings(f.Languages); len(v) > 0 {
		p.Languages = v
	}
	if len(f.TimeSlots) > 0 {
		p.TimeSlots = slices.Clone(f.TimeSlots)
	}
	if f.Budget != nil {
		b := *f.Budget
		p.Budget = &b
	}
	if f.NeedFree != nil {
		p.NeedFree = *f.NeedFree
	}
	if !isBlank(f.Location) {
		p.Location = strings.TrimSpace(f.Location)
	}
	if nonZero(f.Lat) {
		lat := *f.Lat
		p.Lat = &lat
	}
	if nonZero(f.Lon) {
		lon := *f.Lon
		p.Lon = &lon
	}
	if len(f.SourceTypes) > 0 {
		p.SourceTypes = slices.Clone(f.SourceTypes)
	}
}

// Clone returns a deep copy of p.
func (p UserProfile) Clone() UserProfile {
	c := p
	c.Interests = slices.Clone(p.Interests)
	c.Languages = slices.Clone(p.Languages)
	c.TimeSlots = slices.Clone(p.TimeSlots)
	c.SourceTypes = slices.Clone(p.SourceTypes)
	if p.Budget != nil {
		b := *p.Budget
		c.Budget = &b
	}
	if p.Lat != nil {
		lat := *p.Lat
		c.Lat = &lat
	}
	if p.Lon != nil {
		lon := *p.Lon
		c.Lon = &lon
	}
	return c
}

// HasCoordinates is true only when both coordinates are present and non-zero.
func (p UserProfile) HasCoordinates() bool {
	return nonZero(p.Lat) && nonZero(p.Lon)
}

// MissingFields lists the required fields that are still empty.
func (p UserProfile) MissingFields() []string {
	var missing []string
	if len(cleanStrings(p.Interests)) == 0 {
		missing = append(missing, "interests")
	}
	return missing
}

// CleanInterests returns the trimmed, non-empty interests.
func (p UserProfile) CleanInterests() []string {
	return cleanStrings(p.Interests)
}

func isBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "null")
}

func nonZero(v *float64) bool {
	return v != nil && *v != 0
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if isBlank(s) {
			continue
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
