package recommendation

import (
	"math"
	"slices"
	"strings"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// candidate is a catalog record travelling through filtering, scoring and selection.
type candidate struct {
	record          *types.ActivityRecord
	distance        float64
	timeSlotPenalty float64

	interestScore   float64
	pricePenalty    float64
	distancePenalty float64
	freeBonus       float64
	score           float64
	normalized      float64
	matched         []string
}

type filterCriteria struct {
	languages     []string
	timeSlots     []types.TimeSlot
	geoActive     bool
	lat, lon      float64
	maxDistanceKm float64
	sourceTypes   []types.SourceType
	excludeIDs    map[string]struct{}
}

// filterBySourceType keeps records of the requested source types; no request keeps everything.
func filterBySourceType(records []types.ActivityRecord, sourceTypes []types.SourceType, exclude map[string]struct{}) []*types.ActivityRecord {
	out := make([]*types.ActivityRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		if _, skip := exclude[rec.ID]; skip {
			continue
		}
		if len(sourceTypes) > 0 && !slices.Contains(sourceTypes, rec.SourceType) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// filterCandidates applies the language, source type and distance cuts and computes the
// soft time-slot penalty for every survivor.
func filterCandidates(records []types.ActivityRecord, c filterCriteria) []candidate {
	pool := filterBySourceType(records, c.sourceTypes, c.excludeIDs)
	out := make([]candidate, 0, len(pool))
	for _, rec := range pool {
		if !languageMatches(rec.Language, c.languages) {
			continue
		}
		distance := 0.0
		if c.geoActive {
			distance = recordDistance(rec, c.lat, c.lon)
			if distance > c.maxDistanceKm {
				continue
			}
		}
		out = append(out, candidate{
			record:          rec,
			distance:        distance,
			timeSlotPenalty: timeSlotPenalty(rec.Slot(), c.timeSlots),
		})
	}
	return out
}

// languageMatches reports whether any language token of the record is requested.
// wanted must already be lower-cased.
func languageMatches(recordLanguage string, wanted []string) bool {
	if strings.TrimSpace(recordLanguage) == "" {
		return false
	}
	for _, tok := range tokenizeLanguages(recordLanguage) {
		if slices.Contains(wanted, tok) {
			return true
		}
	}
	return false
}

// recordDistance returns +Inf for records without coordinates so the distance cut drops them.
func recordDistance(rec *types.ActivityRecord, lat, lon float64) float64 {
	if !rec.HasCoordinates() {
		return math.Inf(1)
	}
	d := calculateDistance(lat, lon, *rec.Lat, *rec.Lon)
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}

func timeSlotPenalty(slot types.TimeSlot, wanted []types.TimeSlot) float64 {
	if len(wanted) == 0 || slices.Contains(wanted, types.TimeSlotAny) {
		return 0
	}
	if slot == types.TimeSlotUnknown {
		return 0.5
	}
	if slices.Contains(wanted, slot) {
		return 0
	}
	return 1
}
