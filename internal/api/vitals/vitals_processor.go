package vitals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// Health score weights.
const (
	systolicWeight  = 0.1
	diastolicWeight = 0.1
	heartRateWeight = 0.3
	glucoseWeight   = 0.2
	oxygenWeight    = 0.3
)

var errBloodPressureFormat = fmt.Errorf("%w: blood pressure must be 'systolic/diastolic', e.g., 120/80", types.ErrInvalidInput)

// ParseBloodPressure reads "systolic/diastolic". Spaces are ignored.
func ParseBloodPressure(raw string) (systolic, diastolic int, err error) {
	parts := strings.Split(strings.ReplaceAll(raw, " ", ""), "/")
	if len(parts) != 2 {
		return 0, 0, errBloodPressureFormat
	}
	systolic, err = strconv.Atoi(parts[0])
	if err != nil || systolic <= 0 {
		return 0, 0, errBloodPressureFormat
	}
	diastolic, err = strconv.Atoi(parts[1])
	if err != nil || diastolic <= 0 {
		return 0, 0, errBloodPressureFormat
	}
	return systolic, diastolic, nil
}

// HealthScore is a weighted sum of the readings rounded to two decimals.
func HealthScore(systolic, diastolic, heartRate, glucose, oxygen int) float64 {
	score := systolicWeight*float64(systolic) +
		diastolicWeight*float64(diastolic) +
		heartRateWeight*float64(heartRate) +
		glucoseWeight*float64(glucose) +
		oxygenWeight*float64(oxygen)
	return math.Round(score*100) / 100
}

// Process parses and scores a reading. A missing timestamp becomes now in UTC.
func Process(data types.HealthData, now time.Time) (types.VitalSigns, error) {
	if strings.TrimSpace(data.DeviceID) == "" {
		return types.VitalSigns{}, fmt.Errorf("%w: device id is required", types.ErrInvalidInput)
	}
	systolic, diastolic, err := ParseBloodPressure(data.BloodPressure)
	if err != nil {
		return types.VitalSigns{}, err
	}

	ts := strings.TrimSpace(data.Timestamp)
	if ts == "" {
		ts = now.UTC().Format(time.RFC3339)
	}

	return types.VitalSigns{
		DeviceID:     data.DeviceID,
		Systolic:     systolic,
		Diastolic:    diastolic,
		HeartRate:    data.HeartRate,
		BloodGlucose: data.BloodGlucose,
		BloodOxygen:  data.BloodOxygen,
		HealthScore:  HealthScore(systolic, diastolic, data.HeartRate, data.BloodGlucose, data.BloodOxygen),
		Timestamp:    ts,
	}, nil
}
