package types

import "fmt"

// HealthData is one reading from a wearable or a manual entry. BloodPressure is
// "systolic/diastolic", e.g. "120/80".
type HealthData struct {
	DeviceID      string `json:"device_id" validate:"required,max=128"`
	SessionID     string `json:"session_id,omitempty" validate:"omitempty,max=128"`
	BloodPressure string `json:"blood_pressure" validate:"required,max=16"`
	HeartRate     int    `json:"heart_rate" validate:"gte=0,lte=300"`
	BloodGlucose  int    `json:"blood_glucose" validate:"gte=0,lte=1000"`
	BloodOxygen   int    `json:"blood_oxygen" validate:"gte=0,lte=100"`
	Timestamp     string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// VitalSigns is a processed reading.
type VitalSigns struct {
	DeviceID     string  `json:"device_id"`
	Systolic     int     `json:"systolic"`
	Diastolic    int     `json:"diastolic"`
	HeartRate    int     `json:"heart_rate"`
	BloodGlucose int     `json:"blood_glucose"`
	BloodOxygen  int     `json:"blood_oxygen"`
	HealthScore  float64 `json:"health_score"`
	Timestamp    string  `json:"timestamp"`
}

// Summary renders the reading the way chat replies quote it.
func (v VitalSigns) Summary() string {
	return fmt.Sprintf("(BP %d/%d, HR %d, GLU %d, SpO2 %d)", v.Systolic, v.Diastolic, v.HeartRate, v.BloodGlucose, v.BloodOxygen)
}

type VitalsResponse struct {
	Status string     `json:"status"`
	Result VitalSigns `json:"result"`
}
