// ABOUTME: Vital-sign reading models with derived categories.
// ABOUTME: Covers blood pressure, weight/BMI, and heart rate records.
package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// VitalType identifies which vital sign a reading belongs to.
type VitalType string

const (
	VitalBloodPressure VitalType = "bp"
	VitalWeight        VitalType = "weight"
	VitalHeartRate     VitalType = "heart_rate"
)

// AllVitalTypes returns all valid vital types.
var AllVitalTypes = []VitalType{VitalBloodPressure, VitalWeight, VitalHeartRate}

// IsValidVitalType checks if a string is a valid vital type.
func IsValidVitalType(s string) bool {
	for _, vt := range AllVitalTypes {
		if string(vt) == s {
			return true
		}
	}
	return false
}

// BPCategory is the blood-pressure band a reading falls into.
type BPCategory string

const (
	BPNormal   BPCategory = "normal"
	BPElevated BPCategory = "elevated"
	BPStage1   BPCategory = "stage1"
	BPStage2   BPCategory = "stage2"
	BPCrisis   BPCategory = "crisis"
)

// ClassifyBP derives the AHA blood-pressure category from a reading.
func ClassifyBP(systolic, diastolic int) BPCategory {
	switch {
	case systolic > 180 || diastolic > 120:
		return BPCrisis
	case systolic >= 140 || diastolic >= 90:
		return BPStage2
	case systolic >= 130 || diastolic >= 80:
		return BPStage1
	case systolic >= 120:
		return BPElevated
	default:
		return BPNormal
	}
}

// BPReading is a single blood-pressure measurement.
// Category is derived on write and never trusted from client input.
type BPReading struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	UserID     uuid.UUID  `json:"user_id" yaml:"user_id"`
	Systolic   int        `json:"systolic" yaml:"systolic"`
	Diastolic  int        `json:"diastolic" yaml:"diastolic"`
	Pulse      *int       `json:"pulse,omitempty" yaml:"pulse,omitempty"`
	Category   BPCategory `json:"category" yaml:"category"`
	RecordedAt time.Time  `json:"recorded_at" yaml:"recorded_at"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// NewBPReading creates a blood-pressure reading with derived category.
func NewBPReading(userID uuid.UUID, systolic, diastolic int) *BPReading {
	now := time.Now()
	return &BPReading{
		ID:         uuid.New(),
		UserID:     userID,
		Systolic:   systolic,
		Diastolic:  diastolic,
		Category:   ClassifyBP(systolic, diastolic),
		RecordedAt: now,
		CreatedAt:  now,
	}
}

// WithPulse sets an optional pulse measurement taken with the reading.
func (r *BPReading) WithPulse(bpm int) *BPReading {
	r.Pulse = &bpm
	return r
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (r *BPReading) WithRecordedAt(t time.Time) *BPReading {
	r.RecordedAt = t
	return r
}

// Validate checks the reading against physiological plausibility ranges.
func (r *BPReading) Validate() error {
	if r.Systolic < 60 || r.Systolic > 300 {
		return fmt.Errorf("systolic must be between 60 and 300 mmHg")
	}
	if r.Diastolic < 30 || r.Diastolic > 200 {
		return fmt.Errorf("diastolic must be between 30 and 200 mmHg")
	}
	if r.Systolic <= r.Diastolic {
		return fmt.Errorf("systolic must be greater than diastolic")
	}
	if r.Pulse != nil && (*r.Pulse < 20 || *r.Pulse > 260) {
		return fmt.Errorf("pulse must be between 20 and 260 bpm")
	}
	return nil
}

// BMICategory is the BMI band a weight record falls into.
type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// ComputeBMI returns weight(kg)/height(m)^2 rounded to one decimal.
func ComputeBMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// ClassifyBMI derives the BMI category using fixed thresholds:
// <18.5 underweight, <25 normal, <30 overweight, else obese.
func ClassifyBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// WeightRecord is a single weight measurement with derived BMI.
// HeightCm is snapshotted at measurement time so historical BMI values
// stay stable when the profile height changes.
type WeightRecord struct {
	ID         uuid.UUID   `json:"id" yaml:"id"`
	UserID     uuid.UUID   `json:"user_id" yaml:"user_id"`
	WeightKg   float64     `json:"weight_kg" yaml:"weight_kg"`
	HeightCm   float64     `json:"height_cm" yaml:"height_cm"`
	BMI        float64     `json:"bmi" yaml:"bmi"`
	Category   BMICategory `json:"category" yaml:"category"`
	RecordedAt time.Time   `json:"recorded_at" yaml:"recorded_at"`
	CreatedAt  time.Time   `json:"created_at" yaml:"created_at"`
}

// NewWeightRecord creates a weight record with derived BMI and category.
func NewWeightRecord(userID uuid.UUID, weightKg, heightCm float64) *WeightRecord {
	now := time.Now()
	bmi := ComputeBMI(weightKg, heightCm)
	return &WeightRecord{
		ID:         uuid.New(),
		UserID:     userID,
		WeightKg:   weightKg,
		HeightCm:   heightCm,
		BMI:        bmi,
		Category:   ClassifyBMI(bmi),
		RecordedAt: now,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (r *WeightRecord) WithRecordedAt(t time.Time) *WeightRecord {
	r.RecordedAt = t
	return r
}

// Validate checks the record against plausibility ranges.
func (r *WeightRecord) Validate() error {
	if r.WeightKg < 2 || r.WeightKg > 500 {
		return fmt.Errorf("weight must be between 2 and 500 kg")
	}
	if r.HeightCm < 50 || r.HeightCm > 280 {
		return fmt.Errorf("height must be between 50 and 280 cm")
	}
	return nil
}

// HeartRateStatus is the resting heart-rate band a reading falls into.
type HeartRateStatus string

const (
	HeartRateLow    HeartRateStatus = "low"
	HeartRateNormal HeartRateStatus = "normal"
	HeartRateHigh   HeartRateStatus = "high"
)

// ClassifyHeartRate derives the resting heart-rate status:
// below 60 low, 60-100 normal, above 100 high.
func ClassifyHeartRate(bpm int) HeartRateStatus {
	switch {
	case bpm < 60:
		return HeartRateLow
	case bpm <= 100:
		return HeartRateNormal
	default:
		return HeartRateHigh
	}
}

// HeartRateReading is a single heart-rate measurement.
type HeartRateReading struct {
	ID         uuid.UUID       `json:"id" yaml:"id"`
	UserID     uuid.UUID       `json:"user_id" yaml:"user_id"`
	BPM        int             `json:"bpm" yaml:"bpm"`
	Status     HeartRateStatus `json:"status" yaml:"status"`
	RecordedAt time.Time       `json:"recorded_at" yaml:"recorded_at"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
}

// NewHeartRateReading creates a heart-rate reading with derived status.
func NewHeartRateReading(userID uuid.UUID, bpm int) *HeartRateReading {
	now := time.Now()
	return &HeartRateReading{
		ID:         uuid.New(),
		UserID:     userID,
		BPM:        bpm,
		Status:     ClassifyHeartRate(bpm),
		RecordedAt: now,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (r *HeartRateReading) WithRecordedAt(t time.Time) *HeartRateReading {
	r.RecordedAt = t
	return r
}

// Validate checks the reading against plausibility ranges.
func (r *HeartRateReading) Validate() error {
	if r.BPM < 20 || r.BPM > 260 {
		return fmt.Errorf("heart rate must be between 20 and 260 bpm")
	}
	return nil
}
