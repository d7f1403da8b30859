package assessment

import (
	"fmt"
	"math"
)

// BMI returns weight over height squared, rounded to one decimal place.
// Inputs outside the form bounds are still computed.
func BMI(heightCm, weightKg int) float64 {
	meters := float64(heightCm) / 100
	return math.Round(float64(weightKg)/(meters*meters)*10) / 10
}

// FormatBMI renders a BMI value the way the form displays it.
func FormatBMI(bmi float64) string {
	return fmt.Sprintf("%.1f kg/m²", bmi)
}

const (
	BPNormal        = "Normal"
	BPElevated      = "Elevated"
	BPStage1        = "Stage 1 High"
	BPStage2        = "Stage 2 High"
	BPCrisis        = "Crisis"
	BPCheckRequired = "Check Required"
)

// BloodPressureCategory classifies a reading, first match wins. The
// Stage 2 rule matches every reading the Crisis rule would, so Crisis is
// never returned; the order is kept as shipped pending product review.
func BloodPressureCategory(systolic, diastolic int) string {
	if systolic < 120 && diastolic < 80 {
		return BPNormal
	}
	if systolic < 130 && diastolic < 80 {
		return BPElevated
	}
	if systolic < 140 || diastolic < 90 {
		return BPStage1
	}
	if systolic >= 140 || diastolic >= 90 {
		return BPStage2
	}
	if systolic >= 180 || diastolic >= 120 {
		return BPCrisis
	}
	return BPCheckRequired
}

// Derived holds the values computed from the form for display.
type Derived struct {
	BMI              float64 `json:"bmi"`
	BMIDisplay       string  `json:"bmi_display"`
	BloodPressure    string  `json:"bp_category"`
	BloodPressureRaw string  `json:"bp_reading"`
}

func Derive(p HealthProfile) Derived {
	bmi := BMI(p.HeightCm, p.WeightKg)
	return Derived{
		BMI:              bmi,
		BMIDisplay:       FormatBMI(bmi),
		BloodPressure:    BloodPressureCategory(p.SystolicBP, p.DiastolicBP),
		BloodPressureRaw: fmt.Sprintf("%d/%d mmHg", p.SystolicBP, p.DiastolicBP),
	}
}
