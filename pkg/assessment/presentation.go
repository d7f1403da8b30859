package assessment

import (
	"fmt"
	"math"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Recommendation struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
}

var highRiskRecommendations = []Recommendation{
	{Text: "Schedule immediate consultation with a cardiologist", Priority: PriorityHigh},
	{Text: "Monitor blood pressure twice daily", Priority: PriorityHigh},
	{Text: "Implement lifestyle modifications immediately", Priority: PriorityMedium},
	{Text: "Complete comprehensive cardiac screening", Priority: PriorityMedium},
}

var lowRiskRecommendations = []Recommendation{
	{Text: "Continue current healthy lifestyle habits", Priority: PriorityLow},
	{Text: "Maintain regular physical activity routine", Priority: PriorityLow},
	{Text: "Schedule annual preventive health check-ups", Priority: PriorityLow},
	{Text: "Monitor key health indicators quarterly", Priority: PriorityLow},
}

const (
	LabelHighRisk    = "High Risk Detected"
	LabelLowRisk     = "Low Risk Profile"
	SubtitleHighRisk = "Medical consultation recommended"
	SubtitleLowRisk  = "Maintain healthy lifestyle"
)

// Presentation is everything the results panel renders.
type Presentation struct {
	HighRisk        bool             `json:"high_risk"`
	Label           string           `json:"label"`
	Subtitle        string           `json:"subtitle"`
	Probability     string           `json:"probability"`
	MeterPercent    float64          `json:"meter_percent"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Present maps a result to its display data.
func Present(r PredictionResult) Presentation {
	p := Presentation{
		HighRisk:     r.Risk,
		Probability:  FormatProbability(r.Probability),
		MeterPercent: math.Round(r.Probability*1000) / 10,
	}
	if r.Risk {
		p.Label = LabelHighRisk
		p.Subtitle = SubtitleHighRisk
		p.Recommendations = append([]Recommendation(nil), highRiskRecommendations...)
	} else {
		p.Label = LabelLowRisk
		p.Subtitle = SubtitleLowRisk
		p.Recommendations = append([]Recommendation(nil), lowRiskRecommendations...)
	}
	return p
}

// FormatProbability renders 0.837 as "83.7%".
func FormatProbability(probability float64) string {
	return fmt.Sprintf("%.1f%%", probability*100)
}
