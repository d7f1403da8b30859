package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Feature struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Catalog is the marketing copy shown on the landing page.
type Catalog struct {
	Brand        string    `yaml:"brand" json:"brand"`
	Headline     string    `yaml:"headline" json:"headline"`
	Tagline      string    `yaml:"tagline" json:"tagline"`
	CallToAction string    `yaml:"call_to_action" json:"call_to_action"`
	TrustStats   []Stat    `yaml:"trust_stats" json:"trust_stats"`
	Features     []Feature `yaml:"features" json:"features"`
	Disclaimer   string    `yaml:"disclaimer" json:"disclaimer"`
}

// LoadCatalog reads a YAML catalog. An empty path returns the built-in copy;
// fields missing from the file keep their built-in values.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), fmt.Errorf("read content catalog: %w", err)
	}

	cat := DefaultCatalog()
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse content catalog: %w", err)
	}
	if cat.Headline == "" {
		return Catalog{}, errors.New("content catalog has no headline")
	}
	return cat, nil
}

func DefaultCatalog() Catalog {
	return Catalog{
		Brand:        "CardioCheck",
		Headline:     "Know Your Heart Health in Minutes",
		Tagline:      "AI-powered cardiovascular risk assessment built on clinical indicators you already know.",
		CallToAction: "Start Free Assessment",
		TrustStats: []Stat{
			{Value: "50K+", Label: "Users Trust Us"},
			{Value: "98%", Label: "Accuracy Rate"},
			{Value: "100%", Label: "Data Security"},
		},
		Features: []Feature{
			{Title: "Real-time Analysis", Description: "Lightning-fast AI predictions with comprehensive health insights in milliseconds"},
			{Title: "Privacy First", Description: "Bank-level encryption ensures your sensitive health data remains completely secure"},
			{Title: "Actionable Insights", Description: "Receive personalized, evidence-based recommendations for optimal heart health"},
		},
		Disclaimer: "This assessment tool is designed for educational purposes only and should not replace professional medical advice, diagnosis, or treatment.",
	}
}
