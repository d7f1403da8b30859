package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PREDICTION_API_URL", "")
	t.Setenv("API_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.ServerPort)
	}
	if cfg.PredictionURL != "http://localhost:8000/predict" {
		t.Fatalf("unexpected default prediction url %q", cfg.PredictionURL)
	}
	if cfg.PredictionTimeout != 15*time.Second {
		t.Fatalf("expected 15s prediction timeout, got %s", cfg.PredictionTimeout)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no kafka brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadPredictionURLFallsBackToAPIURL(t *testing.T) {
	t.Setenv("PREDICTION_API_URL", "")
	t.Setenv("API_URL", "https://predict.example.com/predict")

	cfg := Load()
	if cfg.PredictionURL != "https://predict.example.com/predict" {
		t.Fatalf("expected API_URL fallback, got %q", cfg.PredictionURL)
	}

	t.Setenv("PREDICTION_API_URL", "https://primary.example.com/predict")
	cfg = Load()
	if cfg.PredictionURL != "https://primary.example.com/predict" {
		t.Fatalf("expected PREDICTION_API_URL to win, got %q", cfg.PredictionURL)
	}
}

func TestLoadParsesListsAndInvalidValues(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("RATE_LIMIT_RPS", "abc")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected fallback session ttl, got %s", cfg.SessionTTL)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookies")
	}
	if cfg.RateLimitRPS != 20 {
		t.Fatalf("expected fallback rps, got %d", cfg.RateLimitRPS)
	}
}
