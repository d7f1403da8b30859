package assessment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// PredictionResult is the classification returned by the prediction backend.
type PredictionResult struct {
	Risk        bool    `json:"risk"`
	Probability float64 `json:"probability"`
}

var ErrMalformedResult = errors.New("malformed prediction result")

// ParseResult decodes and validates a prediction response body. Risk may be
// a JSON boolean or the integer 0/1; both fields are required and the
// probability must lie in [0,1].
func ParseResult(body []byte) (PredictionResult, error) {
	var raw struct {
		Risk        json.RawMessage `json:"risk"`
		Probability json.RawMessage `json:"probability"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return PredictionResult{}, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	if len(raw.Risk) == 0 || bytes.Equal(raw.Risk, []byte("null")) {
		return PredictionResult{}, fmt.Errorf("%w: missing risk", ErrMalformedResult)
	}
	if len(raw.Probability) == 0 || bytes.Equal(raw.Probability, []byte("null")) {
		return PredictionResult{}, fmt.Errorf("%w: missing probability", ErrMalformedResult)
	}

	var result PredictionResult
	switch string(raw.Risk) {
	case "true", "1":
		result.Risk = true
	case "false", "0":
		result.Risk = false
	default:
		return PredictionResult{}, fmt.Errorf("%w: risk %s", ErrMalformedResult, raw.Risk)
	}

	if err := json.Unmarshal(raw.Probability, &result.Probability); err != nil {
		return PredictionResult{}, fmt.Errorf("%w: probability %s", ErrMalformedResult, raw.Probability)
	}
	if result.Probability < 0 || result.Probability > 1 {
		return PredictionResult{}, fmt.Errorf("%w: probability %v outside [0,1]", ErrMalformedResult, result.Probability)
	}
	return result, nil
}
