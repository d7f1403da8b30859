package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/common/httpclient"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
)

var (
	// ErrTransport covers requests that never produced a response.
	ErrTransport = errors.New("prediction request failed")
	// ErrMalformedResponse covers 2xx responses whose body is not a valid result.
	ErrMalformedResponse = errors.New("malformed prediction response")
)

// StatusError is returned for any non-2xx response, whatever the body says.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prediction service returned status %d", e.StatusCode)
}

// Client posts health profiles to the external prediction endpoint.
type Client struct {
	endpoint string
	http     *resty.Client
}

// NewClient builds a client for endpoint. Requests are never retried.
func NewClient(endpoint string, timeout time.Duration) *Client {
	rc := resty.NewWithClient(httpclient.New(timeout)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{endpoint: endpoint, http: rc}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict sends the profile and returns the validated result.
func (c *Client) Predict(ctx context.Context, profile assessment.HealthProfile) (assessment.PredictionResult, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return assessment.PredictionResult{}, fmt.Errorf("encode profile: %w", err)
	}

	reqID := uuid.New().String()
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID).
		SetBody(body).
		Post(c.endpoint)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"request_id": reqID,
			"timeout":    httpclient.IsTimeout(err),
		}).Warn("Prediction request failed")
		return assessment.PredictionResult{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	fields := map[string]interface{}{
		"request_id":  reqID,
		"status":      resp.StatusCode(),
		"duration_ms": time.Since(start).Milliseconds(),
	}

	if !resp.IsSuccess() {
		logger.Log.WithFields(fields).Warn("Prediction service returned error status")
		return assessment.PredictionResult{}, &StatusError{StatusCode: resp.StatusCode()}
	}

	result, err := assessment.ParseResult(resp.Body())
	if err != nil {
		logger.Log.WithError(err).WithFields(fields).Warn("Prediction response rejected")
		return assessment.PredictionResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	logger.Log.WithFields(fields).Debug("Prediction received")
	return result, nil
}
