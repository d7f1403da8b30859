package web

import (
	"context"
	"errors"
	"time"

	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
	"github.com/synaptica-ai/cardiocheck/pkg/events"
	"github.com/synaptica-ai/cardiocheck/pkg/observability/metrics"
	"github.com/synaptica-ai/cardiocheck/pkg/prediction"
	"github.com/synaptica-ai/cardiocheck/pkg/session"
)

const publishTimeout = 5 * time.Second

// FailureKind maps a submission error onto the transport/status/malformed
// taxonomy.
func FailureKind(err error) string {
	var statusErr *prediction.StatusError
	switch {
	case errors.As(err, &statusErr):
		return metrics.FailureStatus
	case errors.Is(err, prediction.ErrMalformedResponse):
		return metrics.FailureMalformed
	default:
		return metrics.FailureTransport
	}
}

// OutcomeRecorder returns a listener that updates metrics and publishes a
// de-identified event for every applied submission. Publishing happens in
// the background so a slow broker never delays the response.
func OutcomeRecorder(publisher events.Publisher) session.Listener {
	return func(o session.Outcome) {
		if o.Abandoned {
			metrics.ObserveAbandoned()
			return
		}

		derived := assessment.Derive(o.Profile)
		event := events.AssessmentEvent{
			SessionID:  o.SessionID,
			BMI:        derived.BMI,
			BPCategory: derived.BloodPressure,
			LatencyMs:  o.Duration.Milliseconds(),
		}
		if o.Err != nil {
			kind := FailureKind(o.Err)
			metrics.ObserveFailure(kind, o.Duration)
			event.Status = string(session.StatusFailed)
			event.FailureKind = kind
		} else {
			metrics.ObserveSuccess(o.Result.Risk, o.Duration)
			event.Status = string(session.StatusSucceeded)
			event.Risk = o.Result.Risk
			event.Probability = o.Result.Probability
		}

		if publisher == nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			if err := publisher.PublishAssessment(ctx, event); err != nil {
				logger.Log.WithError(err).WithField("session_id", o.SessionID).Warn("Failed to publish assessment event")
			}
		}()
	}
}
