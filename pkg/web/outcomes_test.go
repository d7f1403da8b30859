package web

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/events"
	"github.com/synaptica-ai/cardiocheck/pkg/observability/metrics"
	"github.com/synaptica-ai/cardiocheck/pkg/prediction"
	"github.com/synaptica-ai/cardiocheck/pkg/session"
)

type recordingPublisher struct {
	events chan events.AssessmentEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan events.AssessmentEvent, 4)}
}

func (p *recordingPublisher) PublishAssessment(_ context.Context, e events.AssessmentEvent) error {
	p.events <- e
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) next(t *testing.T) events.AssessmentEvent {
	t.Helper()
	select {
	case e := <-p.events:
		return e
	case <-time.After(time.Second):
		t.Fatalf("no event published")
		return events.AssessmentEvent{}
	}
}

func TestFailureKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrapped: %w", &prediction.StatusError{StatusCode: 503}), metrics.FailureStatus},
		{fmt.Errorf("%w: bad json", prediction.ErrMalformedResponse), metrics.FailureMalformed},
		{fmt.Errorf("%w: refused", prediction.ErrTransport), metrics.FailureTransport},
		{errors.New("anything else"), metrics.FailureTransport},
	}
	for _, c := range cases {
		if got := FailureKind(c.err); got != c.want {
			t.Fatalf("FailureKind(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}

func TestOutcomeRecorderPublishesDerivedValues(t *testing.T) {
	metrics.Reset()
	publisher := newRecordingPublisher()
	record := OutcomeRecorder(publisher)

	profile := assessment.DefaultProfile()
	record(session.Outcome{
		SessionID: "s-1",
		Profile:   profile,
		Result:    assessment.PredictionResult{Risk: true, Probability: 0.9},
		Duration:  40 * time.Millisecond,
	})

	e := publisher.next(t)
	if e.SessionID != "s-1" || e.Status != string(session.StatusSucceeded) {
		t.Fatalf("unexpected event %+v", e)
	}
	if !e.Risk || e.Probability != 0.9 || e.BMI != 24.2 || e.LatencyMs != 40 {
		t.Fatalf("unexpected event values %+v", e)
	}

	record(session.Outcome{
		SessionID: "s-1",
		Profile:   profile,
		Err:       &prediction.StatusError{StatusCode: 500},
	})
	e = publisher.next(t)
	if e.Status != string(session.StatusFailed) || e.FailureKind != metrics.FailureStatus || e.Risk {
		t.Fatalf("unexpected failure event %+v", e)
	}
}

func TestOutcomeRecorderSkipsAbandoned(t *testing.T) {
	publisher := newRecordingPublisher()
	OutcomeRecorder(publisher)(session.Outcome{SessionID: "s-2", Abandoned: true})

	select {
	case e := <-publisher.events:
		t.Fatalf("abandoned outcome should not be published, got %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}
