package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
)

func TestManagerCreateGetDelete(t *testing.T) {
	m := NewManager(&stubPredictor{}, time.Minute)
	s := m.Create()
	if s.ID() == "" {
		t.Fatal("expected session id")
	}
	if other := m.Create(); other.ID() == s.ID() {
		t.Fatal("expected unique session ids")
	}

	got, ok := m.Get(s.ID())
	if !ok || got != s {
		t.Fatal("expected to find created session")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Len())
	}

	m.Delete(s.ID())
	if _, ok := m.Get(s.ID()); ok {
		t.Fatal("expected session to be deleted")
	}
}

func TestManagerAppliesSessionOptions(t *testing.T) {
	var seen []Outcome
	m := NewManager(&stubPredictor{result: assessment.PredictionResult{Probability: 0.3}}, time.Minute,
		WithListener(func(o Outcome) { seen = append(seen, o) }))

	s := m.Create()
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(seen) != 1 || seen[0].SessionID != s.ID() {
		t.Fatalf("expected listener call for %s, got %+v", s.ID(), seen)
	}
}

func TestManagerSweepExpiresIdleSessions(t *testing.T) {
	m := NewManager(&stubPredictor{}, time.Minute)
	stale := m.Create()
	fresh := m.Create()

	stale.touch(time.Now().Add(-2 * time.Minute))

	if n := m.Sweep(time.Now()); n != 1 {
		t.Fatalf("expected 1 expired session, got %d", n)
	}
	if _, ok := m.Get(stale.ID()); ok {
		t.Fatal("stale session should be gone")
	}
	if _, ok := m.Get(fresh.ID()); !ok {
		t.Fatal("fresh session should remain")
	}
}

func TestManagerSweepKeepsSubmittingSessions(t *testing.T) {
	predictor := newBlockingPredictor()
	m := NewManager(predictor, time.Minute)
	s := m.Create()

	errc := make(chan error, 1)
	go func() { errc <- s.Submit(context.Background()) }()
	<-predictor.started

	if n := m.Sweep(time.Now().Add(time.Hour)); n != 0 {
		t.Fatalf("expected in-flight session to survive, swept %d", n)
	}

	m.Delete(s.ID())
	if err := <-errc; !errors.Is(err, ErrAbandoned) {
		t.Fatalf("expected delete to abandon request, got %v", err)
	}
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	m := NewManager(&stubPredictor{}, time.Millisecond)
	m.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for m.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("janitor never expired the session")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
