package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

const (
	MessageSuccess = "Assessment completed successfully"
	MessageFailure = "Failed to get prediction. Please check your connection."
)

// ErrAbandoned is returned by Submit when a reset or a newer submission
// replaced the request before it resolved. Its outcome was discarded.
var ErrAbandoned = errors.New("submission abandoned")

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is the transient toast shown after a submission resolves.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Predictor is the external classification service.
type Predictor interface {
	Predict(ctx context.Context, profile assessment.HealthProfile) (assessment.PredictionResult, error)
}

// Outcome describes one resolved submission, applied or not.
type Outcome struct {
	SessionID string
	Profile   assessment.HealthProfile
	Result    assessment.PredictionResult
	Err       error
	Duration  time.Duration
	Abandoned bool
}

type Listener func(Outcome)

type Option func(*Session)

// WithTimeout bounds each submission. Zero means no deadline beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithListener registers a callback invoked after every submission resolves.
func WithListener(l Listener) Option {
	return func(s *Session) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// Session owns the form state and the submission state machine for one
// visitor. All methods are safe for concurrent use.
type Session struct {
	id        string
	predictor Predictor
	timeout   time.Duration
	listeners []Listener

	mu           sync.Mutex
	profile      assessment.HealthProfile
	status       Status
	result       *assessment.PredictionResult
	notification *Notification
	generation   uint64
	cancel       context.CancelFunc
	lastSeen     time.Time
}

func New(id string, predictor Predictor, opts ...Option) *Session {
	s := &Session{
		id:        id,
		predictor: predictor,
		profile:   assessment.DefaultProfile(),
		status:    StatusIdle,
		lastSeen:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Profile returns a copy of the current form state.
func (s *Session) Profile() assessment.HealthProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Update sets one field. An in-flight request keeps the snapshot it was
// started with.
func (s *Session) Update(f assessment.Field, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.profile.Set(f, value)
}

// UpdateAll applies several fields at once. Either every value is accepted
// or the profile is left unchanged.
func (s *Session) UpdateAll(values map[assessment.Field]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	p := s.profile
	for f, value := range values {
		if err := p.Set(f, value); err != nil {
			return err
		}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.profile = p
	return nil
}

// Reset restores the default profile, clears the result and notification,
// and abandons any in-flight request.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandonLocked()
	s.profile = assessment.DefaultProfile()
	s.result = nil
	s.notification = nil
	s.status = StatusIdle
	s.lastSeen = time.Now()
}

// Close abandons any in-flight request without touching the form state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandonLocked()
	if s.status == StatusSubmitting {
		s.status = StatusIdle
	}
}

func (s *Session) abandonLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Submit sends the current profile to the predictor and blocks until the
// request resolves. A newer Submit or a Reset supersedes it, in which case
// ErrAbandoned is returned and the session state is left to the newer call.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	s.abandonLocked()
	gen := s.generation
	s.result = nil
	s.notification = nil
	s.status = StatusSubmitting
	s.lastSeen = time.Now()
	profile := s.profile

	var reqCtx context.Context
	var cancel context.CancelFunc
	if s.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}
	s.cancel = cancel
	s.mu.Unlock()

	start := time.Now()
	result, err := s.predictor.Predict(reqCtx, profile)
	cancel()

	outcome := Outcome{
		SessionID: s.id,
		Profile:   profile,
		Result:    result,
		Err:       err,
		Duration:  time.Since(start),
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		outcome.Abandoned = true
		s.notify(outcome)
		logger.Log.WithField("session_id", s.id).Debug("Discarded superseded prediction")
		return ErrAbandoned
	}

	s.cancel = nil
	if err != nil {
		s.status = StatusFailed
		s.notification = &Notification{Kind: NotifyError, Message: MessageFailure}
	} else {
		r := result
		s.result = &r
		s.status = StatusSucceeded
		s.notification = &Notification{Kind: NotifySuccess, Message: MessageSuccess}
	}
	s.mu.Unlock()

	s.notify(outcome)
	if err != nil {
		logger.Log.WithError(err).WithField("session_id", s.id).Warn("Assessment submission failed")
	}
	return err
}

func (s *Session) notify(o Outcome) {
	for _, l := range s.listeners {
		l(o)
	}
}

// DismissNotification clears the toast once it has been shown.
func (s *Session) DismissNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notification = nil
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	ID           string                       `json:"id"`
	Status       Status                       `json:"status"`
	Profile      assessment.HealthProfile     `json:"profile"`
	Derived      assessment.Derived           `json:"derived"`
	Result       *assessment.PredictionResult `json:"result,omitempty"`
	Presentation *assessment.Presentation     `json:"presentation,omitempty"`
	Notification *Notification                `json:"notification,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ID:      s.id,
		Status:  s.status,
		Profile: s.profile,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	if s.notification != nil {
		n := *s.notification
		snap.Notification = &n
	}
	s.mu.Unlock()

	snap.Derived = assessment.Derive(snap.Profile)
	if snap.Result != nil {
		p := assessment.Present(*snap.Result)
		snap.Presentation = &p
	}
	return snap
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
