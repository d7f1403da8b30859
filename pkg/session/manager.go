package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
)

// Manager keeps live sessions in memory and expires idle ones.
type Manager struct {
	predictor Predictor
	ttl       time.Duration
	opts      []Option

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(predictor Predictor, ttl time.Duration, opts ...Option) *Manager {
	return &Manager{
		predictor: predictor,
		ttl:       ttl,
		opts:      opts,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a fresh session with the default profile.
func (m *Manager) Create() *Session {
	s := New(uuid.New().String(), m.predictor, m.opts...)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session and marks it as recently used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(time.Now())
	return s, true
}

// Delete drops the session and abandons its in-flight request, if any.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were dropped. Sessions with a request in flight are kept.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.Status() == StatusSubmitting {
			continue
		}
		if now.Sub(s.idleSince()) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(now); n > 0 {
				logger.Log.WithField("expired", n).Debug("Expired idle sessions")
			}
		}
	}
}
