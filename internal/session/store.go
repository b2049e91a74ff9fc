// Package session keeps the in-progress dialog state of each chat identity.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	state     State
	updatedAt time.Time
}

// Store maps a chat identity to its dialog state. Entries untouched for
// longer than the TTL are treated as absent and removed by Sweep. Writers are
// expected to be one per identity; the mutex only protects the map itself.
type Store struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store. A ttl of zero disables expiry.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the state for identity, if a live session exists.
func (s *Store) Get(identity string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[identity]
	if !ok {
		return nil, false
	}
	if s.expired(e) {
		delete(s.sessions, identity)
		return nil, false
	}
	return e.state, true
}

// Put creates or replaces the session for identity.
func (s *Store) Put(identity string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[identity] = entry{state: state, updatedAt: s.now()}
}

// Delete removes the session for identity. Deleting an absent session is a no-op.
func (s *Store) Delete(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, identity)
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.updatedAt) > s.ttl
}
