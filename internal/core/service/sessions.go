package service

import (
	"sync"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
)

// A SessionStore keeps in-flight checkout sessions in memory. Sessions are
// transient and scoped to a checkout attempt, so process memory is their
// system of record.
//
// All session mutation goes through Update: the state check and the
// transition happen under one lock, atomically with the expiry sweep, so
// two concurrent callers can never both win the same transition.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.CheckoutSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*domain.CheckoutSession)}
}

func (s *SessionStore) Put(cs *domain.CheckoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[cs.ID] = cs
}

func (s *SessionStore) Get(id string) (*domain.CheckoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.sessions[id]
	return cs, ok
}

// Update runs fn on the session while holding the store lock. fn must not
// do blocking I/O; side effects belong after Update returns.
func (s *SessionStore) Update(
	id string, fn func(*domain.CheckoutSession) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	return fn(cs)
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// ExpireStale fails sessions stuck in PAYMENT_SUBMITTED longer than
// timeout and returns how many were expired. A payment with no
// confirmation callback must not stay pending forever.
func (s *SessionStore) ExpireStale(now time.Time, timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, cs := range s.sessions {
		if cs.State != domain.StatePaymentSubmitted {
			continue
		}
		if now.Sub(cs.UpdatedAt) < timeout {
			continue
		}
		cs.Fail("payment unconfirmed before deadline", now)
		n++
	}
	return n
}
