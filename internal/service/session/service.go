package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopvoice/backend/internal/model/search"
	searchsvc "github.com/shopvoice/backend/internal/service/search"
)

// Service owns the mapping from session id to conversational state.
//
// The registry map is guarded by s.mu; each session additionally carries its
// own mutex so two interleaved turns for the same session serialize their
// read-merge-write without blocking turns for other sessions. Callers must
// not invoke external collaborators while holding either lock, which the
// Service enforces by never exposing the locks: every method acquires and
// releases internally.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*state
}

type state struct {
	mu      sync.Mutex
	id      string
	created time.Time
	history []search.Turn
	filters search.Filter
}

// NewService bootstraps the in-memory session registry.
func NewService() *Service {
	return &Service{sessions: make(map[string]*state)}
}

// Resolve returns the session for candidateID, creating a fresh one when the
// id is empty or unknown. Absence is never an error. Two concurrent resolves
// racing on the same absent id may each receive a distinct new session; the
// divergence is accepted.
func (s *Service) Resolve(candidateID string) search.Session {
	if candidateID != "" {
		s.mu.RLock()
		st, ok := s.sessions[candidateID]
		s.mu.RUnlock()
		if ok {
			return st.snapshot()
		}
	}

	st := &state{
		id:      uuid.NewString(),
		created: time.Now().UTC(),
		history: make([]search.Turn, 0, 8),
	}

	s.mu.Lock()
	s.sessions[st.id] = st
	s.mu.Unlock()

	return st.snapshot()
}

// Snapshot returns a copy of the session's accumulated filters.
func (s *Service) Snapshot(sessionID string) (search.Filter, bool) {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return search.Filter{}, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.filters.Clone(), true
}

// CommitTurn merges the extracted partial into the session's filters and
// appends the turn to history. The read-merge-write runs entirely under the
// session lock so concurrent turns cannot lose updates. Returns the merged
// filter set, or false if the session does not exist.
func (s *Service) CommitTurn(sessionID, query string, partial search.PartialFilter) (search.Filter, bool) {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return search.Filter{}, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	merged := searchsvc.Merge(st.filters, partial)
	st.filters = merged
	st.history = append(st.history, search.Turn{
		Query:   query,
		Partial: partial,
		Merged:  merged.Clone(),
	})

	return merged.Clone(), true
}

// Reset clears the session's filters and history together, preserving its
// identity. Resetting an unknown session is a no-op.
func (s *Service) Reset(sessionID string) {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	st.mu.Lock()
	st.filters = search.Filter{}
	st.history = st.history[:0]
	st.mu.Unlock()
}

func (st *state) snapshot() search.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	history := make([]search.Turn, len(st.history))
	copy(history, st.history)

	return search.Session{
		ID:          st.id,
		History:     history,
		LastFilters: st.filters.Clone(),
		CreatedAt:   st.created,
	}
}
