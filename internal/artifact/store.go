// Package artifact stores per-session audio artifacts in memory. The service
// guarantees at most one currently-valid artifact per session: saving a new
// one atomically supersedes whatever the session held before, so stale
// references resolve to not-found rather than old audio.
package artifact

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no artifact exists for the given id, either
// because it never existed or because a newer artifact superseded it.
var ErrNotFound = errors.New("artifact not found")

// Store keeps artifacts keyed both ways: session id -> current artifact id
// for replacement, artifact id -> bytes for retrieval. Data is copied on save
// and on get so callers cannot mutate internal buffers.
type Store struct {
	mu        sync.RWMutex
	bySession map[string]string
	data      map[string][]byte
}

// NewStore returns an empty in-memory artifact store.
func NewStore() *Store {
	return &Store{
		bySession: make(map[string]string),
		data:      make(map[string][]byte),
	}
}

// Replace stores the artifact bytes under artifactID and invalidates any
// prior artifact held for the session.
func (s *Store) Replace(sessionID, artifactID string, audio []byte) {
	cp := make([]byte, len(audio))
	copy(cp, audio)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.bySession[sessionID]; ok {
		delete(s.data, prev)
	}
	s.bySession[sessionID] = artifactID
	s.data[artifactID] = cp
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (s *Store) Get(artifactID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	audio, ok := s.data[artifactID]
	if !ok {
		return nil, ErrNotFound
	}

	cp := make([]byte, len(audio))
	copy(cp, audio)
	return cp, nil
}

// Remove deletes the session's current artifact if one exists.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.bySession[sessionID]; ok {
		delete(s.data, id)
		delete(s.bySession, sessionID)
	}
}
