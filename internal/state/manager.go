// Package state holds the in-memory snapshot for each active session. It is
// the analog of the front end's working state: loads populate it, mutations
// go through it, the sync scheduler reads it at fire time.
package state

import (
	"errors"
	"sync"

	"fintrack-backend/internal/domain"
)

// ErrNotLoaded is returned when a mutation arrives before the session's
// snapshot has been loaded.
var ErrNotLoaded = errors.New("session state not loaded")

type session struct {
	mu   sync.Mutex
	snap *domain.Snapshot
}

// Manager maps user ids to their live session state. Single logical writer
// per session: the per-session mutex serializes mutations with scheduler
// reads.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*session)}
}

func (m *Manager) get(userID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

// Put installs the loaded snapshot for userID, replacing any previous state.
func (m *Manager) Put(userID string, snap *domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &session{snap: snap}
}

// Loaded reports whether userID has live state.
func (m *Manager) Loaded(userID string) bool {
	return m.get(userID) != nil
}

// Current returns a copy of the live snapshot, or nil when none is loaded.
// The copy keeps scheduler writes independent of later mutations.
func (m *Manager) Current(userID string) *domain.Snapshot {
	s := m.get(userID)
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Mutate applies fn to the live snapshot under the session lock and returns
// a copy of the result. fn must either fully apply or leave the snapshot
// unchanged and return an error.
func (m *Manager) Mutate(userID string, fn func(*domain.Snapshot) error) (*domain.Snapshot, error) {
	s := m.get(userID)
	if s == nil {
		return nil, ErrNotLoaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.snap); err != nil {
		return nil, err
	}
	return s.snap.Clone(), nil
}

// Drop discards the session state. Cached and remote data stay untouched, so
// a returning session reloads prior data.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
