// Package syncsched coalesces bursts of in-memory mutations into a single
// persisted write after a quiet period. Each user session holds at most one
// pending write; a new schedule cancels the previous one.
package syncsched

import (
	"context"
	"sync"
	"time"

	"fintrack-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// DefaultQuietPeriod matches the UI debounce interval.
const DefaultQuietPeriod = 1000 * time.Millisecond

// Saver persists a snapshot. In production this is the persistence gateway.
type Saver interface {
	Save(ctx context.Context, userID string, snap *domain.Snapshot) error
}

type pendingWrite struct {
	timer   *time.Timer
	produce func() *domain.Snapshot
}

// Scheduler debounces saves per user. Schedule is a no-op until MarkLoaded
// has been called for the user: no save may race the initial load.
type Scheduler struct {
	saver Saver
	quiet time.Duration

	mu      sync.Mutex
	pending map[string]*pendingWrite
	loaded  map[string]bool
	closed  bool
}

func New(saver Saver, quiet time.Duration) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Scheduler{
		saver:   saver,
		quiet:   quiet,
		pending: make(map[string]*pendingWrite),
		loaded:  make(map[string]bool),
	}
}

// MarkLoaded opens the gate for userID once the initial load has completed.
func (s *Scheduler) MarkLoaded(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[userID] = true
}

// Schedule restarts the quiet-period timer for userID. Only the most recent
// schedule fires; produce is called at fire time so the write carries the
// latest combined state. Returns false when the schedule was dropped
// (initial load not finished, or scheduler closed).
func (s *Scheduler) Schedule(userID string, produce func() *domain.Snapshot) bool {
	s.mu.Lock()
	if s.closed || !s.loaded[userID] {
		s.mu.Unlock()
		return false
	}
	if prev, ok := s.pending[userID]; ok {
		prev.timer.Stop()
	}
	pw := &pendingWrite{produce: produce}
	pw.timer = time.AfterFunc(s.quiet, func() {
		s.fire(userID, pw)
	})
	s.pending[userID] = pw
	s.mu.Unlock()
	return true
}

func (s *Scheduler) fire(userID string, pw *pendingWrite) {
	s.mu.Lock()
	if s.closed || s.pending[userID] != pw {
		// superseded or torn down after this timer was armed
		s.mu.Unlock()
		return
	}
	delete(s.pending, userID)
	s.mu.Unlock()

	s.save(userID, pw.produce)
}

func (s *Scheduler) save(userID string, produce func() *domain.Snapshot) {
	snap := produce()
	if snap == nil {
		return
	}
	if err := s.saver.Save(context.Background(), userID, snap); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("debounced save failed")
	}
}

// Cancel drops any pending write for userID and closes its gate. Must be
// called on session end so no snapshot is written for a user who has since
// logged out.
func (s *Scheduler) Cancel(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.pending[userID]; ok {
		pw.timer.Stop()
		delete(s.pending, userID)
	}
	delete(s.loaded, userID)
}

// Close flushes every pending write synchronously and rejects further
// scheduling. Called on shutdown so in-flight mutations are not lost.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	flush := make(map[string]func() *domain.Snapshot, len(s.pending))
	for id, pw := range s.pending {
		pw.timer.Stop()
		flush[id] = pw.produce
		delete(s.pending, id)
	}
	s.mu.Unlock()

	for id, produce := range flush {
		s.save(id, produce)
	}
}
