// Package snapshot ties a session's in-memory state to the persistence
// gateway: load-on-first-use, mutate through the state registry, persist via
// the debounced scheduler.
package snapshot

import (
	"context"

	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/state"
	"fintrack-backend/internal/store"
	"fintrack-backend/internal/syncsched"
)

// Service is shared by every handler that touches financial data.
type Service struct {
	Gateway *store.Gateway
	State   *state.Manager
	Sched   *syncsched.Scheduler
}

// Ensure returns the session's snapshot, loading it through the gateway on
// first use. The scheduler gate opens only after the load completes, so no
// save can race the initial load.
func (s *Service) Ensure(ctx context.Context, userID string) (*domain.Snapshot, error) {
	if snap := s.State.Current(userID); snap != nil {
		return snap, nil
	}
	snap, err := s.Gateway.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.State.Put(userID, snap)
	s.Sched.MarkLoaded(userID)
	return s.State.Current(userID), nil
}

// Mutate applies fn to the live snapshot and schedules a debounced save of
// whatever the state holds when the quiet period ends.
func (s *Service) Mutate(ctx context.Context, userID string, fn func(*domain.Snapshot) error) (*domain.Snapshot, error) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	snap, err := s.State.Mutate(userID, fn)
	if err != nil {
		return nil, err
	}
	s.ScheduleSave(userID)
	return snap, nil
}

// ScheduleSave arms the debounce timer; the write reads the state registry
// at fire time so bursts persist the latest combined snapshot.
func (s *Service) ScheduleSave(userID string) {
	s.Sched.Schedule(userID, func() *domain.Snapshot {
		return s.State.Current(userID)
	})
}

// Teardown drops the session: pending writes are cancelled and the in-memory
// state discarded. Cached and remote data survive for the next session.
func (s *Service) Teardown(userID string) {
	s.Sched.Cancel(userID)
	s.State.Drop(userID)
}
