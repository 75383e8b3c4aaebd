// Package store resolves snapshot loads and saves across three tiers: the
// remote document store when configured and reachable, the local cache, and
// the seeded default dataset.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// Gateway owns the tier fallback policy. Remote is nil when the document
// store is not configured; the gateway then runs cache-first with seeded
// defaults behind it.
type Gateway struct {
	Remote RemoteStore
	Cache  *Cache

	now func() time.Time
}

func NewGateway(remote RemoteStore, cache *Cache) *Gateway {
	return &Gateway{Remote: remote, Cache: cache, now: time.Now}
}

// Load resolves the snapshot for userID:
//   - remote document exists → returned verbatim
//   - remote reachable, no document → seeded default, persisted remotely
//   - remote unreachable or not configured → local cache entry
//   - no cache entry → seeded default (not persisted until the first save)
func (g *Gateway) Load(ctx context.Context, userID string) (*domain.Snapshot, error) {
	if userID == "" {
		return nil, errors.New("no user id provided")
	}

	if g.Remote != nil {
		snap, err := g.Remote.Load(ctx, userID)
		switch {
		case err == nil:
			return snap, nil
		case errors.Is(err, ErrNotFound):
			seeded := domain.SeedSnapshot(userID, g.now())
			if err := g.Remote.Save(ctx, userID, seeded); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("seeding remote snapshot failed")
			}
			return seeded, nil
		default:
			log.Warn().Err(err).Str("user_id", userID).Msg("remote load failed, falling back to local cache")
		}
	}

	snap, err := g.Cache.GetSnapshot(ctx, userID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Str("user_id", userID).Msg("local cache read failed, falling back to seeded defaults")
	}
	return domain.SeedSnapshot(userID, g.now()), nil
}

// Save writes the snapshot to the local cache synchronously; a cache fault
// fails the call, since losing the cache loses the offline guarantee. The
// remote merge-write is attempted afterwards and a failure there is logged
// and swallowed: it must never block the local save.
func (g *Gateway) Save(ctx context.Context, userID string, snap *domain.Snapshot) error {
	if userID == "" {
		return errors.New("no user id provided")
	}

	if err := g.Cache.SetSnapshot(ctx, userID, snap); err != nil {
		return fmt.Errorf("local cache write: %w", err)
	}

	if g.Remote != nil {
		if err := g.Remote.Save(ctx, userID, snap); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("remote save failed; local cache remains source of truth")
		}
	}
	return nil
}
