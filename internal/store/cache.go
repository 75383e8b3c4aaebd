package store

import (
	"context"
	"encoding/json"
	"fmt"

	"fintrack-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Key layout of the local cache collaborator. The guest user record lives
// beside the per-user snapshot entries.
const (
	snapshotKeyPrefix = "fintrack_data_"
	guestUserKey      = "fintrack_demo_user"
)

// Cache is the local durable cache for snapshots and the guest identity.
// It is the offline source of truth, so writes are synchronous and a write
// fault is reported to the caller instead of being swallowed.
type Cache struct {
	Rdb *redis.Client
}

// SnapshotKey returns the cache key for a user's snapshot.
func SnapshotKey(userID string) string {
	return snapshotKeyPrefix + userID
}

// GetSnapshot returns the cached snapshot for userID, or ErrNotFound.
func (c *Cache) GetSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	b, err := c.Rdb.Get(ctx, SnapshotKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snap, nil
}

// SetSnapshot writes the snapshot for userID. No TTL: cached data must
// survive until the next session.
func (c *Cache) SetSnapshot(ctx context.Context, userID string, snap *domain.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.Rdb.Set(ctx, SnapshotKey(userID), b, 0).Err()
}

// GetGuestUser returns the persisted guest identity, or ErrNotFound when no
// guest session has ever been created.
func (c *Cache) GetGuestUser(ctx context.Context) (*domain.User, error) {
	b, err := c.Rdb.Get(ctx, guestUserKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("decode guest user: %w", err)
	}
	return &u, nil
}

// SetGuestUser persists the guest identity so a returning guest session
// resolves to the same id (and therefore the same snapshot entry). The write
// is first-one-wins: concurrent first visits must not mint competing
// identities, so an already stored guest is never overwritten. The returned
// bool reports whether this call's identity was the one stored.
func (c *Cache) SetGuestUser(ctx context.Context, u *domain.User) (bool, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("encode guest user: %w", err)
	}
	return c.Rdb.SetNX(ctx, guestUserKey, b, 0).Result()
}
