package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Cache{Rdb: rdb}, mr
}

func newTestRemote(t *testing.T) *GormRemote {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&SnapshotDocument{}))
	return &GormRemote{DB: db}
}

// failingRemote simulates an unreachable document store.
type failingRemote struct{}

func (failingRemote) Load(ctx context.Context, userID string) (*domain.Snapshot, error) {
	return nil, errors.New("connection refused")
}

func (failingRemote) Save(ctx context.Context, userID string, snap *domain.Snapshot) error {
	return errors.New("connection refused")
}

func TestLoad_NoRemoteNoCache_ReturnsSeededDefaults(t *testing.T) {
	cache, mr := newTestCache(t)
	g := NewGateway(nil, cache)

	snap, err := g.Load(context.Background(), "guest-1")
	require.NoError(t, err)
	require.Len(t, snap.Accounts, 3)
	for _, a := range snap.Accounts {
		assert.Equal(t, "guest-1", a.UserID)
	}
	for _, tx := range snap.Transactions {
		assert.Equal(t, "guest-1", tx.UserID)
	}
	for _, h := range snap.Investments {
		assert.Equal(t, "guest-1", h.UserID)
	}

	// Seeded fallback is not persisted until the first save.
	assert.False(t, mr.Exists(SnapshotKey("guest-1")))
}

func TestLoad_NoRemote_CacheHit(t *testing.T) {
	cache, _ := newTestCache(t)
	g := NewGateway(nil, cache)
	ctx := context.Background()

	saved := domain.SeedSnapshot("u1", time.Now())
	saved.Accounts[0].Balance = decimal.NewFromInt(999)
	require.NoError(t, cache.SetSnapshot(ctx, "u1", saved))

	snap, err := g.Load(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, snap.Accounts[0].Balance.Equal(decimal.NewFromInt(999)))
}

func TestLoad_RemoteMissingDocument_SeedsAndPersists(t *testing.T) {
	cache, _ := newTestCache(t)
	remote := newTestRemote(t)
	g := NewGateway(remote, cache)
	ctx := context.Background()

	snap, err := g.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, snap.Accounts, 3)

	// Second load must come back from the remote document, not reseed.
	again, err := remote.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, again.Accounts, 3)
	assert.Equal(t, "u1", again.Accounts[0].UserID)
	assert.True(t, again.Accounts[0].Balance.Equal(decimal.NewFromInt(150000)))
}

func TestLoad_RemoteUnreachable_FallsBackToCache(t *testing.T) {
	cache, _ := newTestCache(t)
	g := NewGateway(failingRemote{}, cache)
	ctx := context.Background()

	saved := domain.SeedSnapshot("u1", time.Now())
	saved.Accounts[0].Balance = decimal.NewFromInt(123)
	require.NoError(t, cache.SetSnapshot(ctx, "u1", saved))

	snap, err := g.Load(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, snap.Accounts[0].Balance.Equal(decimal.NewFromInt(123)))
}

func TestSave_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	remote := newTestRemote(t)
	g := NewGateway(remote, cache)
	ctx := context.Background()

	snap := domain.SeedSnapshot("u1", time.Now())
	snap.Accounts[1].Balance = decimal.NewFromInt(4200)
	require.NoError(t, g.Save(ctx, "u1", snap))

	loaded, err := g.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded.Accounts, 3)
	assert.True(t, loaded.Accounts[1].Balance.Equal(decimal.NewFromInt(4200)))
	assert.Len(t, loaded.Transactions, len(snap.Transactions))
	assert.Len(t, loaded.Investments, len(snap.Investments))

	// Saving what was just loaded changes nothing.
	require.NoError(t, g.Save(ctx, "u1", loaded))
	reloaded, err := g.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, loaded, reloaded)
}

func TestSave_RemoteFailureIsSwallowed(t *testing.T) {
	cache, mr := newTestCache(t)
	g := NewGateway(failingRemote{}, cache)
	ctx := context.Background()

	snap := domain.SeedSnapshot("u1", time.Now())
	require.NoError(t, g.Save(ctx, "u1", snap))
	assert.True(t, mr.Exists(SnapshotKey("u1")))
}

func TestSave_LocalCacheFailureIsFatal(t *testing.T) {
	cache, mr := newTestCache(t)
	g := NewGateway(nil, cache)

	mr.Close()
	err := g.Save(context.Background(), "u1", domain.SeedSnapshot("u1", time.Now()))
	assert.Error(t, err)
}

func TestLoad_EmptyUserID(t *testing.T) {
	cache, _ := newTestCache(t)
	g := NewGateway(nil, cache)
	_, err := g.Load(context.Background(), "")
	assert.Error(t, err)
}
