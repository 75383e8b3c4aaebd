package session

import (
	"context"
	"testing"

	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *store.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &store.Cache{Rdb: rdb}
}

func TestResolve_NoProvider_SynthesizesGuest(t *testing.T) {
	r := &Resolver{Cache: newTestCache(t)}
	ctx := context.Background()

	guest, tier, err := r.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, TierLocalGuest, tier)
	require.NotNil(t, guest)
	assert.NotEmpty(t, guest.ID)
	assert.Equal(t, "DemoUser", guest.Username)

	// The guest identity is generated once and persisted.
	again, tier, err := r.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, TierLocalGuest, tier)
	assert.Equal(t, guest.ID, again.ID)
}

func TestResolve_ProviderConfigured(t *testing.T) {
	r := &Resolver{Provider: newTestProvider(t), Cache: newTestCache(t)}
	ctx := context.Background()

	// no authenticated session yet
	u, tier, err := r.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, TierNone, tier)

	current := &domain.User{ID: "u1", Username: "Amy", Email: "amy@example.com"}
	u, tier, err = r.Resolve(ctx, current)
	require.NoError(t, err)
	assert.Equal(t, TierRemote, tier)
	assert.Equal(t, current, u)
}

func TestRegister_EmptyUsername(t *testing.T) {
	r := &Resolver{Provider: newTestProvider(t), Cache: newTestCache(t)}
	_, err := r.Register(context.Background(), "amy@example.com", "secret6", "")
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestRegisterLogin_NoProvider(t *testing.T) {
	r := &Resolver{Cache: newTestCache(t)}
	_, err := r.Register(context.Background(), "amy@example.com", "secret6", "Amy")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
	_, err = r.Login(context.Background(), "amy@example.com", "secret6")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}
