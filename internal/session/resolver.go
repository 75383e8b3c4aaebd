// Package session determines the active identity and which storage tier is
// authoritative for it: a remote identity when the provider is configured and
// has authenticated the user, or a locally persisted guest identity.
package session

import (
	"context"
	"errors"

	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/store"

	"github.com/google/uuid"
)

// AuthorityTier names the storage source treated as ground truth for a
// session.
type AuthorityTier string

const (
	TierNone       AuthorityTier = "none"
	TierRemote     AuthorityTier = "remote"
	TierLocalGuest AuthorityTier = "local_guest"
)

// Resolver maps the provider/session situation to (User, AuthorityTier).
// Provider is nil when no identity provider is configured; the resolver then
// falls back to a guest session instead of failing.
type Resolver struct {
	Provider IdentityProvider
	Cache    *store.Cache
}

// Resolve returns the active identity and its authority tier. current is the
// already-authenticated session user, if any. With no provider configured a
// guest identity is synthesized (once) and LocalGuest is authoritative.
func (r *Resolver) Resolve(ctx context.Context, current *domain.User) (*domain.User, AuthorityTier, error) {
	if r.Provider == nil {
		guest, err := r.Guest(ctx)
		if err != nil {
			return nil, TierNone, err
		}
		return guest, TierLocalGuest, nil
	}
	if current != nil {
		return current, TierRemote, nil
	}
	return nil, TierNone, nil
}

// Register creates a remote identity. The username must be non-empty;
// provider rejections come back as *AuthError.
func (r *Resolver) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if r.Provider == nil {
		return nil, ErrProviderNotConfigured
	}
	return r.Provider.Register(ctx, email, password, username)
}

// Login authenticates against the remote identity provider.
func (r *Resolver) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if r.Provider == nil {
		return nil, ErrProviderNotConfigured
	}
	return r.Provider.Login(ctx, email, password)
}

// Guest returns the locally persisted guest identity, creating and storing
// it on first use so a returning guest reloads prior local data.
func (r *Resolver) Guest(ctx context.Context) (*domain.User, error) {
	guest, err := r.Cache.GetGuestUser(ctx)
	if err == nil {
		return guest, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	guest = &domain.User{
		ID:       uuid.New().String(),
		Username: "DemoUser",
		Email:    "demo@example.com",
	}
	stored, err := r.Cache.SetGuestUser(ctx, guest)
	if err != nil {
		return nil, err
	}
	if !stored {
		// A concurrent first visit won the write. Use its identity.
		return r.Cache.GetGuestUser(ctx)
	}
	return guest, nil
}
