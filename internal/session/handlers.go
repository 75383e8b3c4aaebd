package session

import (
	"context"
	"errors"

	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/pkg/response"
	"fintrack-backend/internal/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles the auth endpoints. Snapshots is needed at logout to
// cancel pending syncs and drop in-memory state for the user.
type Handlers struct {
	Resolver  *Resolver
	Snapshots *snapshot.Service
	Rdb       *redis.Client
	Config    middleware.SessionConfig
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// statusFor maps auth failures to HTTP statuses; the body always carries the
// localized message.
func statusFor(err error) int {
	if errors.Is(err, ErrUsernameRequired) {
		return fiber.StatusBadRequest
	}
	if errors.Is(err, ErrProviderNotConfigured) {
		return fiber.StatusServiceUnavailable
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		switch ae.Code {
		case CodeInvalidCredential:
			return fiber.StatusUnauthorized
		case CodeTooManyRequests:
			return fiber.StatusTooManyRequests
		case CodeNetworkFailure, CodeInvalidAPIKey:
			return fiber.StatusBadGateway
		default:
			return fiber.StatusBadRequest
		}
	}
	return fiber.StatusInternalServerError
}

func (h *Handlers) startSession(c *fiber.Ctx, user *domain.User, tier AuthorityTier) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, user, string(tier))

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
}

// Register POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, UserMessage(ErrUsernameRequired), fiber.StatusBadRequest, nil)
	}
	user, err := h.Resolver.Register(c.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		return response.Error(c, UserMessage(err), statusFor(err), fiber.Map{"code": errorCode(err)})
	}
	h.startSession(c, user, TierRemote)
	return response.SuccessCreated(c, "Registration successful", fiber.Map{"user": user, "tier": TierRemote})
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return response.Error(c, UserMessage(authErr(CodeInvalidCredential)), fiber.StatusBadRequest, nil)
	}
	user, err := h.Resolver.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, UserMessage(err), statusFor(err), fiber.Map{"code": errorCode(err)})
	}
	h.startSession(c, user, TierRemote)
	return response.Success(c, "Login successful", fiber.Map{"user": user, "tier": TierRemote})
}

// Guest POST /api/v1/auth/guest: start an offline session backed by the
// local cache. The guest identity is stable across visits.
func (h *Handlers) Guest(c *fiber.Ctx) error {
	guest, err := h.Resolver.Guest(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	h.startSession(c, guest, TierLocalGuest)
	return response.Success(c, "Guest session started", fiber.Map{"user": guest, "tier": TierLocalGuest})
}

// Me GET /api/v1/auth/me: report the active identity. When no session user
// exists the resolver decides what the request gets: nothing when an identity
// provider is configured, the persistent guest identity otherwise (a new
// session is started for it).
func (h *Handlers) Me(c *fiber.Ctx) error {
	current := middleware.GetUser(c)
	if current != nil {
		return response.Success(c, "Authenticated", fiber.Map{
			"user": current,
			"tier": middleware.GetSessionTier(c),
		})
	}

	user, tier, err := h.Resolver.Resolve(c.Context(), nil)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	if user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	h.startSession(c, user, tier)
	return response.Success(c, "Authenticated", fiber.Map{
		"user": user,
		"tier": tier,
	})
}

// Logout DELETE /api/v1/auth/logout: ends the session and discards pending
// syncs and in-memory state only; cached financial data is kept so a
// returning guest session reloads prior data.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if user := middleware.GetUser(c); user != nil {
		h.Snapshots.Teardown(user.ID)
	}
	if sessionID := middleware.GetSessionID(c); sessionID != "" {
		_ = h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil)
}

func errorCode(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
