package middleware

import (
	"context"
	"encoding/json"
	"time"

	"fintrack-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionConfig controls cookie flags for the Redis-backed session.
type SessionConfig struct {
	Secret            string
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName  = "fintrack.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour
)

// SessionData is what lives under the Redis session key. Tier records which
// storage source is authoritative for this session.
type SessionData struct {
	User *domain.User `json:"user,omitempty"`
	Tier string       `json:"tier,omitempty"`
}

// Session loads the session from Redis before the handler chain and persists
// it afterwards. Handlers read the user via GetUser and write it via
// SetSessionUser.
func Session(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)

		data := &SessionData{}
		if sessionID != "" {
			b, err := rdb.Get(context.Background(), SessionRedisPrefix+sessionID).Bytes()
			if err == nil {
				_ = json.Unmarshal(b, data)
			}
		}

		c.Locals("session_id", sessionID)
		c.Locals("session_data", data)
		if data.User != nil {
			c.Locals("user", data.User)
		}

		err := c.Next()
		if err != nil {
			return err
		}

		if sid, _ := c.Locals("session_id").(string); sid != "" {
			if updated, _ := c.Locals("session_data").(*SessionData); updated != nil {
				b, _ := json.Marshal(updated)
				rdb.Set(context.Background(), SessionRedisPrefix+sid, b, sessionMaxAge)
			}
		}
		return nil
	}
}

// GetSessionID returns the current session id, empty when no cookie was sent.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("session_id").(string)
	return sid
}

// SetSessionUser stores the resolved identity and its authority tier in the
// session. Call after login/register/guest, after RegenerateSessionID.
func SetSessionUser(c *fiber.Ctx, user *domain.User, tier string) {
	data, _ := c.Locals("session_data").(*SessionData)
	if data == nil {
		data = &SessionData{}
		c.Locals("session_data", data)
	}
	data.User = user
	data.Tier = tier
	c.Locals("user", user)
}

// GetSessionTier returns the authority tier stored at sign-in.
func GetSessionTier(c *fiber.Ctx) string {
	if data, _ := c.Locals("session_data").(*SessionData); data != nil {
		return data.Tier
	}
	return ""
}

// RegenerateSessionID issues a fresh session id for a new sign-in. The
// caller sets the cookie.
func RegenerateSessionID(c *fiber.Ctx) string {
	newID := uuid.New().String()
	c.Locals("session_id", newID)
	return newID
}

// DestroySession clears the in-memory session view and stops the middleware
// from re-persisting it. The caller removes the Redis key and the cookie.
func DestroySession(c *fiber.Ctx) {
	c.Locals("session_data", &SessionData{})
	c.Locals("session_id", "")
	c.Locals("user", nil)
}

// SessionCookieConfig returns the cookie options used for set and clear.
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := "Lax"
	if cfg.AllowCrossSiteDev {
		sameSite = "None"
	}
	return fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction && cfg.AllowCrossSiteDev,
		SameSite: sameSite,
	}
}
