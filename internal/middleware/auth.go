package middleware

import (
	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user (remote or guest) is in the session.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user, nil when not signed in.
func GetUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(userLocal).(*domain.User)
	return u
}
