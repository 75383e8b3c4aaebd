package snapshot

import (
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles snapshot endpoints.
type Handlers struct {
	Service *Service
}

// Get GET /api/v1/snapshot: load the session's financial data.
func (h *Handlers) Get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	snap, err := h.Service.Ensure(c.Context(), user.ID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Snapshot loaded", fiber.Map{
		"accounts":     snap.Accounts,
		"transactions": snap.Transactions,
		"investments":  snap.Investments,
		"tier":         middleware.GetSessionTier(c),
	})
}
