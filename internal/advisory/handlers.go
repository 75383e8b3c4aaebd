package advisory

import (
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/pkg/response"
	"fintrack-backend/internal/snapshot"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the advice endpoint.
type Handlers struct {
	Snapshots *snapshot.Service
	Advisor   *Client
}

// Advice GET /api/v1/advice: spending analysis over recent transactions.
// Always 200: an unconfigured or failing provider yields a fallback string.
func (h *Handlers) Advice(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	snap, err := h.Snapshots.Ensure(c.Context(), user.ID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	advice := h.Advisor.GetAdvice(c.Context(), snap.Transactions)
	return response.Success(c, "Advice generated", fiber.Map{"advice": advice})
}
