package health

import (
	"context"
	"time"

	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const serviceName = "fintrack-api"

// Handlers serves operational status endpoints.
type Handlers struct {
	Rdb            *redis.Client
	DB             DBPinger
	HealthAdminKey string
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := CollectHealth(context.Background(), h.Rdb, h.DB)
	return c.JSON(fiber.Map{
		"service":      serviceName,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// Reset GET /health/reset?key=: clears the traffic counters. Guarded by the
// admin key so public traffic cannot zero the stats.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.HealthAdminKey == "" || c.Query("key") != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	ctx := context.Background()
	h.Rdb.Del(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyLastReq,
	)
	h.Rdb.Set(ctx, middleware.KeyStartTime, time.Now().UnixMilli(), 0)
	return response.Success(c, "Stats reset successfully", nil)
}
