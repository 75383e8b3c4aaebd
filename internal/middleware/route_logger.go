package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RouteLogger emits one structured line per completed request: method, path,
// status, duration and the trace ID. A handler error escalates the line to
// error level even though the status is mapped later by the error handler.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		evt := log.Info()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			evt = log.Error().Err(err)
		}
		evt.
			Str("trace_id", GetTraceID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
		return err
	}
}
