// http/middleware.go
package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func (s *Server) requireReady(c *fiber.Ctx) error {
	if !s.backend.Ready() || s.backend.Store() == nil {
		return writeError(c, fiber.StatusServiceUnavailable, "Database not connected")
	}
	return c.Next()
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		// Render now so the logged status is the one the client sees.
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	var ev *zerolog.Event
	switch {
	case status >= fiber.StatusInternalServerError:
		ev = s.log.Error()
	case status >= fiber.StatusBadRequest:
		ev = s.log.Warn()
	default:
		ev = s.log.Info()
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("request")
	return nil
}
