package middleware

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "http").Logger()

const requestIDHeader = "X-Request-ID"

// RequestID assigns a request id when the client did not send one and
// echoes it on the response so support can correlate logs with complaints.
func RequestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals("requestId", id)
	c.Set(requestIDHeader, id)
	return c.Next()
}

// RequestLogger writes one structured line per request.
func RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	entry := logger.Info()
	if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
		entry = logger.Error()
	}
	reqID, _ := c.Locals("requestId").(string)
	entry.
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("duration", time.Since(start)).
		Str("requestId", reqID).
		Msg("request")
	return err
}
