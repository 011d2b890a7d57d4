package handler

import (
	"fleet-reconciliation/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RayIDHeader carries the request ID in and out.
const RayIDHeader = "X-Ray-ID"

// NewApp builds the Fiber application with request tracing and logging.
func NewApp(h *Handler, logg *zap.Logger) *fiber.App {
	if logg == nil {
		logg = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID must be first so every later log line carries it
	app.Use(RayID())
	app.Use(RequestLogger(logg))

	h.RegisterRoutes(app)
	return app
}

// RayID assigns each request an ID, reusing an incoming X-Ray-ID header.
func RayID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RayIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(logger.RayIDKey, id)
		c.Set(RayIDHeader, id)
		return c.Next()
	}
}

// RequestLogger logs the start of each request and any handler error.
func RequestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	}
}
