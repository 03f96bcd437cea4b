package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// healthTimeout bounds the database ping made by the health endpoint.
const healthTimeout = 2 * time.Second

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RegisterHealth mounts GET /api/health. When db is non-nil the response carries
// "db": "ok" or "down", and a failed ping turns the status unhealthy with a 503.
func RegisterHealth(router fiber.Router, appName, version string, db HealthChecker) {
	router.Get("/api/health", func(c fiber.Ctx) error {
		body := fiber.Map{
			"status":  "healthy",
			"app":     appName,
			"version": version,
		}
		if db == nil {
			return c.JSON(body)
		}

		ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			body["status"] = "unhealthy"
			body["db"] = "down"
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		body["db"] = "ok"
		return c.JSON(body)
	})
}
