package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-portal-api/internal/config"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// DatabaseHealth is the store section of the health payload.
type DatabaseHealth struct {
	Status string `json:"status"`
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Service     string         `json:"service"`
	Environment string         `json:"environment"`
	Database    DatabaseHealth `json:"database"`
}

// HealthCheck returns a handler that reports application health information. The process
// answers "OK" while it serves requests; the database section reports store reachability.
func HealthCheck(cfg config.Config, ping Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "OK",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Database:    DatabaseHealth{Status: "unknown"},
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				payload.Database.Status = "unavailable"
			} else {
				payload.Database.Status = "connected"
			}
		}

		return c.Status(fiber.StatusOK).JSON(payload)
	}
}
