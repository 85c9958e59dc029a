package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/persistence"
)

type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

func NewHealthHandler(serviceName, version string, pg *persistence.Postgres, rd *persistence.Redis) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		postgres:    pg,
		redis:       rd,
	}
}

// Live reports process liveness only.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return ok(c, fiber.Map{
		"service": h.serviceName,
		"version": h.version,
		"status":  "alive",
	})
}

// Ready checks the backing stores and reports per-dependency status.
// The endpoint stays 200 with degraded details so that probes can
// distinguish a slow dependency from a dead process.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := contextWithTimeout(c, 2*time.Second)
	defer cancel()

	deps := fiber.Map{}
	healthy := true

	if err := h.postgres.Ping(ctx); err != nil {
		deps["postgres"] = err.Error()
		healthy = false
	} else {
		deps["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		deps["redis"] = err.Error()
		healthy = false
	} else {
		deps["redis"] = "ok"
	}

	status := "ready"
	code := fiber.StatusOK
	if !healthy {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"success": healthy,
		"data": fiber.Map{
			"service":      h.serviceName,
			"version":      h.version,
			"status":       status,
			"dependencies": deps,
		},
	})
}
