package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/api/dto"
	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/service"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

type PredictionsHandler struct {
	service *service.PredictionService
}

func NewPredictionsHandler(s *service.PredictionService) *PredictionsHandler {
	return &PredictionsHandler{service: s}
}

// List returns the stored forecast rows, optionally filtered by metric.
func (h *PredictionsHandler) List(c *fiber.Ctx) error {
	var metric *domain.PredictionMetric
	if raw := c.Query("metric"); raw != "" {
		m := domain.PredictionMetric(raw)
		switch m {
		case domain.PredictionMetricTicketVolume, domain.PredictionMetricAlertVolume:
			metric = &m
		default:
			return errorutil.NewValidationError("unknown prediction metric", map[string]any{"metric": raw})
		}
	}

	reports, err := h.service.List(c.UserContext(), metric)
	if err != nil {
		return err
	}
	return ok(c, dto.NewPredictions(reports))
}

// Refresh regenerates all forecast series synchronously.
func (h *PredictionsHandler) Refresh(c *fiber.Ctx) error {
	if err := h.service.Regenerate(c.UserContext()); err != nil {
		return err
	}
	reports, err := h.service.List(c.UserContext(), nil)
	if err != nil {
		return err
	}
	return ok(c, dto.NewPredictions(reports))
}
