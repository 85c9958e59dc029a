package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/api/dto"
	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/internal/service"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// AlertsHandler manages alert endpoints.
type AlertsHandler struct {
	service *service.AlertService
}

// NewAlertsHandler constructs handler.
func NewAlertsHandler(alertService *service.AlertService) *AlertsHandler {
	return &AlertsHandler{service: alertService}
}

// Create POST /alerts.
func (h *AlertsHandler) Create(c *fiber.Ctx) error {
	var req dto.AlertRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	alert, err := h.service.RecordAlert(c.UserContext(), service.AlertInput{
		AssetID:  req.AssetID,
		Severity: req.Severity,
		Title:    req.Title,
		Message:  req.Message,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewAlertResponse(alert))
}

// Acknowledge POST /alerts/:id/ack.
func (h *AlertsHandler) Acknowledge(c *fiber.Ctx) error {
	alert, err := h.service.Acknowledge(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewAlertResponse(alert))
}

// Resolve POST /alerts/:id/resolve.
func (h *AlertsHandler) Resolve(c *fiber.Ctx) error {
	alert, err := h.service.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewAlertResponse(alert))
}

// List GET /alerts.
func (h *AlertsHandler) List(c *fiber.Ctx) error {
	filter := repository.AlertFilter{
		AssetID:   optionalQuery(c, "asset_id"),
		FiredFrom: parseTime(c.Query("from")),
		FiredTo:   parseTime(c.Query("to")),
	}
	for _, part := range splitCSV(c.Query("severity")) {
		filter.Severities = append(filter.Severities, domain.AlertSeverity(strings.ToUpper(part)))
	}
	for _, part := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.AlertStatus(strings.ToUpper(part)))
	}
	page, pageSize, limit, offset := pagination(c)
	filter.Limit = limit
	filter.Offset = offset

	alerts, total, err := h.service.ListAlerts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		items = append(items, dto.NewAlertResponse(&alerts[i]))
	}
	return ok(c, dto.Page[dto.AlertResponse]{Items: items, Total: total, Page: page, PageSize: pageSize})
}
