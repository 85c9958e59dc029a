package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/api/dto"
	"github.com/ops-kit/netops-service/internal/service"
)

// ReportsHandler serves the read-only dashboard aggregation endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// TicketSummary GET /reports/tickets/summary.
func (h *ReportsHandler) TicketSummary(c *fiber.Ctx) error {
	defFrom, defTo := h.service.DefaultWindow()
	from, to := reportWindow(c, defFrom, defTo)
	statuses, priorities, err := h.service.TicketSummary(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return ok(c, dto.TicketSummaryResponse{
		ByStatus:   dto.NewCountItems(statuses),
		ByPriority: dto.NewCountItems(priorities),
	})
}

// SLA GET /reports/sla.
func (h *ReportsHandler) SLA(c *fiber.Ctx) error {
	defFrom, defTo := h.service.DefaultWindow()
	from, to := reportWindow(c, defFrom, defTo)
	stats, err := h.service.SLAReport(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return ok(c, dto.NewSLAReportResponse(stats))
}

// TicketTrend GET /reports/tickets/trend.
func (h *ReportsHandler) TicketTrend(c *fiber.Ctx) error {
	defFrom, defTo := h.service.DefaultWindow()
	from, to := reportWindow(c, defFrom, defTo)
	hourly := c.Query("bucket") == "hour"
	series, err := h.service.TicketTrend(c.UserContext(), from, to, hourly)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTrendPoints(series))
}

// AssetSummary GET /reports/assets/summary.
func (h *ReportsHandler) AssetSummary(c *fiber.Ctx) error {
	statuses, slices, err := h.service.AssetSummary(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, dto.AssetSummaryResponse{
		ByStatus:   dto.NewCountItems(statuses),
		ByCategory: dto.NewCategorySlices(slices),
	})
}

// TopAssets GET /reports/assets/top.
func (h *ReportsHandler) TopAssets(c *fiber.Ctx) error {
	metric := c.Query("metric", "cpu")
	limit := parseInt(c.Query("limit"), 0)
	assets, err := h.service.TopAssets(c.UserContext(), metric, limit)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTopAssets(assets))
}

// AlertSummary GET /reports/alerts/summary.
func (h *ReportsHandler) AlertSummary(c *fiber.Ctx) error {
	defFrom, defTo := h.service.DefaultWindow()
	from, to := reportWindow(c, defFrom, defTo)
	severities, err := h.service.AlertSummary(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return ok(c, dto.NewCountItems(severities))
}

// AlertTrend GET /reports/alerts/trend.
func (h *ReportsHandler) AlertTrend(c *fiber.Ctx) error {
	defFrom, defTo := h.service.DefaultWindow()
	from, to := reportWindow(c, defFrom, defTo)
	series, err := h.service.AlertTrend(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTrendPoints(series))
}
