package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/api/http/handlers"
	"github.com/ops-kit/netops-service/internal/domain"
)

// RouteConfig bundles the handlers the router needs.
type RouteConfig struct {
	Tickets     *handlers.TicketsHandler
	Registry    *handlers.RegistryHandler
	Assets      *handlers.AssetsHandler
	Alerts      *handlers.AlertsHandler
	Reports     *handlers.ReportsHandler
	Predictions *handlers.PredictionsHandler
	Health      *handlers.HealthHandler
	Debug       *handlers.DebugHandler
}

// RegisterRoutes mounts the full API surface under /api/v1, plus the
// unversioned health and debug endpoints.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/health/live", rc.Health.Live)
	app.Get("/health/ready", rc.Health.Ready)
	app.Get("/debug/metrics", rc.Debug.Metrics)

	v1 := app.Group("/api/v1")

	tickets := v1.Group("/tickets")
	tickets.Post("/", rc.Tickets.Create)
	tickets.Get("/", rc.Tickets.List)
	tickets.Post("/assign-batch", rc.Tickets.AssignBatch)
	tickets.Get("/key/:key", rc.Tickets.GetByKey)
	tickets.Get("/:id", rc.Tickets.Get)
	tickets.Patch("/:id", rc.Tickets.Update)
	tickets.Delete("/:id", rc.Tickets.Delete)
	tickets.Post("/:id/assign", rc.Tickets.Assign)
	tickets.Post("/:id/start", rc.Tickets.Start)
	tickets.Post("/:id/complete", rc.Tickets.Complete)
	tickets.Post("/:id/close", rc.Tickets.Close)
	tickets.Get("/:id/audit", rc.Tickets.Audit)

	registry := v1.Group("/registry")
	priorities := registry.Group("/priorities")
	priorities.Post("/", rc.Registry.CreatePriority)
	priorities.Get("/", rc.Registry.ListPriorities)
	priorities.Patch("/:key", rc.Registry.UpdatePriority)
	priorities.Delete("/:key", rc.Registry.DisablePriority)

	registerReferenceRoutes(registry.Group("/types"), rc.Registry, domain.ReferenceKindType)
	registerReferenceRoutes(registry.Group("/sources"), rc.Registry, domain.ReferenceKindSource)

	assets := v1.Group("/assets")
	assets.Post("/", rc.Assets.Create)
	assets.Get("/", rc.Assets.List)
	assets.Get("/categories/tree", rc.Assets.Tree)
	assets.Post("/categories", rc.Assets.CreateCategory)
	assets.Patch("/categories/:id", rc.Assets.UpdateCategory)
	assets.Delete("/categories/:id", rc.Assets.DeleteCategory)
	assets.Get("/:id", rc.Assets.Get)
	assets.Patch("/:id", rc.Assets.Update)
	assets.Delete("/:id", rc.Assets.Delete)

	alerts := v1.Group("/alerts")
	alerts.Post("/", rc.Alerts.Create)
	alerts.Get("/", rc.Alerts.List)
	alerts.Post("/:id/ack", rc.Alerts.Acknowledge)
	alerts.Post("/:id/resolve", rc.Alerts.Resolve)

	reports := v1.Group("/reports")
	reports.Get("/tickets/summary", rc.Reports.TicketSummary)
	reports.Get("/sla", rc.Reports.SLA)
	reports.Get("/tickets/trend", rc.Reports.TicketTrend)
	reports.Get("/assets/summary", rc.Reports.AssetSummary)
	reports.Get("/assets/top", rc.Reports.TopAssets)
	reports.Get("/alerts/summary", rc.Reports.AlertSummary)
	reports.Get("/alerts/trend", rc.Reports.AlertTrend)

	predictions := v1.Group("/predictions")
	predictions.Get("/", rc.Predictions.List)
	predictions.Post("/refresh", rc.Predictions.Refresh)
}

func registerReferenceRoutes(group fiber.Router, h *handlers.RegistryHandler, kind domain.ReferenceKind) {
	group.Post("/", h.CreateReference(kind))
	group.Get("/", h.ListReferences(kind))
	group.Patch("/:key", h.UpdateReference(kind))
	group.Delete("/:key", h.DisableReference(kind))
}
