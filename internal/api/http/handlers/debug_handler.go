package handlers

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/observability"
)

type DebugHandler struct {
	metrics   *observability.Metrics
	startedAt time.Time
}

func NewDebugHandler(metrics *observability.Metrics) *DebugHandler {
	return &DebugHandler{metrics: metrics, startedAt: time.Now()}
}

// Metrics exposes in-process request counters and runtime stats.
func (h *DebugHandler) Metrics(c *fiber.Ctx) error {
	requests, errCounts := h.metrics.Snapshot()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return ok(c, fiber.Map{
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"requests":       requests,
		"errors":         errCounts,
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc":     mem.HeapAlloc,
	})
}
