package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/api/dto"
)

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.OK(data))
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.OK(data))
}

func contextWithTimeout(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), d)
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseBool(val string) bool {
	parsed, err := strconv.ParseBool(val)
	return err == nil && parsed
}

// pagination resolves page/page_size query params into limit/offset.
func pagination(c *fiber.Ctx) (page, pageSize, limit, offset int) {
	page = parseInt(c.Query("page"), 1)
	pageSize = parseInt(c.Query("page_size"), 20)
	return page, pageSize, pageSize, (page - 1) * pageSize
}

func splitCSV(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

// reportWindow resolves from/to query params, falling back to the supplied
// default window.
func reportWindow(c *fiber.Ctx, defFrom, defTo time.Time) (time.Time, time.Time) {
	from, to := defFrom, defTo
	if parsed := parseTime(c.Query("from")); parsed != nil {
		from = *parsed
	}
	if parsed := parseTime(c.Query("to")); parsed != nil {
		to = *parsed
	}
	return from, to
}
