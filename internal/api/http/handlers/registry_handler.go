package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ops-kit/netops-service/internal/api/dto"
	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/service"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// RegistryHandler manages the priority/type/source reference endpoints.
type RegistryHandler struct {
	service *service.RegistryService
}

// NewRegistryHandler constructs handler.
func NewRegistryHandler(registryService *service.RegistryService) *RegistryHandler {
	return &RegistryHandler{service: registryService}
}

// CreatePriority POST /registry/priorities.
func (h *RegistryHandler) CreatePriority(c *fiber.Ctx) error {
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	priority, err := h.service.CreatePriority(c.UserContext(), service.PriorityInput{
		Key:            req.Key,
		DisplayName:    req.DisplayName,
		Level:          req.Level,
		SLATargetHours: req.SLATargetHours,
		ColorCode:      req.ColorCode,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewPriorityResponse(priority))
}

// UpdatePriority PATCH /registry/priorities/:key.
func (h *RegistryHandler) UpdatePriority(c *fiber.Ctx) error {
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	priority, err := h.service.UpdatePriority(c.UserContext(), c.Params("key"), service.PriorityInput{
		DisplayName:    req.DisplayName,
		Level:          req.Level,
		SLATargetHours: req.SLATargetHours,
		ColorCode:      req.ColorCode,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewPriorityResponse(priority))
}

// DisablePriority DELETE /registry/priorities/:key.
func (h *RegistryHandler) DisablePriority(c *fiber.Ctx) error {
	if err := h.service.DisablePriority(c.UserContext(), c.Params("key")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"disabled": true})
}

// ListPriorities GET /registry/priorities.
func (h *RegistryHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.service.ListPriorities(c.UserContext(), parseBool(c.Query("include_disabled")))
	if err != nil {
		return err
	}
	items := make([]dto.PriorityResponse, 0, len(priorities))
	for i := range priorities {
		items = append(items, dto.NewPriorityResponse(&priorities[i]))
	}
	return ok(c, items)
}

// CreateReference POST /registry/types and /registry/sources.
func (h *RegistryHandler) CreateReference(kind domain.ReferenceKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.ReferenceRequest
		if err := c.BodyParser(&req); err != nil {
			return errorutil.NewValidationError("invalid payload", nil)
		}
		entry, err := h.service.CreateReference(c.UserContext(), kind, service.ReferenceInput{
			Key:         req.Key,
			DisplayName: req.DisplayName,
		})
		if err != nil {
			return err
		}
		return created(c, dto.NewReferenceResponse(entry))
	}
}

// UpdateReference PATCH /registry/{types,sources}/:key.
func (h *RegistryHandler) UpdateReference(kind domain.ReferenceKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.ReferenceRequest
		if err := c.BodyParser(&req); err != nil {
			return errorutil.NewValidationError("invalid payload", nil)
		}
		entry, err := h.service.UpdateReference(c.UserContext(), kind, c.Params("key"), service.ReferenceInput{
			DisplayName: req.DisplayName,
		})
		if err != nil {
			return err
		}
		return ok(c, dto.NewReferenceResponse(entry))
	}
}

// DisableReference DELETE /registry/{types,sources}/:key.
func (h *RegistryHandler) DisableReference(kind domain.ReferenceKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.service.DisableReference(c.UserContext(), kind, c.Params("key")); err != nil {
			return err
		}
		return ok(c, fiber.Map{"disabled": true})
	}
}

// ListReferences GET /registry/{types,sources}.
func (h *RegistryHandler) ListReferences(kind domain.ReferenceKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := h.service.ListReferences(c.UserContext(), kind, parseBool(c.Query("include_disabled")))
		if err != nil {
			return err
		}
		items := make([]dto.ReferenceResponse, 0, len(entries))
		for i := range entries {
			items = append(items, dto.NewReferenceResponse(&entries[i]))
		}
		return ok(c, items)
	}
}
