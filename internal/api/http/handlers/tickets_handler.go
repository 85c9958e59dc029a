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

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		PriorityKey: req.PriorityKey,
		TypeKey:     req.TypeKey,
		SourceKey:   req.SourceKey,
		CreatorID:   req.CreatorID,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewTicketResponse(ticket))
}

// List GET /tickets. Soft-deleted tickets never appear here.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	page, pageSize, limit, offset := pagination(c)
	filter.Limit = limit
	filter.Offset = offset

	tickets, total, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return ok(c, dto.Page[dto.TicketResponse]{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// Get GET /tickets/:id. Returns soft-deleted tickets too, for audit.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewTicketResponse(ticket))
}

// GetByKey GET /tickets/key/:key. Looks a ticket up by its reference key.
func (h *TicketsHandler) GetByKey(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicketByKey(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewTicketResponse(ticket))
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		PriorityKey: req.PriorityKey,
		TypeKey:     req.TypeKey,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewTicketResponse(ticket))
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AssignTicket(c.UserContext(), c.Params("id"), req.AssigneeID, req.OperatorID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTicketResponse(ticket))
}

// AssignBatch POST /tickets/assign-batch. Applies the valid subset and
// reports per-ticket failures instead of aborting.
func (h *TicketsHandler) AssignBatch(c *fiber.Ctx) error {
	var req dto.BatchAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if len(req.TicketIDs) == 0 {
		return errorutil.NewValidationError("ticket_ids required", nil)
	}
	results := h.service.AssignBatch(c.UserContext(), req.TicketIDs, req.AssigneeID, req.OperatorID)
	items := make([]dto.BatchAssignItemResponse, 0, len(results))
	for _, result := range results {
		items = append(items, dto.BatchAssignItemResponse{
			TicketID: result.TicketID,
			Assigned: result.Assigned,
			Reason:   result.Reason,
		})
	}
	return ok(c, items)
}

// Start POST /tickets/:id/start.
func (h *TicketsHandler) Start(c *fiber.Ctx) error {
	req, err := parseTransition(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.StartProcessing(c.UserContext(), c.Params("id"), req.OperatorID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTicketResponse(ticket))
}

// Complete POST /tickets/:id/complete.
func (h *TicketsHandler) Complete(c *fiber.Ctx) error {
	req, err := parseTransition(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.CompleteTicket(c.UserContext(), c.Params("id"), req.OperatorID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTicketResponse(ticket))
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	req, err := parseTransition(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.CloseTicket(c.UserContext(), c.Params("id"), req.OperatorID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTicketResponse(ticket))
}

// Delete DELETE /tickets/:id. Soft delete, allowed from any state.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id"), c.Query("operator_id")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"deleted": true})
}

// Audit GET /tickets/:id/audit.
func (h *TicketsHandler) Audit(c *fiber.Ctx) error {
	_, _, limit, offset := pagination(c)
	entries, err := h.service.ListAudit(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TicketAuditResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.TicketAuditResponse{
			ID:         entry.ID,
			OperatorID: entry.OperatorID,
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			Note:       entry.Note,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return ok(c, items)
}

func parseTransition(c *fiber.Ctx) (dto.TransitionRequest, error) {
	var req dto.TransitionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return req, errorutil.NewValidationError("invalid payload", nil)
		}
	}
	return req, nil
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	for _, part := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(part)))
	}
	filter.PriorityKeys = splitCSV(c.Query("priority_key"))
	filter.TypeKeys = splitCSV(c.Query("type_key"))
	filter.SourceKeys = splitCSV(c.Query("source_key"))
	filter.CreatorID = optionalQuery(c, "creator_id")
	filter.AssigneeID = optionalQuery(c, "assignee_id")
	filter.SearchTerm = optionalQuery(c, "keyword")
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))
	return filter
}
