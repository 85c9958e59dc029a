package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/events"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// TicketService owns the ticket lifecycle: every valid transition, the
// timestamp stamped by it, and the SLA outcome computed at completion.
type TicketService struct {
	tickets    repository.TicketRepository
	audits     repository.TicketAuditRepository
	priorities repository.PriorityRepository
	types      repository.ReferenceRepository
	sources    repository.ReferenceRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	AuditRepo    repository.TicketAuditRepository
	PriorityRepo repository.PriorityRepository
	TypeRepo     repository.ReferenceRepository
	SourceRepo   repository.ReferenceRepository
	Dispatcher   events.Dispatcher
	Now          func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	PriorityKey string
	TypeKey     string
	SourceKey   string
	CreatorID   string
}

// TicketUpdateInput mutates non-state fields; nil means keep current value.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	PriorityKey *string
	TypeKey     *string
}

// BatchAssignResult reports the outcome for one ticket of a batch.
type BatchAssignResult struct {
	TicketID string
	Assigned bool
	Reason   string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		audits:     deps.AuditRepo,
		priorities: deps.PriorityRepo,
		types:      deps.TypeRepo,
		sources:    deps.SourceRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

var allowedTransitions = map[domain.TicketStatus]domain.TicketStatus{
	domain.TicketStatusCreated:    domain.TicketStatusAssigned,
	domain.TicketStatusAssigned:   domain.TicketStatusInProgress,
	domain.TicketStatusInProgress: domain.TicketStatusCompleted,
	domain.TicketStatusCompleted:  domain.TicketStatusClosed,
}

func isValidTransition(current, next domain.TicketStatus) bool {
	return allowedTransitions[current] == next
}

// CreateTicket validates registry keys and creates a ticket in CREATED state.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errorutil.NewValidationError("title required", nil)
	}
	if strings.TrimSpace(input.CreatorID) == "" {
		return nil, errorutil.NewValidationError("creator_id required", nil)
	}
	if err := s.validateRegistryKeys(ctx, input.PriorityKey, input.TypeKey, input.SourceKey); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ReferenceKey: generateTicketKey(),
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusCreated,
		PriorityKey:  input.PriorityKey,
		TypeKey:      input.TypeKey,
		SourceKey:    input.SourceKey,
		CreatorID:    input.CreatorID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketID:   ticket.ID,
		OperatorID: input.CreatorID,
		Payload: events.TicketCreatedPayload{
			ReferenceKey: ticket.ReferenceKey,
			PriorityKey:  ticket.PriorityKey,
			TypeKey:      ticket.TypeKey,
			SourceKey:    ticket.SourceKey,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// AssignTicket transitions CREATED -> ASSIGNED and stamps assigned_at.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, assigneeID, operatorID string) (*domain.Ticket, error) {
	if strings.TrimSpace(assigneeID) == "" {
		return nil, errorutil.NewValidationError("assignee_id required", nil)
	}
	ticket, err := s.getActive(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, domain.TicketStatusAssigned) {
		return nil, errorutil.NewInvalidState("ticket cannot be assigned in current status",
			map[string]any{"ticket_id": ticketID, "status": ticket.Status})
	}

	now := s.now()
	fromStatus := ticket.Status
	ticket.Status = domain.TicketStatusAssigned
	ticket.AssigneeID = &assigneeID
	ticket.AssignedAt = &now
	if err := s.persistTransition(ctx, ticket, fromStatus, operatorID, "assigned"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketAssigned,
		TicketID:   ticket.ID,
		OperatorID: operatorID,
		Payload: events.TicketTransitionPayload{
			FromStatus: fromStatus,
			ToStatus:   ticket.Status,
			AssigneeID: ticket.AssigneeID,
		},
	})
	return ticket, nil
}

// AssignBatch applies AssignTicket per id. The batch is not atomic: valid
// ids are assigned, invalid ones are reported back with the failure reason.
func (s *TicketService) AssignBatch(ctx context.Context, ticketIDs []string, assigneeID, operatorID string) []BatchAssignResult {
	results := make([]BatchAssignResult, 0, len(ticketIDs))
	for _, id := range ticketIDs {
		_, err := s.AssignTicket(ctx, id, assigneeID, operatorID)
		result := BatchAssignResult{TicketID: id, Assigned: err == nil}
		if err != nil {
			result.Reason = errorutil.ToDomainError(err).Message
		}
		results = append(results, result)
	}
	return results
}

// StartProcessing transitions ASSIGNED -> IN_PROGRESS and stamps started_at.
func (s *TicketService) StartProcessing(ctx context.Context, ticketID, operatorID string) (*domain.Ticket, error) {
	ticket, err := s.getActive(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, domain.TicketStatusInProgress) {
		return nil, errorutil.NewInvalidState("ticket cannot be started in current status",
			map[string]any{"ticket_id": ticketID, "status": ticket.Status})
	}

	now := s.now()
	fromStatus := ticket.Status
	ticket.Status = domain.TicketStatusInProgress
	ticket.StartedAt = &now
	if err := s.persistTransition(ctx, ticket, fromStatus, operatorID, "started"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketStarted,
		TicketID:   ticket.ID,
		OperatorID: operatorID,
		Payload: events.TicketTransitionPayload{
			FromStatus: fromStatus,
			ToStatus:   ticket.Status,
		},
	})
	return ticket, nil
}

// CompleteTicket transitions IN_PROGRESS -> COMPLETED, stamps resolved_at
// and records the SLA outcome against the priority target.
func (s *TicketService) CompleteTicket(ctx context.Context, ticketID, operatorID string) (*domain.Ticket, error) {
	ticket, err := s.getActive(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, domain.TicketStatusCompleted) {
		return nil, errorutil.NewInvalidState("ticket cannot be completed in current status",
			map[string]any{"ticket_id": ticketID, "status": ticket.Status})
	}

	priority, err := s.priorities.GetByKey(ctx, ticket.PriorityKey)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewPersistenceError(err)
	}

	now := s.now()
	fromStatus := ticket.Status
	ticket.Status = domain.TicketStatusCompleted
	ticket.ResolvedAt = &now
	compliant := true
	if priority != nil {
		compliant = now.Sub(ticket.CreatedAt) <= priority.SLATarget()
	}
	ticket.SLACompliant = &compliant
	if err := s.persistTransition(ctx, ticket, fromStatus, operatorID, "completed"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCompleted,
		TicketID:   ticket.ID,
		OperatorID: operatorID,
		Payload: events.TicketCompletedPayload{
			FromStatus:      fromStatus,
			ToStatus:        ticket.Status,
			ResolutionHours: ticket.ResolutionHours(),
			SLACompliant:    compliant,
		},
	})
	return ticket, nil
}

// CloseTicket transitions COMPLETED -> CLOSED and stamps closed_at.
func (s *TicketService) CloseTicket(ctx context.Context, ticketID, operatorID string) (*domain.Ticket, error) {
	ticket, err := s.getActive(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, domain.TicketStatusClosed) {
		return nil, errorutil.NewInvalidState("ticket cannot be closed in current status",
			map[string]any{"ticket_id": ticketID, "status": ticket.Status})
	}

	now := s.now()
	fromStatus := ticket.Status
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &now
	if err := s.persistTransition(ctx, ticket, fromStatus, operatorID, "closed"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketClosed,
		TicketID:   ticket.ID,
		OperatorID: operatorID,
		Payload: events.TicketTransitionPayload{
			FromStatus: fromStatus,
			ToStatus:   ticket.Status,
		},
	})
	return ticket, nil
}

// DeleteTicket soft-deletes regardless of state. The row stays readable by
// id for audit but disappears from listings and statistics.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID, operatorID string) error {
	ticket, err := s.getByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.Deleted {
		return nil
	}
	ticket.Deleted = true
	if err := s.persistTransition(ctx, ticket, ticket.Status, operatorID, "soft_deleted"); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketDeleted,
		TicketID:   ticket.ID,
		OperatorID: operatorID,
	})
	return nil
}

// UpdateTicket mutates non-state fields. No state check and no SLA
// re-validation; changed priority keys still must resolve.
func (s *TicketService) UpdateTicket(ctx context.Context, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.getActive(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errorutil.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = title
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.PriorityKey != nil {
		if err := s.requireEnabledPriority(ctx, *input.PriorityKey); err != nil {
			return nil, err
		}
		ticket.PriorityKey = *input.PriorityKey
	}
	if input.TypeKey != nil {
		if err := s.requireEnabledReference(ctx, s.types, *input.TypeKey, "type_key"); err != nil {
			return nil, err
		}
		ticket.TypeKey = *input.TypeKey
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return ticket, nil
}

// GetTicket returns a ticket by id, soft-deleted rows included.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getByID(ctx, ticketID)
}

// GetTicketByKey returns a ticket by its human-facing reference key.
func (s *TicketService) GetTicketByKey(ctx context.Context, key string) (*domain.Ticket, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return nil, errorutil.NewValidationError("reference key required", nil)
	}
	ticket, err := s.tickets.GetByReferenceKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"reference_key": key})
		}
		return nil, errorutil.NewPersistenceError(err)
	}
	return ticket, nil
}

// ListTickets returns active tickets matching the filter plus the total count.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	filter.IncludeDeleted = false
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.NewPersistenceError(err)
	}
	total, err := s.tickets.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.NewPersistenceError(err)
	}
	return tickets, total, nil
}

// ListAudit returns the transition trail for a ticket.
func (s *TicketService) ListAudit(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketAudit, error) {
	if _, err := s.getByID(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.audits.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return entries, nil
}

func (s *TicketService) getByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, errorutil.NewPersistenceError(err)
	}
	return ticket, nil
}

func (s *TicketService) getActive(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Deleted {
		return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

func (s *TicketService) persistTransition(ctx context.Context, ticket *domain.Ticket, fromStatus domain.TicketStatus, operatorID, note string) error {
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return errorutil.NewPersistenceError(err)
	}
	return s.recordAudit(ctx, ticket, fromStatus, operatorID, note)
}

func (s *TicketService) recordAudit(ctx context.Context, ticket *domain.Ticket, fromStatus domain.TicketStatus, operatorID, note string) error {
	if s.audits == nil {
		return nil
	}
	entry := &domain.TicketAudit{
		TicketID:   ticket.ID,
		OperatorID: operatorID,
		FromStatus: fromStatus,
		ToStatus:   ticket.Status,
		Note:       note,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		return errorutil.NewPersistenceError(err)
	}
	return nil
}

func (s *TicketService) validateRegistryKeys(ctx context.Context, priorityKey, typeKey, sourceKey string) error {
	if err := s.requireEnabledPriority(ctx, priorityKey); err != nil {
		return err
	}
	if err := s.requireEnabledReference(ctx, s.types, typeKey, "type_key"); err != nil {
		return err
	}
	return s.requireEnabledReference(ctx, s.sources, sourceKey, "source_key")
}

func (s *TicketService) requireEnabledPriority(ctx context.Context, key string) error {
	priority, err := s.priorities.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewValidationError("unknown priority_key", map[string]any{"priority_key": key})
		}
		return errorutil.NewPersistenceError(err)
	}
	if !priority.Enabled {
		return errorutil.NewValidationError("priority_key disabled", map[string]any{"priority_key": key})
	}
	return nil
}

func (s *TicketService) requireEnabledReference(ctx context.Context, repo repository.ReferenceRepository, key, field string) error {
	entry, err := repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewValidationError("unknown "+field, map[string]any{field: key})
		}
		return errorutil.NewPersistenceError(err)
	}
	if !entry.Enabled {
		return errorutil.NewValidationError(field+" disabled", map[string]any{field: key})
	}
	return nil
}

func generateTicketKey() string {
	return "OPS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
