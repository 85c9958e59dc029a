package dto

import (
	"time"

	"github.com/ops-kit/netops-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriorityKey string `json:"priority_key"`
	TypeKey     string `json:"type_key"`
	SourceKey   string `json:"source_key"`
	CreatorID   string `json:"creator_id"`
}

// UpdateTicketRequest payload; omitted fields keep their value.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriorityKey *string `json:"priority_key"`
	TypeKey     *string `json:"type_key"`
	OperatorID  string  `json:"operator_id"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
	OperatorID string `json:"operator_id"`
}

// BatchAssignRequest payload.
type BatchAssignRequest struct {
	TicketIDs  []string `json:"ticket_ids"`
	AssigneeID string   `json:"assignee_id"`
	OperatorID string   `json:"operator_id"`
}

// TransitionRequest payload for start/complete/close/delete.
type TransitionRequest struct {
	OperatorID string `json:"operator_id"`
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID           string              `json:"id"`
	ReferenceKey string              `json:"reference_key"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       domain.TicketStatus `json:"status"`
	PriorityKey  string              `json:"priority_key"`
	TypeKey      string              `json:"type_key"`
	SourceKey    string              `json:"source_key"`
	CreatorID    string              `json:"creator_id"`
	AssigneeID   *string             `json:"assignee_id"`
	SLACompliant *bool               `json:"sla_compliant"`
	Deleted      bool                `json:"deleted"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	AssignedAt   *time.Time          `json:"assigned_at"`
	StartedAt    *time.Time          `json:"started_at"`
	ResolvedAt   *time.Time          `json:"resolved_at"`
	ClosedAt     *time.Time          `json:"closed_at"`
}

// BatchAssignItemResponse is one per-ticket result of a batch assignment.
type BatchAssignItemResponse struct {
	TicketID string `json:"ticket_id"`
	Assigned bool   `json:"assigned"`
	Reason   string `json:"reason,omitempty"`
}

// TicketAuditResponse is one transition trail entry.
type TicketAuditResponse struct {
	ID         string              `json:"id"`
	OperatorID string              `json:"operator_id"`
	FromStatus domain.TicketStatus `json:"from_status"`
	ToStatus   domain.TicketStatus `json:"to_status"`
	Note       string              `json:"note"`
	CreatedAt  time.Time           `json:"created_at"`
}

// NewTicketResponse maps a domain ticket to the wire shape.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		ReferenceKey: ticket.ReferenceKey,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		PriorityKey:  ticket.PriorityKey,
		TypeKey:      ticket.TypeKey,
		SourceKey:    ticket.SourceKey,
		CreatorID:    ticket.CreatorID,
		AssigneeID:   ticket.AssigneeID,
		SLACompliant: ticket.SLACompliant,
		Deleted:      ticket.Deleted,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
		AssignedAt:   ticket.AssignedAt,
		StartedAt:    ticket.StartedAt,
		ResolvedAt:   ticket.ResolvedAt,
		ClosedAt:     ticket.ClosedAt,
	}
}
