package events

import (
	"time"

	"github.com/ops-kit/netops-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventTicketStarted   EventType = "ticket_started"
	EventTicketCompleted EventType = "ticket_completed"
	EventTicketClosed    EventType = "ticket_closed"
	EventTicketDeleted   EventType = "ticket_deleted"
	EventAlertFired      EventType = "alert_fired"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	TicketID   string    `json:"ticket_id,omitempty"`
	AlertID    string    `json:"alert_id,omitempty"`
	OperatorID string    `json:"operator_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ReferenceKey string `json:"reference_key"`
	PriorityKey  string `json:"priority_key"`
	TypeKey      string `json:"type_key"`
	SourceKey    string `json:"source_key"`
	Title        string `json:"title"`
}

// TicketTransitionPayload describes a lifecycle state change.
type TicketTransitionPayload struct {
	FromStatus domain.TicketStatus `json:"from_status"`
	ToStatus   domain.TicketStatus `json:"to_status"`
	AssigneeID *string             `json:"assignee_id,omitempty"`
}

// TicketCompletedPayload carries SLA outcome alongside the transition.
type TicketCompletedPayload struct {
	FromStatus      domain.TicketStatus `json:"from_status"`
	ToStatus        domain.TicketStatus `json:"to_status"`
	ResolutionHours float64             `json:"resolution_hours"`
	SLACompliant    bool                `json:"sla_compliant"`
}

// AlertFiredPayload payload.
type AlertFiredPayload struct {
	Severity domain.AlertSeverity `json:"severity"`
	AssetID  *string              `json:"asset_id,omitempty"`
	Title    string               `json:"title"`
}
