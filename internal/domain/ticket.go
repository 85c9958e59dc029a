package domain

import "time"

// TicketStatus enumerates lifecycle states for operations tickets.
type TicketStatus string

const (
	TicketStatusCreated    TicketStatus = "CREATED"
	TicketStatusAssigned   TicketStatus = "ASSIGNED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Ticket is the aggregate for operations work items.
type Ticket struct {
	ID           string
	ReferenceKey string
	Title        string
	Description  string
	Status       TicketStatus
	PriorityKey  string
	TypeKey      string
	SourceKey    string
	CreatorID    string
	AssigneeID   *string
	SLACompliant *bool
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	AssignedAt   *time.Time
	StartedAt    *time.Time
	ResolvedAt   *time.Time
	ClosedAt     *time.Time
}

// ResolutionHours returns hours between creation and resolution, or zero
// when the ticket is unresolved.
func (t *Ticket) ResolutionHours() float64 {
	if t.ResolvedAt == nil {
		return 0
	}
	return t.ResolvedAt.Sub(t.CreatedAt).Hours()
}
