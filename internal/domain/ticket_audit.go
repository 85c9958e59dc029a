package domain

import "time"

// TicketAudit is an immutable trail entry recorded for every lifecycle
// transition, including soft deletes.
type TicketAudit struct {
	ID         string
	TicketID   string
	OperatorID string
	FromStatus TicketStatus
	ToStatus   TicketStatus
	Note       string
	CreatedAt  time.Time
}
