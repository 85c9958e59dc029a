package domain

import "time"

// Priority is a registry entry that parametrizes ticket SLAs.
type Priority struct {
	ID             string
	Key            string
	DisplayName    string
	Level          int
	SLATargetHours int
	ColorCode      string
	Enabled        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SLATarget returns the resolution deadline window for this priority.
func (p *Priority) SLATarget() time.Duration {
	return time.Duration(p.SLATargetHours) * time.Hour
}

// ReferenceKind distinguishes the two flat registry tables.
type ReferenceKind string

const (
	ReferenceKindType   ReferenceKind = "type"
	ReferenceKindSource ReferenceKind = "source"
)

// ReferenceEntry is a ticket type or ticket source registry row.
type ReferenceEntry struct {
	ID          string
	Key         string
	DisplayName string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
