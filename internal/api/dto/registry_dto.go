package dto

import (
	"time"

	"github.com/ops-kit/netops-service/internal/domain"
)

// PriorityRequest payload for create/update.
type PriorityRequest struct {
	Key            string `json:"key"`
	DisplayName    string `json:"display_name"`
	Level          int    `json:"level"`
	SLATargetHours int    `json:"sla_target_hours"`
	ColorCode      string `json:"color_code"`
}

// PriorityResponse wire shape.
type PriorityResponse struct {
	Key            string    `json:"key"`
	DisplayName    string    `json:"display_name"`
	Level          int       `json:"level"`
	SLATargetHours int       `json:"sla_target_hours"`
	ColorCode      string    `json:"color_code"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReferenceRequest payload for type/source create/update.
type ReferenceRequest struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
}

// ReferenceResponse wire shape for type/source entries.
type ReferenceResponse struct {
	Key         string    `json:"key"`
	DisplayName string    `json:"display_name"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPriorityResponse maps a priority registry entry.
func NewPriorityResponse(priority *domain.Priority) PriorityResponse {
	return PriorityResponse{
		Key:            priority.Key,
		DisplayName:    priority.DisplayName,
		Level:          priority.Level,
		SLATargetHours: priority.SLATargetHours,
		ColorCode:      priority.ColorCode,
		Enabled:        priority.Enabled,
		CreatedAt:      priority.CreatedAt,
		UpdatedAt:      priority.UpdatedAt,
	}
}

// NewReferenceResponse maps a type/source registry entry.
func NewReferenceResponse(entry *domain.ReferenceEntry) ReferenceResponse {
	return ReferenceResponse{
		Key:         entry.Key,
		DisplayName: entry.DisplayName,
		Enabled:     entry.Enabled,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}
