package dto

import (
	"time"

	"github.com/ops-kit/netops-service/internal/domain"
)

// AlertRequest payload for alert ingestion.
type AlertRequest struct {
	AssetID  *string              `json:"asset_id"`
	Severity domain.AlertSeverity `json:"severity"`
	Title    string               `json:"title"`
	Message  string               `json:"message"`
}

// AlertResponse wire shape.
type AlertResponse struct {
	ID             string               `json:"id"`
	AssetID        *string              `json:"asset_id"`
	Severity       domain.AlertSeverity `json:"severity"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	Status         domain.AlertStatus   `json:"status"`
	FiredAt        time.Time            `json:"fired_at"`
	AcknowledgedAt *time.Time           `json:"acknowledged_at"`
	ResolvedAt     *time.Time           `json:"resolved_at"`
}

// NewAlertResponse maps a domain alert.
func NewAlertResponse(alert *domain.Alert) AlertResponse {
	return AlertResponse{
		ID:             alert.ID,
		AssetID:        alert.AssetID,
		Severity:       alert.Severity,
		Title:          alert.Title,
		Message:        alert.Message,
		Status:         alert.Status,
		FiredAt:        alert.FiredAt,
		AcknowledgedAt: alert.AcknowledgedAt,
		ResolvedAt:     alert.ResolvedAt,
	}
}
