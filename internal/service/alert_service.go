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

// AlertService records and transitions monitoring alerts.
type AlertService struct {
	alerts     repository.AlertRepository
	assets     repository.AssetRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewAlertService constructs the service.
func NewAlertService(alerts repository.AlertRepository, assets repository.AssetRepository, dispatcher events.Dispatcher) *AlertService {
	return &AlertService{alerts: alerts, assets: assets, dispatcher: dispatcher, now: time.Now}
}

// AlertInput describes alert ingestion payloads.
type AlertInput struct {
	AssetID  *string
	Severity domain.AlertSeverity
	Title    string
	Message  string
}

var validSeverities = map[domain.AlertSeverity]bool{
	domain.AlertSeverityCritical: true,
	domain.AlertSeverityMajor:    true,
	domain.AlertSeverityMinor:    true,
	domain.AlertSeverityInfo:     true,
}

// RecordAlert stores a firing alert, resolving the asset reference when given.
func (s *AlertService) RecordAlert(ctx context.Context, input AlertInput) (*domain.Alert, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errorutil.NewValidationError("title required", nil)
	}
	if !validSeverities[input.Severity] {
		return nil, errorutil.NewValidationError("unknown severity", map[string]any{"severity": input.Severity})
	}
	if input.AssetID != nil {
		if _, err := s.assets.GetByID(ctx, *input.AssetID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewNotFound("asset", map[string]any{"asset_id": *input.AssetID})
			}
			return nil, errorutil.NewPersistenceError(err)
		}
	}

	alert := &domain.Alert{
		AssetID:  input.AssetID,
		Severity: input.Severity,
		Title:    strings.TrimSpace(input.Title),
		Message:  strings.TrimSpace(input.Message),
		Status:   domain.AlertStatusFiring,
		FiredAt:  s.now(),
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAlertFired,
			AlertID:   alert.ID,
			Timestamp: alert.FiredAt,
			Payload: events.AlertFiredPayload{
				Severity: alert.Severity,
				AssetID:  alert.AssetID,
				Title:    alert.Title,
			},
		})
	}
	return alert, nil
}

// Acknowledge marks a firing alert as seen.
func (s *AlertService) Acknowledge(ctx context.Context, id string) (*domain.Alert, error) {
	alert, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status != domain.AlertStatusFiring {
		return nil, errorutil.NewInvalidState("alert is not firing", map[string]any{"alert_id": id, "status": alert.Status})
	}
	now := s.now()
	alert.Status = domain.AlertStatusAcknowledged
	alert.AcknowledgedAt = &now
	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return alert, nil
}

// Resolve closes an alert from either active state.
func (s *AlertService) Resolve(ctx context.Context, id string) (*domain.Alert, error) {
	alert, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status == domain.AlertStatusResolved {
		return nil, errorutil.NewInvalidState("alert already resolved", map[string]any{"alert_id": id})
	}
	now := s.now()
	alert.Status = domain.AlertStatusResolved
	alert.ResolvedAt = &now
	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return alert, nil
}

// ListAlerts returns alerts matching the filter plus the total count.
func (s *AlertService) ListAlerts(ctx context.Context, filter repository.AlertFilter) ([]domain.Alert, int64, error) {
	alerts, err := s.alerts.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.NewPersistenceError(err)
	}
	total, err := s.alerts.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.NewPersistenceError(err)
	}
	return alerts, total, nil
}

func (s *AlertService) get(ctx context.Context, id string) (*domain.Alert, error) {
	alert, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("alert", map[string]any{"alert_id": id})
		}
		return nil, errorutil.NewPersistenceError(err)
	}
	return alert, nil
}
