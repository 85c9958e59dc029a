package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/events"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

func newAlertFixture() (*AlertService, *fakeAssetRepo, *capturingDispatcher) {
	assets := newFakeAssetRepo()
	dispatcher := &capturingDispatcher{}
	return NewAlertService(newFakeAlertRepo(), assets, dispatcher), assets, dispatcher
}

func TestRecordAlert(t *testing.T) {
	svc, assets, dispatcher := newAlertFixture()
	ctx := context.Background()

	asset := &domain.Asset{CategoryID: "cat-core", Name: "sw-core-01", Status: domain.AssetStatusOnline}
	require.NoError(t, assets.Create(ctx, asset))

	alert, err := svc.RecordAlert(ctx, AlertInput{
		AssetID:  &asset.ID,
		Severity: domain.AlertSeverityCritical,
		Title:    "link down",
		Message:  "ge-0/0/1 down",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusFiring, alert.Status)
	assert.False(t, alert.FiredAt.IsZero())

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAlertFired, published[0].Type)
	assert.Equal(t, alert.ID, published[0].AlertID)

	_, err = svc.RecordAlert(ctx, AlertInput{Severity: domain.AlertSeverity("WEIRD"), Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)

	missing := "no-such-asset"
	_, err = svc.RecordAlert(ctx, AlertInput{AssetID: &missing, Severity: domain.AlertSeverityMinor, Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorutil.ToDomainError(err).Code)
}

func TestAlertLifecycle(t *testing.T) {
	svc, _, _ := newAlertFixture()
	ctx := context.Background()

	alert, err := svc.RecordAlert(ctx, AlertInput{Severity: domain.AlertSeverityMajor, Title: "high cpu"})
	require.NoError(t, err)

	acked, err := svc.Acknowledge(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusAcknowledged, acked.Status)
	require.NotNil(t, acked.AcknowledgedAt)

	// ack only applies to firing alerts
	_, err = svc.Acknowledge(ctx, alert.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", errorutil.ToDomainError(err).Code)

	resolved, err := svc.Resolve(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	_, err = svc.Resolve(ctx, alert.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", errorutil.ToDomainError(err).Code)
}

func TestResolveDirectlyFromFiring(t *testing.T) {
	svc, _, _ := newAlertFixture()
	ctx := context.Background()

	alert, err := svc.RecordAlert(ctx, AlertInput{Severity: domain.AlertSeverityInfo, Title: "flap"})
	require.NoError(t, err)

	resolved, err := svc.Resolve(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusResolved, resolved.Status)
}

func TestListAlertsFilter(t *testing.T) {
	svc, _, _ := newAlertFixture()
	ctx := context.Background()

	a, err := svc.RecordAlert(ctx, AlertInput{Severity: domain.AlertSeverityCritical, Title: "one"})
	require.NoError(t, err)
	_, err = svc.RecordAlert(ctx, AlertInput{Severity: domain.AlertSeverityMinor, Title: "two"})
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, a.ID)
	require.NoError(t, err)

	firing, total, err := svc.ListAlerts(ctx, repository.AlertFilter{Statuses: []domain.AlertStatus{domain.AlertStatusFiring}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, firing, 1)
	assert.Equal(t, "two", firing[0].Title)
}
