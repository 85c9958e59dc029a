package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops-kit/netops-service/internal/config"
	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/repository"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeSLAStats(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := base.Add(48 * time.Hour)

	samples := []repository.SLASample{
		// resolved in 2h against 4h target: compliant
		{CreatedAt: base, ResolvedAt: timePtr(base.Add(2 * time.Hour)), SLATargetHours: 4},
		// resolved in 6h against 4h target: breach
		{CreatedAt: base, ResolvedAt: timePtr(base.Add(6 * time.Hour)), SLATargetHours: 4},
		// resolved in 10h against 24h target: compliant
		{CreatedAt: base, ResolvedAt: timePtr(base.Add(10 * time.Hour)), SLATargetHours: 24},
		// unresolved, 48h elapsed against 24h target: timeout
		{CreatedAt: base, SLATargetHours: 24},
		// unresolved but still inside the 72h target: neither
		{CreatedAt: base, SLATargetHours: 72},
	}

	stats := ComputeSLAStats(samples, now)
	assert.Equal(t, int64(3), stats.ResolvedCount)
	assert.Equal(t, int64(2), stats.CompliantCount)
	assert.Equal(t, int64(1), stats.TimeoutCount)
	assert.Equal(t, 66.7, stats.RatePercent)
	assert.Equal(t, 6.0, stats.AvgResolutionHours)
}

func TestComputeSLAStatsEmpty(t *testing.T) {
	stats := ComputeSLAStats(nil, time.Now())
	assert.Zero(t, stats.ResolvedCount)
	assert.Zero(t, stats.RatePercent)
	assert.Zero(t, stats.AvgResolutionHours)
}

func TestComputeSLAStatsBoundary(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// resolution exactly at the target counts as compliant
	samples := []repository.SLASample{
		{CreatedAt: base, ResolvedAt: timePtr(base.Add(4 * time.Hour)), SLATargetHours: 4},
	}
	stats := ComputeSLAStats(samples, base.Add(5*time.Hour))
	assert.Equal(t, int64(1), stats.CompliantCount)
	assert.Equal(t, 100.0, stats.RatePercent)
}

func TestFillBucketsDaily(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	points := []repository.VolumePoint{
		{Bucket: from.AddDate(0, 0, 1), Created: 5, Resolved: 3},
		{Bucket: from.AddDate(0, 0, 4), Created: 2, Resolved: 2},
	}

	series := FillBuckets(points, from, to, false)
	require.Len(t, series, 7)
	assert.Equal(t, int64(0), series[0].Created)
	assert.Equal(t, int64(5), series[1].Created)
	assert.Equal(t, int64(3), series[1].Resolved)
	assert.Equal(t, int64(0), series[2].Created)
	assert.Equal(t, int64(2), series[4].Created)
	for i := 1; i < len(series); i++ {
		assert.Equal(t, 24*time.Hour, series[i].Bucket.Sub(series[i-1].Bucket))
	}
}

func TestFillBucketsHourly(t *testing.T) {
	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	to := from.Add(5 * time.Hour)

	points := []repository.VolumePoint{
		{Bucket: from.Add(2 * time.Hour), Created: 1},
	}

	series := FillBuckets(points, from, to, true)
	require.Len(t, series, 6)
	assert.Equal(t, int64(1), series[2].Created)
}

func TestTicketTrendDemoFallback(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 3)

	t.Run("disabled leaves empty series untouched", func(t *testing.T) {
		svc := NewReportService(&fakeReportRepo{}, newFakeCategoryRepo(), config.ReportingConfig{DemoFallback: false})
		series, err := svc.TicketTrend(context.Background(), from, to, false)
		require.NoError(t, err)
		for _, point := range series {
			assert.Zero(t, point.Created)
			assert.False(t, point.Fallback)
		}
	})

	t.Run("enabled fills empty series deterministically", func(t *testing.T) {
		svc := NewReportService(&fakeReportRepo{}, newFakeCategoryRepo(), config.ReportingConfig{DemoFallback: true})
		first, err := svc.TicketTrend(context.Background(), from, to, false)
		require.NoError(t, err)
		second, err := svc.TicketTrend(context.Background(), from, to, false)
		require.NoError(t, err)
		require.Equal(t, first, second)
		for _, point := range first {
			assert.True(t, point.Fallback)
			assert.Positive(t, point.Created)
		}
	})

	t.Run("enabled never touches real data", func(t *testing.T) {
		repo := &fakeReportRepo{ticketVolumes: []repository.VolumePoint{{Bucket: from, Created: 1}}}
		svc := NewReportService(repo, newFakeCategoryRepo(), config.ReportingConfig{DemoFallback: true})
		series, err := svc.TicketTrend(context.Background(), from, to, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), series[0].Created)
		for _, point := range series {
			assert.False(t, point.Fallback)
		}
	})
}

func TestRollUpToRoots(t *testing.T) {
	network := "cat-network"
	servers := "cat-servers"
	switches := "cat-switches"
	categories := []domain.AssetCategory{
		{ID: network, Name: "Network"},
		{ID: servers, Name: "Servers"},
		{ID: switches, Name: "Switches", ParentID: &network},
	}
	counts := []repository.CategoryCount{
		{CategoryID: network, Count: 2},
		{CategoryID: switches, Count: 5},
		{CategoryID: servers, Count: 3},
		{CategoryID: "ghost", Count: 9},
	}

	slices := RollUpToRoots(counts, categories)
	require.Len(t, slices, 2)

	byID := map[string]int64{}
	for _, slice := range slices {
		byID[slice.CategoryID] = slice.Count
	}
	assert.Equal(t, int64(7), byID[network], "child counts fold into the root")
	assert.Equal(t, int64(3), byID[servers])
}

func TestTopAssetsRejectsUnknownMetric(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, newFakeCategoryRepo(), config.ReportingConfig{TopAssetsLimit: 10})
	_, err := svc.TopAssets(context.Background(), "bogus", 5)
	require.Error(t, err)
}

func TestTopAssets(t *testing.T) {
	repo := &fakeReportRepo{topAssets: []repository.AssetMetricRow{
		{AssetID: "a1", Name: "sw-core-01", Status: domain.AssetStatusWarning, Value: 97.5},
		{AssetID: "a2", Name: "sw-core-02", Status: domain.AssetStatusOnline, Value: 88.0},
	}}
	svc := NewReportService(repo, newFakeCategoryRepo(), config.ReportingConfig{TopAssetsLimit: 10})

	top, err := svc.TopAssets(context.Background(), "cpu", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "sw-core-01", top[0].Name)
	assert.Equal(t, 97.5, top[0].Value)
}

func TestDefaultWindow(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, newFakeCategoryRepo(), config.ReportingConfig{TrendDays: 7})
	// Pin the clock: time.Now carries a monotonic reading that AddDate
	// strips, which makes deep equality fail on otherwise-equal instants.
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	from, to := svc.DefaultWindow()
	assert.Equal(t, to, from.AddDate(0, 0, 7))
}
