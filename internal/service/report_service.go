package service

import (
	"context"
	"math"
	"time"

	"github.com/ops-kit/netops-service/internal/config"
	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// ReportService produces the read-only derived views behind dashboard
// endpoints. Everything is computed from the stores at request time.
type ReportService struct {
	reports    repository.ReportRepository
	categories repository.AssetCategoryRepository
	cfg        config.ReportingConfig
	now        func() time.Time
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository, categories repository.AssetCategoryRepository, cfg config.ReportingConfig) *ReportService {
	return &ReportService{reports: reports, categories: categories, cfg: cfg, now: time.Now}
}

// SLAStats is the SLA aggregate for a time window.
type SLAStats struct {
	ResolvedCount      int64
	CompliantCount     int64
	TimeoutCount       int64
	RatePercent        float64
	AvgResolutionHours float64
}

// TrendPoint is one dense series bucket.
type TrendPoint struct {
	Bucket   time.Time
	Created  int64
	Resolved int64
	Fallback bool
}

// CountItem is one label/count pair for pie and bar charts.
type CountItem struct {
	Label string
	Count int64
}

// CategorySlice counts assets rolled up to a root category.
type CategorySlice struct {
	CategoryID string
	Name       string
	Count      int64
}

// TopAsset is one ranking entry.
type TopAsset struct {
	AssetID string
	Name    string
	Status  domain.AssetStatus
	Value   float64
}

// TicketSummary returns status and priority distributions for the window.
func (s *ReportService) TicketSummary(ctx context.Context, from, to time.Time) (statuses, priorities []CountItem, err error) {
	statusRows, err := s.reports.TicketStatusCounts(ctx, from, to)
	if err != nil {
		return nil, nil, errorutil.NewPersistenceError(err)
	}
	priorityRows, err := s.reports.TicketPriorityCounts(ctx, from, to)
	if err != nil {
		return nil, nil, errorutil.NewPersistenceError(err)
	}
	return toCountItems(statusRows), toCountItems(priorityRows), nil
}

// SLAReport computes the SLA aggregate for tickets created in the window.
func (s *ReportService) SLAReport(ctx context.Context, from, to time.Time) (SLAStats, error) {
	samples, err := s.reports.SLASamples(ctx, from, to)
	if err != nil {
		return SLAStats{}, errorutil.NewPersistenceError(err)
	}
	return ComputeSLAStats(samples, s.now()), nil
}

// ComputeSLAStats derives the SLA aggregate from raw samples. The rate is
// a percentage over resolved tickets, rounded to one decimal; timeouts are
// unresolved tickets already past their target.
func ComputeSLAStats(samples []repository.SLASample, now time.Time) SLAStats {
	var stats SLAStats
	var totalHours float64
	for _, sample := range samples {
		target := time.Duration(sample.SLATargetHours) * time.Hour
		if sample.ResolvedAt != nil {
			stats.ResolvedCount++
			elapsed := sample.ResolvedAt.Sub(sample.CreatedAt)
			totalHours += elapsed.Hours()
			if elapsed <= target {
				stats.CompliantCount++
			}
			continue
		}
		if now.Sub(sample.CreatedAt) > target {
			stats.TimeoutCount++
		}
	}
	if stats.ResolvedCount > 0 {
		stats.RatePercent = roundOneDecimal(float64(stats.CompliantCount) / float64(stats.ResolvedCount) * 100)
		stats.AvgResolutionHours = roundOneDecimal(totalHours / float64(stats.ResolvedCount))
	}
	return stats
}

// TicketTrend returns the dense created/resolved series for the window.
func (s *ReportService) TicketTrend(ctx context.Context, from, to time.Time, hourly bool) ([]TrendPoint, error) {
	points, err := s.reports.TicketVolumeBuckets(ctx, from, to, hourly)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	series := FillBuckets(points, from, to, hourly)
	return s.applyFallback(series), nil
}

// AlertTrend returns the dense per-day alert series for the window.
func (s *ReportService) AlertTrend(ctx context.Context, from, to time.Time) ([]TrendPoint, error) {
	points, err := s.reports.AlertVolumeBuckets(ctx, from, to)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	series := FillBuckets(points, from, to, false)
	return s.applyFallback(series), nil
}

// AssetSummary returns status counts plus counts rolled up to root categories.
func (s *ReportService) AssetSummary(ctx context.Context) (statuses []CountItem, slices []CategorySlice, err error) {
	statusRows, err := s.reports.AssetStatusCounts(ctx)
	if err != nil {
		return nil, nil, errorutil.NewPersistenceError(err)
	}
	categoryRows, err := s.reports.AssetCategoryCounts(ctx)
	if err != nil {
		return nil, nil, errorutil.NewPersistenceError(err)
	}
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, nil, errorutil.NewPersistenceError(err)
	}
	return toCountItems(statusRows), RollUpToRoots(categoryRows, categories), nil
}

// RollUpToRoots folds per-node asset counts into their root categories.
// Counts on unknown category ids are dropped.
func RollUpToRoots(counts []repository.CategoryCount, categories []domain.AssetCategory) []CategorySlice {
	parents := make(map[string]*string, len(categories))
	names := make(map[string]string, len(categories))
	order := []string{}
	for i := range categories {
		parents[categories[i].ID] = categories[i].ParentID
		names[categories[i].ID] = categories[i].Name
		if categories[i].ParentID == nil {
			order = append(order, categories[i].ID)
		}
	}

	rootOf := func(id string) (string, bool) {
		seen := map[string]bool{}
		for {
			parent, ok := parents[id]
			if !ok || seen[id] {
				return "", false
			}
			if parent == nil {
				return id, true
			}
			seen[id] = true
			id = *parent
		}
	}

	totals := make(map[string]int64)
	for _, row := range counts {
		if root, ok := rootOf(row.CategoryID); ok {
			totals[root] += row.Count
		}
	}

	result := make([]CategorySlice, 0, len(order))
	for _, id := range order {
		result = append(result, CategorySlice{CategoryID: id, Name: names[id], Count: totals[id]})
	}
	return result
}

// TopAssets ranks assets by a utilization metric.
func (s *ReportService) TopAssets(ctx context.Context, metric string, limit int) ([]TopAsset, error) {
	if _, ok := repository.AssetMetricColumn(metric); !ok {
		return nil, errorutil.NewValidationError("unknown asset metric", map[string]any{"metric": metric})
	}
	if limit <= 0 {
		limit = s.cfg.TopAssetsLimit
	}
	rows, err := s.reports.TopAssetsByMetric(ctx, metric, limit)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	result := make([]TopAsset, 0, len(rows))
	for _, row := range rows {
		result = append(result, TopAsset{AssetID: row.AssetID, Name: row.Name, Status: row.Status, Value: row.Value})
	}
	return result, nil
}

// AlertSummary returns severity distribution for the window.
func (s *ReportService) AlertSummary(ctx context.Context, from, to time.Time) ([]CountItem, error) {
	rows, err := s.reports.AlertSeverityCounts(ctx, from, to)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return toCountItems(rows), nil
}

// DefaultWindow resolves the configured trend window ending now.
func (s *ReportService) DefaultWindow() (time.Time, time.Time) {
	days := s.cfg.TrendDays
	if days <= 0 {
		days = 7
	}
	to := s.now()
	return to.AddDate(0, 0, -days), to
}

// FillBuckets produces a dense series covering every bucket of [from, to],
// zero-filling buckets the datastore returned no row for.
func FillBuckets(points []repository.VolumePoint, from, to time.Time, hourly bool) []TrendPoint {
	step := 24 * time.Hour
	truncate := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	if hourly {
		step = time.Hour
		truncate = func(t time.Time) time.Time { return t.Truncate(time.Hour) }
	}

	byBucket := make(map[time.Time]repository.VolumePoint, len(points))
	for _, point := range points {
		byBucket[truncate(point.Bucket)] = point
	}

	var series []TrendPoint
	for bucket := truncate(from); !bucket.After(to); bucket = bucket.Add(step) {
		point := TrendPoint{Bucket: bucket}
		if raw, ok := byBucket[bucket]; ok {
			point.Created = raw.Created
			point.Resolved = raw.Resolved
		}
		series = append(series, point)
	}
	return series
}

// applyFallback substitutes a deterministic synthetic series when the
// window holds no data at all and the demo fallback is enabled. Real
// partial data is never touched.
func (s *ReportService) applyFallback(series []TrendPoint) []TrendPoint {
	if !s.cfg.DemoFallback {
		return series
	}
	for _, point := range series {
		if point.Created > 0 || point.Resolved > 0 {
			return series
		}
	}
	for i := range series {
		series[i].Created = int64(3 + (i*5)%9)
		series[i].Resolved = int64(2 + (i*3)%7)
		series[i].Fallback = true
	}
	return series
}

func toCountItems(rows []repository.StatusCount) []CountItem {
	result := make([]CountItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, CountItem{Label: row.Label, Count: row.Count})
	}
	return result
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
