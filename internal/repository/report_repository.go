package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ops-kit/netops-service/internal/domain"
)

// StatusCount is a generic label/count aggregation row.
type StatusCount struct {
	Label string
	Count int64
}

// SLASample carries the fields SLA arithmetic needs for one ticket.
type SLASample struct {
	CreatedAt      time.Time
	ResolvedAt     *time.Time
	SLATargetHours int
}

// VolumePoint is one raw time bucket from the datastore; buckets with no
// rows are absent and get zero-filled by the service layer.
type VolumePoint struct {
	Bucket   time.Time
	Created  int64
	Resolved int64
}

// AssetMetricRow is a top-N ranking row.
type AssetMetricRow struct {
	AssetID string
	Name    string
	Status  domain.AssetStatus
	Value   float64
}

// CategoryCount counts assets per category node.
type CategoryCount struct {
	CategoryID string
	Count      int64
}

// ReportRepository runs the read-only aggregation queries behind the
// dashboard endpoints. All results are raw rows; derived figures are
// computed in the service layer.
type ReportRepository interface {
	TicketStatusCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error)
	TicketPriorityCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error)
	SLASamples(ctx context.Context, from, to time.Time) ([]SLASample, error)
	TicketVolumeBuckets(ctx context.Context, from, to time.Time, hourly bool) ([]VolumePoint, error)
	AssetStatusCounts(ctx context.Context) ([]StatusCount, error)
	AssetCategoryCounts(ctx context.Context) ([]CategoryCount, error)
	TopAssetsByMetric(ctx context.Context, metric string, limit int) ([]AssetMetricRow, error)
	AlertSeverityCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error)
	AlertVolumeBuckets(ctx context.Context, from, to time.Time) ([]VolumePoint, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) TicketStatusCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	const query = `
        SELECT status, COUNT(*) FROM tickets
        WHERE NOT deleted AND created_at >= $1 AND created_at <= $2
        GROUP BY status`
	return r.labelCounts(ctx, query, from, to)
}

func (r *reportRepository) TicketPriorityCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	const query = `
        SELECT priority_key, COUNT(*) FROM tickets
        WHERE NOT deleted AND created_at >= $1 AND created_at <= $2
        GROUP BY priority_key`
	return r.labelCounts(ctx, query, from, to)
}

func (r *reportRepository) SLASamples(ctx context.Context, from, to time.Time) ([]SLASample, error) {
	const query = `
        SELECT t.created_at, t.resolved_at, p.sla_target_hours
        FROM tickets t
        JOIN ticket_priorities p ON p.key = t.priority_key
        WHERE NOT t.deleted AND t.created_at >= $1 AND t.created_at <= $2`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SLASample
	for rows.Next() {
		var sample SLASample
		if err := rows.Scan(&sample.CreatedAt, &sample.ResolvedAt, &sample.SLATargetHours); err != nil {
			return nil, err
		}
		result = append(result, sample)
	}
	return result, rows.Err()
}

// TicketVolumeBuckets buckets creations by created_at and resolutions by
// resolved_at, so each point reads "tickets opened / tickets resolved in
// this interval".
func (r *reportRepository) TicketVolumeBuckets(ctx context.Context, from, to time.Time, hourly bool) ([]VolumePoint, error) {
	unit := "day"
	if hourly {
		unit = "hour"
	}
	query := fmt.Sprintf(`
        SELECT bucket, SUM(created), SUM(resolved) FROM (
            SELECT date_trunc('%s', created_at) AS bucket, COUNT(*) AS created, 0 AS resolved
            FROM tickets
            WHERE NOT deleted AND created_at >= $1 AND created_at <= $2
            GROUP BY 1
            UNION ALL
            SELECT date_trunc('%s', resolved_at), 0, COUNT(*)
            FROM tickets
            WHERE NOT deleted AND resolved_at >= $1 AND resolved_at <= $2
            GROUP BY 1
        ) points GROUP BY bucket ORDER BY bucket`, unit, unit)
	return r.volumePoints(ctx, query, from, to)
}

func (r *reportRepository) AssetStatusCounts(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) FROM assets GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLabelCounts(rows)
}

func (r *reportRepository) AssetCategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	const query = `SELECT category_id, COUNT(*) FROM assets GROUP BY category_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var row CategoryCount
		if err := rows.Scan(&row.CategoryID, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// assetMetricColumns whitelists sortable utilization columns; the metric
// name is interpolated into SQL and must never come from user input raw.
var assetMetricColumns = map[string]string{
	"cpu":     "cpu_usage",
	"memory":  "memory_usage",
	"disk":    "disk_usage",
	"network": "network_mbps",
}

// AssetMetricColumn resolves a public metric name to its column, reporting
// whether the metric is known.
func AssetMetricColumn(metric string) (string, bool) {
	column, ok := assetMetricColumns[metric]
	return column, ok
}

func (r *reportRepository) TopAssetsByMetric(ctx context.Context, metric string, limit int) ([]AssetMetricRow, error) {
	column, ok := assetMetricColumns[metric]
	if !ok {
		return nil, fmt.Errorf("unknown asset metric %q", metric)
	}
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`
        SELECT id, name, status, %s FROM assets
        ORDER BY %s DESC LIMIT %d`, column, column, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AssetMetricRow
	for rows.Next() {
		var row AssetMetricRow
		if err := rows.Scan(&row.AssetID, &row.Name, &row.Status, &row.Value); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) AlertSeverityCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	const query = `
        SELECT severity, COUNT(*) FROM alerts
        WHERE fired_at >= $1 AND fired_at <= $2
        GROUP BY severity`
	return r.labelCounts(ctx, query, from, to)
}

// AlertVolumeBuckets follows the same convention as TicketVolumeBuckets:
// firings bucket by fired_at, resolutions by resolved_at.
func (r *reportRepository) AlertVolumeBuckets(ctx context.Context, from, to time.Time) ([]VolumePoint, error) {
	const query = `
        SELECT bucket, SUM(created), SUM(resolved) FROM (
            SELECT date_trunc('day', fired_at) AS bucket, COUNT(*) AS created, 0 AS resolved
            FROM alerts
            WHERE fired_at >= $1 AND fired_at <= $2
            GROUP BY 1
            UNION ALL
            SELECT date_trunc('day', resolved_at), 0, COUNT(*)
            FROM alerts
            WHERE resolved_at >= $1 AND resolved_at <= $2
            GROUP BY 1
        ) points GROUP BY bucket ORDER BY bucket`
	return r.volumePoints(ctx, query, from, to)
}

func (r *reportRepository) labelCounts(ctx context.Context, query string, from, to time.Time) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLabelCounts(rows)
}

func collectLabelCounts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]StatusCount, error) {
	var result []StatusCount
	for rows.Next() {
		var row StatusCount
		if err := rows.Scan(&row.Label, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) volumePoints(ctx context.Context, query string, from, to time.Time) ([]VolumePoint, error) {
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []VolumePoint
	for rows.Next() {
		var point VolumePoint
		if err := rows.Scan(&point.Bucket, &point.Created, &point.Resolved); err != nil {
			return nil, err
		}
		result = append(result, point)
	}
	return result, rows.Err()
}
