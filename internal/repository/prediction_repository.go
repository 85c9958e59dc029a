package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ops-kit/netops-service/internal/domain"
)

// PredictionRepository stores regenerated forecast rows.
type PredictionRepository interface {
	ReplaceForMetric(ctx context.Context, metric domain.PredictionMetric, reports []domain.PredictionReport) error
	List(ctx context.Context, metric *domain.PredictionMetric) ([]domain.PredictionReport, error)
}

type predictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository instantiates repository.
func NewPredictionRepository(pool *pgxpool.Pool) PredictionRepository {
	return &predictionRepository{pool: pool}
}

// ReplaceForMetric swaps the forecast rows for one metric in a single
// transaction so readers never observe a partially regenerated series.
func (r *predictionRepository) ReplaceForMetric(ctx context.Context, metric domain.PredictionMetric, reports []domain.PredictionReport) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM prediction_reports WHERE metric=$1`, metric); err != nil {
		return err
	}
	const insert = `
        INSERT INTO prediction_reports (metric, bucket_date, predicted_value, generated_at)
        VALUES ($1,$2,$3,$4)`
	for _, report := range reports {
		if _, err := tx.Exec(ctx, insert, report.Metric, report.BucketDate, report.PredictedValue, report.GeneratedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *predictionRepository) List(ctx context.Context, metric *domain.PredictionMetric) ([]domain.PredictionReport, error) {
	query := `
        SELECT id, metric, bucket_date, predicted_value, generated_at
        FROM prediction_reports`
	args := []any{}
	if metric != nil {
		query += ` WHERE metric=$1`
		args = append(args, *metric)
	}
	query += ` ORDER BY metric, bucket_date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PredictionReport
	for rows.Next() {
		var report domain.PredictionReport
		if err := rows.Scan(
			&report.ID,
			&report.Metric,
			&report.BucketDate,
			&report.PredictedValue,
			&report.GeneratedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
