package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ops-kit/netops-service/internal/domain"
)

// AlertFilter captures alert search parameters.
type AlertFilter struct {
	AssetID    *string
	Severities []domain.AlertSeverity
	Statuses   []domain.AlertStatus
	FiredFrom  *time.Time
	FiredTo    *time.Time
	Limit      int
	Offset     int
}

// AlertRepository encapsulates alert persistence.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	Update(ctx context.Context, alert *domain.Alert) error
	GetByID(ctx context.Context, id string) (*domain.Alert, error)
	ListWithFilter(ctx context.Context, filter AlertFilter) ([]domain.Alert, error)
	CountWithFilter(ctx context.Context, filter AlertFilter) (int64, error)
}

type alertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository instantiates repository.
func NewAlertRepository(pool *pgxpool.Pool) AlertRepository {
	return &alertRepository{pool: pool}
}

const alertColumns = `id, asset_id, severity, title, message, status, fired_at, acknowledged_at, resolved_at`

func (r *alertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	const query = `
        INSERT INTO alerts (asset_id, severity, title, message, status, fired_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	firedAt := alert.FiredAt
	if firedAt.IsZero() {
		firedAt = time.Now()
		alert.FiredAt = firedAt
	}
	return r.pool.QueryRow(ctx, query,
		alert.AssetID,
		alert.Severity,
		alert.Title,
		alert.Message,
		alert.Status,
		firedAt,
	).Scan(&alert.ID)
}

func (r *alertRepository) Update(ctx context.Context, alert *domain.Alert) error {
	const query = `
        UPDATE alerts SET severity=$1, title=$2, message=$3, status=$4, acknowledged_at=$5, resolved_at=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		alert.Severity,
		alert.Title,
		alert.Message,
		alert.Status,
		alert.AcknowledgedAt,
		alert.ResolvedAt,
		alert.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *alertRepository) GetByID(ctx context.Context, id string) (*domain.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE id=$1`, alertColumns)
	var alert domain.Alert
	if err := scanAlert(r.pool.QueryRow(ctx, query, id), &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) ListWithFilter(ctx context.Context, filter AlertFilter) ([]domain.Alert, error) {
	clauses, args := buildAlertClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE %s ORDER BY fired_at DESC LIMIT %d OFFSET %d`,
		alertColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Alert
	for rows.Next() {
		var alert domain.Alert
		if err := scanAlert(rows, &alert); err != nil {
			return nil, err
		}
		result = append(result, alert)
	}
	return result, rows.Err()
}

func (r *alertRepository) CountWithFilter(ctx context.Context, filter AlertFilter) (int64, error) {
	clauses, args := buildAlertClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM alerts WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildAlertClauses(filter AlertFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssetID != nil {
		args = append(args, *filter.AssetID)
		clauses = append(clauses, fmt.Sprintf("asset_id=$%d", len(args)))
	}
	if len(filter.Severities) > 0 {
		placeholders := make([]string, len(filter.Severities))
		for i, severity := range filter.Severities {
			args = append(args, severity)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("severity IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.FiredFrom != nil {
		args = append(args, *filter.FiredFrom)
		clauses = append(clauses, fmt.Sprintf("fired_at >= $%d", len(args)))
	}
	if filter.FiredTo != nil {
		args = append(args, *filter.FiredTo)
		clauses = append(clauses, fmt.Sprintf("fired_at <= $%d", len(args)))
	}

	return clauses, args
}

func scanAlert(row rowScanner, alert *domain.Alert) error {
	return row.Scan(
		&alert.ID,
		&alert.AssetID,
		&alert.Severity,
		&alert.Title,
		&alert.Message,
		&alert.Status,
		&alert.FiredAt,
		&alert.AcknowledgedAt,
		&alert.ResolvedAt,
	)
}
