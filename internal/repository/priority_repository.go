package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ops-kit/netops-service/internal/domain"
)

// PriorityRepository manages the SLA priority registry.
type PriorityRepository interface {
	Create(ctx context.Context, priority *domain.Priority) error
	Update(ctx context.Context, priority *domain.Priority) error
	GetByKey(ctx context.Context, key string) (*domain.Priority, error)
	List(ctx context.Context, includeDisabled bool) ([]domain.Priority, error)
}

type priorityRepository struct {
	pool *pgxpool.Pool
}

// NewPriorityRepository instantiates repository.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{pool: pool}
}

func (r *priorityRepository) Create(ctx context.Context, priority *domain.Priority) error {
	const query = `
        INSERT INTO ticket_priorities (key, display_name, level, sla_target_hours, color_code, enabled)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		priority.Key,
		priority.DisplayName,
		priority.Level,
		priority.SLATargetHours,
		priority.ColorCode,
		priority.Enabled,
	).Scan(&priority.ID, &priority.CreatedAt, &priority.UpdatedAt)
}

func (r *priorityRepository) Update(ctx context.Context, priority *domain.Priority) error {
	const query = `
        UPDATE ticket_priorities
        SET display_name=$1, level=$2, sla_target_hours=$3, color_code=$4, enabled=$5, updated_at=NOW()
        WHERE key=$6`
	cmd, err := r.pool.Exec(ctx, query,
		priority.DisplayName,
		priority.Level,
		priority.SLATargetHours,
		priority.ColorCode,
		priority.Enabled,
		priority.Key,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *priorityRepository) GetByKey(ctx context.Context, key string) (*domain.Priority, error) {
	const query = `
        SELECT id, key, display_name, level, sla_target_hours, color_code, enabled, created_at, updated_at
        FROM ticket_priorities WHERE key=$1`
	var priority domain.Priority
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&priority.ID,
		&priority.Key,
		&priority.DisplayName,
		&priority.Level,
		&priority.SLATargetHours,
		&priority.ColorCode,
		&priority.Enabled,
		&priority.CreatedAt,
		&priority.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *priorityRepository) List(ctx context.Context, includeDisabled bool) ([]domain.Priority, error) {
	query := `
        SELECT id, key, display_name, level, sla_target_hours, color_code, enabled, created_at, updated_at
        FROM ticket_priorities`
	if !includeDisabled {
		query += ` WHERE enabled=TRUE`
	}
	query += ` ORDER BY level DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		var priority domain.Priority
		if err := rows.Scan(
			&priority.ID,
			&priority.Key,
			&priority.DisplayName,
			&priority.Level,
			&priority.SLATargetHours,
			&priority.ColorCode,
			&priority.Enabled,
			&priority.CreatedAt,
			&priority.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, priority)
	}
	return result, rows.Err()
}
