package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ops-kit/netops-service/internal/domain"
)

// ReferenceRepository manages one of the flat registry tables (ticket
// types or ticket sources); both share the same shape.
type ReferenceRepository interface {
	Create(ctx context.Context, entry *domain.ReferenceEntry) error
	Update(ctx context.Context, entry *domain.ReferenceEntry) error
	GetByKey(ctx context.Context, key string) (*domain.ReferenceEntry, error)
	List(ctx context.Context, includeDisabled bool) ([]domain.ReferenceEntry, error)
}

type referenceRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewTicketTypeRepository instantiates the ticket type registry.
func NewTicketTypeRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool, table: "ticket_types"}
}

// NewTicketSourceRepository instantiates the ticket source registry.
func NewTicketSourceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool, table: "ticket_sources"}
}

func (r *referenceRepository) Create(ctx context.Context, entry *domain.ReferenceEntry) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (key, display_name, enabled)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`, r.table)
	return r.pool.QueryRow(ctx, query,
		entry.Key,
		entry.DisplayName,
		entry.Enabled,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *referenceRepository) Update(ctx context.Context, entry *domain.ReferenceEntry) error {
	query := fmt.Sprintf(`
        UPDATE %s SET display_name=$1, enabled=$2, updated_at=NOW() WHERE key=$3`, r.table)
	cmd, err := r.pool.Exec(ctx, query, entry.DisplayName, entry.Enabled, entry.Key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referenceRepository) GetByKey(ctx context.Context, key string) (*domain.ReferenceEntry, error) {
	query := fmt.Sprintf(`
        SELECT id, key, display_name, enabled, created_at, updated_at
        FROM %s WHERE key=$1`, r.table)
	var entry domain.ReferenceEntry
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&entry.ID,
		&entry.Key,
		&entry.DisplayName,
		&entry.Enabled,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *referenceRepository) List(ctx context.Context, includeDisabled bool) ([]domain.ReferenceEntry, error) {
	query := fmt.Sprintf(`
        SELECT id, key, display_name, enabled, created_at, updated_at
        FROM %s`, r.table)
	if !includeDisabled {
		query += ` WHERE enabled=TRUE`
	}
	query += ` ORDER BY key`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReferenceEntry
	for rows.Next() {
		var entry domain.ReferenceEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Key,
			&entry.DisplayName,
			&entry.Enabled,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
