package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ops-kit/netops-service/internal/domain"
)

// AssetFilter captures asset search parameters. CategoryIDs carries an
// already-expanded subtree when category filtering is requested.
type AssetFilter struct {
	CategoryIDs []string
	Statuses    []domain.AssetStatus
	SearchTerm  *string
	Location    *string
	Limit       int
	Offset      int
}

// AssetRepository encapsulates asset persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListWithFilter(ctx context.Context, filter AssetFilter) ([]domain.Asset, error)
	CountWithFilter(ctx context.Context, filter AssetFilter) (int64, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `id, category_id, name, status, cpu_usage, memory_usage, disk_usage, network_mbps,
       location, created_at, updated_at`

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	const query = `
        INSERT INTO assets (category_id, name, status, cpu_usage, memory_usage, disk_usage, network_mbps, location)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		asset.CategoryID,
		asset.Name,
		asset.Status,
		asset.CPUUsage,
		asset.MemoryUsage,
		asset.DiskUsage,
		asset.NetworkMbps,
		asset.Location,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	const query = `
        UPDATE assets SET category_id=$1, name=$2, status=$3, cpu_usage=$4, memory_usage=$5,
            disk_usage=$6, network_mbps=$7, location=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		asset.CategoryID,
		asset.Name,
		asset.Status,
		asset.CPUUsage,
		asset.MemoryUsage,
		asset.DiskUsage,
		asset.NetworkMbps,
		asset.Location,
		asset.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id=$1`, assetColumns)
	var asset domain.Asset
	if err := scanAsset(r.pool.QueryRow(ctx, query, id), &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) ListWithFilter(ctx context.Context, filter AssetFilter) ([]domain.Asset, error) {
	clauses, args := buildAssetClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM assets WHERE %s ORDER BY name LIMIT %d OFFSET %d`,
		assetColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}

func (r *assetRepository) CountWithFilter(ctx context.Context, filter AssetFilter) (int64, error) {
	clauses, args := buildAssetClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM assets WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assetRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assets WHERE category_id=$1`, categoryID).Scan(&count)
	return count, err
}

func buildAssetClauses(filter AssetFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.CategoryIDs) > 0 {
		placeholders := make([]string, len(filter.CategoryIDs))
		for i, id := range filter.CategoryIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Location != nil && strings.TrimSpace(*filter.Location) != "" {
		args = append(args, strings.TrimSpace(*filter.Location))
		clauses = append(clauses, fmt.Sprintf("location=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}

	return clauses, args
}

func scanAsset(row rowScanner, asset *domain.Asset) error {
	return row.Scan(
		&asset.ID,
		&asset.CategoryID,
		&asset.Name,
		&asset.Status,
		&asset.CPUUsage,
		&asset.MemoryUsage,
		&asset.DiskUsage,
		&asset.NetworkMbps,
		&asset.Location,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
}
