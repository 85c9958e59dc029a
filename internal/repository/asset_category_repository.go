package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ops-kit/netops-service/internal/domain"
)

// AssetCategoryRepository persists the classification tree.
type AssetCategoryRepository interface {
	Create(ctx context.Context, category *domain.AssetCategory) error
	Update(ctx context.Context, category *domain.AssetCategory) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AssetCategory, error)
	ListAll(ctx context.Context) ([]domain.AssetCategory, error)
	CountChildren(ctx context.Context, id string) (int64, error)
}

type assetCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewAssetCategoryRepository instantiates repository.
func NewAssetCategoryRepository(pool *pgxpool.Pool) AssetCategoryRepository {
	return &assetCategoryRepository{pool: pool}
}

func (r *assetCategoryRepository) Create(ctx context.Context, category *domain.AssetCategory) error {
	const query = `
        INSERT INTO asset_categories (parent_id, name, code, sort_order)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.ParentID,
		category.Name,
		category.Code,
		category.SortOrder,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *assetCategoryRepository) Update(ctx context.Context, category *domain.AssetCategory) error {
	const query = `
        UPDATE asset_categories SET parent_id=$1, name=$2, code=$3, sort_order=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		category.ParentID,
		category.Name,
		category.Code,
		category.SortOrder,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetCategoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM asset_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetCategoryRepository) GetByID(ctx context.Context, id string) (*domain.AssetCategory, error) {
	const query = `
        SELECT id, parent_id, name, code, sort_order, created_at, updated_at
        FROM asset_categories WHERE id=$1`
	var category domain.AssetCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.ParentID,
		&category.Name,
		&category.Code,
		&category.SortOrder,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *assetCategoryRepository) ListAll(ctx context.Context) ([]domain.AssetCategory, error) {
	const query = `
        SELECT id, parent_id, name, code, sort_order, created_at, updated_at
        FROM asset_categories ORDER BY sort_order, name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssetCategory
	for rows.Next() {
		var category domain.AssetCategory
		if err := rows.Scan(
			&category.ID,
			&category.ParentID,
			&category.Name,
			&category.Code,
			&category.SortOrder,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *assetCategoryRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM asset_categories WHERE parent_id=$1`, id).Scan(&count)
	return count, err
}
