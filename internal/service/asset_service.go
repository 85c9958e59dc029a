package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// AssetService manages the asset inventory and its classification tree.
type AssetService struct {
	assets     repository.AssetRepository
	categories repository.AssetCategoryRepository
}

// NewAssetService constructs the service.
func NewAssetService(assets repository.AssetRepository, categories repository.AssetCategoryRepository) *AssetService {
	return &AssetService{assets: assets, categories: categories}
}

// AssetInput describes the asset creation payload.
type AssetInput struct {
	CategoryID  string
	Name        string
	Status      domain.AssetStatus
	CPUUsage    float64
	MemoryUsage float64
	DiskUsage   float64
	NetworkMbps float64
	Location    string
}

// AssetUpdateInput mutates asset fields; nil means keep current value.
type AssetUpdateInput struct {
	CategoryID  *string
	Name        *string
	Status      *domain.AssetStatus
	CPUUsage    *float64
	MemoryUsage *float64
	DiskUsage   *float64
	NetworkMbps *float64
	Location    *string
}

// CategoryInput describes the category creation payload.
type CategoryInput struct {
	ParentID  *string
	Name      string
	Code      string
	SortOrder int
}

// CategoryUpdateInput mutates tree-node fields; nil means keep current
// value. An empty ParentID moves the node to the root level.
type CategoryUpdateInput struct {
	ParentID  *string
	Name      *string
	Code      *string
	SortOrder *int
}

// AssetListFilter describes asset listing parameters; Subtree expands the
// category filter to all descendants.
type AssetListFilter struct {
	CategoryID *string
	Subtree    bool
	Statuses   []domain.AssetStatus
	SearchTerm *string
	Location   *string
	Limit      int
	Offset     int
}

var validAssetStatuses = map[domain.AssetStatus]bool{
	domain.AssetStatusOnline:  true,
	domain.AssetStatusOffline: true,
	domain.AssetStatusWarning: true,
}

// CreateAsset validates the category reference and stores the asset.
func (s *AssetService) CreateAsset(ctx context.Context, input AssetInput) (*domain.Asset, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errorutil.NewValidationError("name required", nil)
	}
	if input.Status == "" {
		input.Status = domain.AssetStatusOnline
	}
	if !validAssetStatuses[input.Status] {
		return nil, errorutil.NewValidationError("unknown asset status", map[string]any{"status": input.Status})
	}
	if _, err := s.getCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	asset := &domain.Asset{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Status:      input.Status,
		CPUUsage:    input.CPUUsage,
		MemoryUsage: input.MemoryUsage,
		DiskUsage:   input.DiskUsage,
		NetworkMbps: input.NetworkMbps,
		Location:    strings.TrimSpace(input.Location),
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return asset, nil
}

// UpdateAsset applies the provided fields; omitted fields are untouched.
func (s *AssetService) UpdateAsset(ctx context.Context, id string, input AssetUpdateInput) (*domain.Asset, error) {
	asset, err := s.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errorutil.NewValidationError("name cannot be blank", nil)
		}
		asset.Name = name
	}
	if input.Status != nil {
		if !validAssetStatuses[*input.Status] {
			return nil, errorutil.NewValidationError("unknown asset status", map[string]any{"status": *input.Status})
		}
		asset.Status = *input.Status
	}
	if input.CategoryID != nil && *input.CategoryID != asset.CategoryID {
		if _, err := s.getCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		asset.CategoryID = *input.CategoryID
	}
	if input.CPUUsage != nil {
		asset.CPUUsage = *input.CPUUsage
	}
	if input.MemoryUsage != nil {
		asset.MemoryUsage = *input.MemoryUsage
	}
	if input.DiskUsage != nil {
		asset.DiskUsage = *input.DiskUsage
	}
	if input.NetworkMbps != nil {
		asset.NetworkMbps = *input.NetworkMbps
	}
	if input.Location != nil {
		asset.Location = strings.TrimSpace(*input.Location)
	}
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return asset, nil
}

// DeleteAsset removes an asset.
func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	if err := s.assets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("asset", map[string]any{"asset_id": id})
		}
		return errorutil.NewPersistenceError(err)
	}
	return nil
}

// GetAsset fetches an asset by id.
func (s *AssetService) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("asset", map[string]any{"asset_id": id})
		}
		return nil, errorutil.NewPersistenceError(err)
	}
	return asset, nil
}

// ListAssets returns assets matching the filter plus the total count.
func (s *AssetService) ListAssets(ctx context.Context, filter AssetListFilter) ([]domain.Asset, int64, error) {
	repoFilter := repository.AssetFilter{
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Location:   filter.Location,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.CategoryID != nil {
		if filter.Subtree {
			ids, err := s.SubtreeIDs(ctx, *filter.CategoryID)
			if err != nil {
				return nil, 0, err
			}
			repoFilter.CategoryIDs = ids
		} else {
			repoFilter.CategoryIDs = []string{*filter.CategoryID}
		}
	}
	assets, err := s.assets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, errorutil.NewPersistenceError(err)
	}
	total, err := s.assets.CountWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, errorutil.NewPersistenceError(err)
	}
	return assets, total, nil
}

// CreateCategory adds a tree node, validating the parent reference.
func (s *AssetService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.AssetCategory, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errorutil.NewValidationError("name required", nil)
	}
	if strings.TrimSpace(input.Code) == "" {
		return nil, errorutil.NewValidationError("code required", nil)
	}
	if input.ParentID != nil {
		if _, err := s.getCategory(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &domain.AssetCategory{
		ParentID:  input.ParentID,
		Name:      strings.TrimSpace(input.Name),
		Code:      strings.TrimSpace(input.Code),
		SortOrder: input.SortOrder,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return category, nil
}

// UpdateCategory applies the provided fields; omitted fields are untouched.
// Reparenting into the node's own subtree is rejected to keep the tree
// acyclic.
func (s *AssetService) UpdateCategory(ctx context.Context, id string, input CategoryUpdateInput) (*domain.AssetCategory, error) {
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		if *input.ParentID == "" {
			category.ParentID = nil
		} else {
			if *input.ParentID == id {
				return nil, errorutil.NewValidationError("category cannot be its own parent", nil)
			}
			subtree, err := s.SubtreeIDs(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, descendant := range subtree {
				if descendant == *input.ParentID {
					return nil, errorutil.NewValidationError("cannot reparent category into its own subtree",
						map[string]any{"category_id": id, "parent_id": *input.ParentID})
				}
			}
			if _, err := s.getCategory(ctx, *input.ParentID); err != nil {
				return nil, err
			}
			category.ParentID = input.ParentID
		}
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errorutil.NewValidationError("name cannot be blank", nil)
		}
		category.Name = name
	}
	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, errorutil.NewValidationError("code cannot be blank", nil)
		}
		category.Code = code
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return category, nil
}

// DeleteCategory removes a leaf node with no assets attached.
func (s *AssetService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.getCategory(ctx, id); err != nil {
		return err
	}
	children, err := s.categories.CountChildren(ctx, id)
	if err != nil {
		return errorutil.NewPersistenceError(err)
	}
	if children > 0 {
		return errorutil.NewConflict("category has child categories", map[string]any{"category_id": id})
	}
	attached, err := s.assets.CountByCategory(ctx, id)
	if err != nil {
		return errorutil.NewPersistenceError(err)
	}
	if attached > 0 {
		return errorutil.NewConflict("category has assets attached", map[string]any{"category_id": id})
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return errorutil.NewPersistenceError(err)
	}
	return nil
}

// CategoryTree builds the nested tree from the flat table. Children are
// ordered by sort order, then name.
func (s *AssetService) CategoryTree(ctx context.Context) ([]*domain.CategoryNode, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return BuildCategoryTree(categories), nil
}

// BuildCategoryTree assembles nodes from flat rows. Rows referencing a
// missing parent are treated as roots rather than dropped.
func BuildCategoryTree(categories []domain.AssetCategory) []*domain.CategoryNode {
	nodes := make(map[string]*domain.CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &domain.CategoryNode{AssetCategory: categories[i]}
	}

	var roots []*domain.CategoryNode
	for _, node := range nodes {
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortNodes func([]*domain.CategoryNode)
	sortNodes = func(list []*domain.CategoryNode) {
		sort.Slice(list, func(i, j int) bool {
			if list[i].SortOrder != list[j].SortOrder {
				return list[i].SortOrder < list[j].SortOrder
			}
			return list[i].Name < list[j].Name
		})
		for _, node := range list {
			sortNodes(node.Children)
		}
	}
	sortNodes(roots)
	return roots
}

// SubtreeIDs returns the category id plus all descendant ids.
func (s *AssetService) SubtreeIDs(ctx context.Context, categoryID string) ([]string, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	children := make(map[string][]string)
	known := false
	for _, category := range categories {
		if category.ID == categoryID {
			known = true
		}
		if category.ParentID != nil {
			children[*category.ParentID] = append(children[*category.ParentID], category.ID)
		}
	}
	if !known {
		return nil, errorutil.NewNotFound("asset category", map[string]any{"category_id": categoryID})
	}

	ids := []string{categoryID}
	queue := []string{categoryID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids, nil
}

func (s *AssetService) getCategory(ctx context.Context, id string) (*domain.AssetCategory, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("asset category", map[string]any{"category_id": id})
		}
		return nil, errorutil.NewPersistenceError(err)
	}
	return category, nil
}
