package dto

import (
	"time"

	"github.com/ops-kit/netops-service/internal/domain"
)

// AssetRequest payload for create.
type AssetRequest struct {
	CategoryID  string             `json:"category_id"`
	Name        string             `json:"name"`
	Status      domain.AssetStatus `json:"status"`
	CPUUsage    float64            `json:"cpu_usage"`
	MemoryUsage float64            `json:"memory_usage"`
	DiskUsage   float64            `json:"disk_usage"`
	NetworkMbps float64            `json:"network_mbps"`
	Location    string             `json:"location"`
}

// UpdateAssetRequest payload; omitted fields keep their value.
type UpdateAssetRequest struct {
	CategoryID  *string             `json:"category_id"`
	Name        *string             `json:"name"`
	Status      *domain.AssetStatus `json:"status"`
	CPUUsage    *float64            `json:"cpu_usage"`
	MemoryUsage *float64            `json:"memory_usage"`
	DiskUsage   *float64            `json:"disk_usage"`
	NetworkMbps *float64            `json:"network_mbps"`
	Location    *string             `json:"location"`
}

// AssetResponse wire shape.
type AssetResponse struct {
	ID          string             `json:"id"`
	CategoryID  string             `json:"category_id"`
	Name        string             `json:"name"`
	Status      domain.AssetStatus `json:"status"`
	CPUUsage    float64            `json:"cpu_usage"`
	MemoryUsage float64            `json:"memory_usage"`
	DiskUsage   float64            `json:"disk_usage"`
	NetworkMbps float64            `json:"network_mbps"`
	Location    string             `json:"location"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CategoryRequest payload for create.
type CategoryRequest struct {
	ParentID  *string `json:"parent_id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	SortOrder int     `json:"sort_order"`
}

// UpdateCategoryRequest payload; omitted fields keep their value. An empty
// parent_id moves the node to the root level.
type UpdateCategoryRequest struct {
	ParentID  *string `json:"parent_id"`
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	SortOrder *int    `json:"sort_order"`
}

// CategoryResponse wire shape of one flat node.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryTreeNode is a nested tree node.
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// NewAssetResponse maps a domain asset.
func NewAssetResponse(asset *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:          asset.ID,
		CategoryID:  asset.CategoryID,
		Name:        asset.Name,
		Status:      asset.Status,
		CPUUsage:    asset.CPUUsage,
		MemoryUsage: asset.MemoryUsage,
		DiskUsage:   asset.DiskUsage,
		NetworkMbps: asset.NetworkMbps,
		Location:    asset.Location,
		CreatedAt:   asset.CreatedAt,
		UpdatedAt:   asset.UpdatedAt,
	}
}

// NewCategoryResponse maps a flat category node.
func NewCategoryResponse(category *domain.AssetCategory) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		ParentID:  category.ParentID,
		Name:      category.Name,
		Code:      category.Code,
		SortOrder: category.SortOrder,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// NewCategoryTree maps nested nodes recursively.
func NewCategoryTree(nodes []*domain.CategoryNode) []CategoryTreeNode {
	result := make([]CategoryTreeNode, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, CategoryTreeNode{
			CategoryResponse: NewCategoryResponse(&node.AssetCategory),
			Children:         NewCategoryTree(node.Children),
		})
	}
	return result
}
