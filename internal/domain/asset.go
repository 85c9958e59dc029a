package domain

import "time"

// AssetStatus enumerates monitoring states for an asset.
type AssetStatus string

const (
	AssetStatusOnline  AssetStatus = "ONLINE"
	AssetStatusOffline AssetStatus = "OFFLINE"
	AssetStatusWarning AssetStatus = "WARNING"
)

// Asset is a monitored piece of infrastructure.
type Asset struct {
	ID          string
	CategoryID  string
	Name        string
	Status      AssetStatus
	CPUUsage    float64
	MemoryUsage float64
	DiskUsage   float64
	NetworkMbps float64
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssetCategory is a node in the asset classification tree. A nil ParentID
// marks a root category.
type AssetCategory struct {
	ID        string
	ParentID  *string
	Name      string
	Code      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryNode is an AssetCategory with resolved children, used by the
// tree endpoint.
type CategoryNode struct {
	AssetCategory
	Children []*CategoryNode
}
