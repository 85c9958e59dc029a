package dto

import (
	"time"

	"github.com/ops-kit/netops-service/internal/domain"
	"github.com/ops-kit/netops-service/internal/service"
)

// CountItemResponse is one label/count chart slice.
type CountItemResponse struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TicketSummaryResponse bundles status and priority distributions.
type TicketSummaryResponse struct {
	ByStatus   []CountItemResponse `json:"by_status"`
	ByPriority []CountItemResponse `json:"by_priority"`
}

// SLAReportResponse is the SLA aggregate for a window.
type SLAReportResponse struct {
	ResolvedCount      int64   `json:"resolved_count"`
	CompliantCount     int64   `json:"compliant_count"`
	TimeoutCount       int64   `json:"timeout_count"`
	RatePercent        float64 `json:"rate_percent"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

// TrendPointResponse is one dense series bucket.
type TrendPointResponse struct {
	Bucket   time.Time `json:"bucket"`
	Created  int64     `json:"created"`
	Resolved int64     `json:"resolved"`
	Fallback bool      `json:"fallback,omitempty"`
}

// CategorySliceResponse counts assets per root category.
type CategorySliceResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Count      int64  `json:"count"`
}

// AssetSummaryResponse bundles asset distributions.
type AssetSummaryResponse struct {
	ByStatus   []CountItemResponse     `json:"by_status"`
	ByCategory []CategorySliceResponse `json:"by_category"`
}

// TopAssetResponse is one ranking entry.
type TopAssetResponse struct {
	AssetID string             `json:"asset_id"`
	Name    string             `json:"name"`
	Status  domain.AssetStatus `json:"status"`
	Value   float64            `json:"value"`
}

// PredictionResponse is one forecast point.
type PredictionResponse struct {
	Metric         domain.PredictionMetric `json:"metric"`
	BucketDate     time.Time               `json:"bucket_date"`
	PredictedValue float64                 `json:"predicted_value"`
	GeneratedAt    time.Time               `json:"generated_at"`
}

// NewCountItems maps service count items.
func NewCountItems(items []service.CountItem) []CountItemResponse {
	result := make([]CountItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, CountItemResponse{Label: item.Label, Count: item.Count})
	}
	return result
}

// NewSLAReportResponse maps the SLA aggregate.
func NewSLAReportResponse(stats service.SLAStats) SLAReportResponse {
	return SLAReportResponse{
		ResolvedCount:      stats.ResolvedCount,
		CompliantCount:     stats.CompliantCount,
		TimeoutCount:       stats.TimeoutCount,
		RatePercent:        stats.RatePercent,
		AvgResolutionHours: stats.AvgResolutionHours,
	}
}

// NewTrendPoints maps a dense series.
func NewTrendPoints(points []service.TrendPoint) []TrendPointResponse {
	result := make([]TrendPointResponse, 0, len(points))
	for _, point := range points {
		result = append(result, TrendPointResponse{
			Bucket:   point.Bucket,
			Created:  point.Created,
			Resolved: point.Resolved,
			Fallback: point.Fallback,
		})
	}
	return result
}

// NewCategorySlices maps root category counts.
func NewCategorySlices(slices []service.CategorySlice) []CategorySliceResponse {
	result := make([]CategorySliceResponse, 0, len(slices))
	for _, slice := range slices {
		result = append(result, CategorySliceResponse{
			CategoryID: slice.CategoryID,
			Name:       slice.Name,
			Count:      slice.Count,
		})
	}
	return result
}

// NewTopAssets maps ranking rows.
func NewTopAssets(assets []service.TopAsset) []TopAssetResponse {
	result := make([]TopAssetResponse, 0, len(assets))
	for _, asset := range assets {
		result = append(result, TopAssetResponse{
			AssetID: asset.AssetID,
			Name:    asset.Name,
			Status:  asset.Status,
			Value:   asset.Value,
		})
	}
	return result
}

// NewPredictions maps forecast rows.
func NewPredictions(reports []domain.PredictionReport) []PredictionResponse {
	result := make([]PredictionResponse, 0, len(reports))
	for _, report := range reports {
		result = append(result, PredictionResponse{
			Metric:         report.Metric,
			BucketDate:     report.BucketDate,
			PredictedValue: report.PredictedValue,
			GeneratedAt:    report.GeneratedAt,
		})
	}
	return result
}
