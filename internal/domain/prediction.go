package domain

import "time"

// PredictionMetric names a series the forecast generator maintains.
type PredictionMetric string

const (
	PredictionMetricTicketVolume PredictionMetric = "ticket_volume"
	PredictionMetricAlertVolume  PredictionMetric = "alert_volume"
)

// PredictionReport is one forecast point, regenerated wholesale by the
// background worker.
type PredictionReport struct {
	ID             string
	Metric         PredictionMetric
	BucketDate     time.Time
	PredictedValue float64
	GeneratedAt    time.Time
}
