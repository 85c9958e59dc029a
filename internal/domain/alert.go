package domain

import "time"

// AlertSeverity orders alerts for dashboards.
type AlertSeverity string

const (
	AlertSeverityCritical AlertSeverity = "CRITICAL"
	AlertSeverityMajor    AlertSeverity = "MAJOR"
	AlertSeverityMinor    AlertSeverity = "MINOR"
	AlertSeverityInfo     AlertSeverity = "INFO"
)

// AlertStatus enumerates the alert handling states.
type AlertStatus string

const (
	AlertStatusFiring       AlertStatus = "FIRING"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// Alert records a monitoring event raised against an asset.
type Alert struct {
	ID             string
	AssetID        *string
	Severity       AlertSeverity
	Title          string
	Message        string
	Status         AlertStatus
	FiredAt        time.Time
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
}
