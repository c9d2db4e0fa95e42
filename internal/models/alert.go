package models

import "time"

// AlertSeverity is the severity reported by the alerting source.
type AlertSeverity string

// Alert severities as emitted by monitoring systems.
const (
	AlertSeverityCritical AlertSeverity = "critical"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityInfo     AlertSeverity = "info"
)

// Alert is a notification raised by an external monitoring system.
type Alert struct {
	// ID uniquely identifies this alert.
	ID string `json:"id"`

	// Title is a short alert title.
	Title string `json:"title"`

	// Message is the alert message content.
	Message string `json:"message"`

	// Severity of the alert.
	Severity AlertSeverity `json:"severity"`

	// Source is the originating system (e.g. "prometheus", "datadog").
	Source string `json:"source"`

	// SourceID is the source-specific identifier, if any.
	SourceID string `json:"source_id,omitempty"`

	// Timestamp is when the alert fired.
	Timestamp time.Time `json:"timestamp"`

	// ResolvedAt is when the alert was resolved, if it has been.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// Category classifies the alert (e.g. "infrastructure", "security").
	Category string `json:"category,omitempty"`

	// Component names the affected component (e.g. "database").
	Component string `json:"component,omitempty"`

	// IsResolved marks whether the alert has been resolved.
	IsResolved bool `json:"is_resolved"`

	// IsAcknowledged marks whether an operator has acknowledged the alert.
	IsAcknowledged bool `json:"is_acknowledged"`

	// Labels from the alerting source.
	Labels map[string]string `json:"labels,omitempty"`

	// Annotations from the alerting source.
	Annotations map[string]string `json:"annotations,omitempty"`

	// IncidentID links the alert to an incident, if associated.
	IncidentID string `json:"incident_id,omitempty"`
}

// Acknowledge marks the alert as acknowledged.
func (a *Alert) Acknowledge() {
	a.IsAcknowledged = true
}

// Resolve marks the alert as resolved. A zero resolvedAt defaults to now,
// so a resolved alert always carries a resolution timestamp.
func (a *Alert) Resolve(resolvedAt time.Time) {
	a.IsResolved = true
	if resolvedAt.IsZero() {
		resolvedAt = time.Now().UTC()
	}
	a.ResolvedAt = &resolvedAt
}

// AssociateIncident links the alert to an incident.
func (a *Alert) AssociateIncident(incidentID string) {
	a.IncidentID = incidentID
}
