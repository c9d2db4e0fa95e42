package models

import (
	"encoding/json"
	"time"
)

// IncidentSeverity is the operational severity assigned to an incident.
type IncidentSeverity string

// Incident severities, highest to lowest.
const (
	IncidentSeverityCritical IncidentSeverity = "critical"
	IncidentSeverityHigh     IncidentSeverity = "high"
	IncidentSeverityMedium   IncidentSeverity = "medium"
	IncidentSeverityLow      IncidentSeverity = "low"
)

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

// Incident lifecycle states.
const (
	IncidentStatusNew           IncidentStatus = "new"
	IncidentStatusInProgress    IncidentStatus = "in_progress"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusResolved      IncidentStatus = "resolved"
	IncidentStatusClosed        IncidentStatus = "closed"
)

// Incident is an operational incident, either detected by an agent or
// reported directly. Persistence is handled by external collaborators;
// this package only maintains the entity's invariants.
type Incident struct {
	// ID uniquely identifies the incident (INC-<YYYYMMDD>-<microseconds>).
	ID string `json:"id"`

	// Title is a brief incident title.
	Title string `json:"title"`

	// Description is the detailed incident description.
	Description string `json:"description"`

	// Severity of the incident.
	Severity IncidentSeverity `json:"severity"`

	// Status is the current lifecycle state.
	Status IncidentStatus `json:"status"`

	// CreatedAt is when the incident was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// ResolvedAt is set when the incident transitions to resolved.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// AssignedTo is the current assignee, if any.
	AssignedTo string `json:"assigned_to,omitempty"`

	// Reporter is who reported the incident, if known.
	Reporter string `json:"reporter,omitempty"`

	// AffectedService names the impacted service, if identified.
	AffectedService string `json:"affected_service,omitempty"`

	// AffectedComponents lists impacted components in order of relevance.
	AffectedComponents []string `json:"affected_components,omitempty"`

	// TicketID references an external ticket (e.g. JIRA), if created.
	TicketID string `json:"ticket_id,omitempty"`

	// ThreadID references a chat thread (e.g. Slack), if created.
	ThreadID string `json:"thread_id,omitempty"`

	// RootCause holds root-cause text once analysis has concluded.
	RootCause string `json:"root_cause,omitempty"`

	// ResolutionSummary describes how the incident was resolved.
	ResolutionSummary string `json:"resolution_summary,omitempty"`

	// Tags is an insertion-ordered set of labels (no duplicates).
	Tags []string `json:"tags,omitempty"`

	// Metadata carries open-ended data attached by producers.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewIncident creates an incident with status new and creation timestamps
// set to now.
func NewIncident(id, title, description string, severity IncidentSeverity) *Incident {
	now := time.Now().UTC()
	return &Incident{
		ID:          id,
		Title:       title,
		Description: description,
		Severity:    severity,
		Status:      IncidentStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateStatus transitions the incident to the given status. When the
// status is resolved and resolvedAt is non-zero, the resolution timestamp
// is recorded.
func (i *Incident) UpdateStatus(status IncidentStatus, resolvedAt time.Time) {
	i.Status = status
	i.touch()
	if status == IncidentStatusResolved && !resolvedAt.IsZero() {
		i.ResolvedAt = &resolvedAt
	}
}

// AddTag appends a tag unless it is already present.
func (i *Incident) AddTag(tag string) {
	for _, t := range i.Tags {
		if t == tag {
			return
		}
	}
	i.Tags = append(i.Tags, tag)
	i.touch()
}

// SetTicket associates an external ticket with the incident.
func (i *Incident) SetTicket(ticketID string) {
	i.TicketID = ticketID
	i.touch()
}

// SetThread associates a chat thread with the incident.
func (i *Incident) SetThread(threadID string) {
	i.ThreadID = threadID
	i.touch()
}

func (i *Incident) touch() {
	i.UpdatedAt = time.Now().UTC()
}

// ToJSON serializes the incident to JSON bytes.
func (i *Incident) ToJSON() ([]byte, error) {
	return json.Marshal(i)
}

// IncidentFromJSON deserializes an incident from JSON bytes.
func IncidentFromJSON(data []byte) (*Incident, error) {
	var incident Incident
	if err := json.Unmarshal(data, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}
