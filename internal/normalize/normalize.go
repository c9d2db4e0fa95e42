// Package normalize converts heterogeneous operational input (raw text,
// log entries, alerts, lists, mappings) into prompt-ready text.
//
// Normalization is total: every input variant resolves to some text and
// no renderer returns an error. Inputs the renderers do not understand
// degrade to their string representation.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"opsaix/internal/models"
)

// MaxListItems caps how many list elements are normalized. Anything past
// the cap is dropped silently to keep prompt size bounded.
const MaxListItems = 50

// listSeparator joins normalized list elements.
const listSeparator = "\n\n---\n\n"

// Kind discriminates the input variants.
type Kind int

// Input variants.
const (
	KindText Kind = iota
	KindLog
	KindAlert
	KindList
	KindMapping
	KindOther
)

// Input is a tagged union over the supported input shapes. Construct it
// with Text, Log, Alert, List, Mapping, or Other; the zero value renders
// as empty text.
type Input struct {
	kind    Kind
	text    string
	log     *models.LogEntry
	alert   *models.Alert
	list    []Input
	mapping map[string]any
	other   any
}

// Kind returns the variant tag.
func (in Input) Kind() Kind { return in.kind }

// Text wraps raw text.
func Text(s string) Input { return Input{kind: KindText, text: s} }

// Log wraps a structured log entry.
func Log(entry *models.LogEntry) Input { return Input{kind: KindLog, log: entry} }

// Alert wraps a structured alert.
func Alert(a *models.Alert) Input { return Input{kind: KindAlert, alert: a} }

// List wraps an ordered sequence of inputs.
func List(items ...Input) Input { return Input{kind: KindList, list: items} }

// Mapping wraps a key-value mapping.
func Mapping(m map[string]any) Input { return Input{kind: KindMapping, mapping: m} }

// Other wraps any value the caller could not classify.
func Other(v any) Input { return Input{kind: KindOther, other: v} }

// Normalize renders the input as analyzable text. It never fails.
func Normalize(in Input) string {
	switch in.kind {
	case KindText:
		return in.text
	case KindLog:
		return renderLogEntry(in.log)
	case KindAlert:
		return renderAlert(in.alert)
	case KindList:
		return renderList(in.list)
	case KindMapping:
		return renderMapping(in.mapping)
	default:
		return fmt.Sprint(in.other)
	}
}

func renderLogEntry(entry *models.LogEntry) string {
	if entry == nil {
		return "LOG ENTRY:\n<nil>"
	}
	var b strings.Builder
	b.WriteString("LOG ENTRY:\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", entry.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "Level: %s\n", entry.Level)
	fmt.Fprintf(&b, "Source: %s\n", orUnknown(entry.Source))
	fmt.Fprintf(&b, "Message: %s\n", entry.Message)
	fmt.Fprintf(&b, "Hostname: %s\n", orUnknown(entry.Hostname))
	fmt.Fprintf(&b, "Service: %s\n", orUnknown(entry.ServiceName))
	fmt.Fprintf(&b, "Fields: %s\n", compactJSON(entry.Fields))
	fmt.Fprintf(&b, "Exception: %s\n", orNone(entry.Exception))
	return b.String()
}

func renderAlert(a *models.Alert) string {
	if a == nil {
		return "ALERT:\n<nil>"
	}
	var b strings.Builder
	b.WriteString("ALERT:\n")
	fmt.Fprintf(&b, "Title: %s\n", a.Title)
	fmt.Fprintf(&b, "Severity: %s\n", a.Severity)
	fmt.Fprintf(&b, "Message: %s\n", a.Message)
	fmt.Fprintf(&b, "Source: %s\n", orUnknown(a.Source))
	fmt.Fprintf(&b, "Timestamp: %s\n", a.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "Component: %s\n", orUnknown(a.Component))
	fmt.Fprintf(&b, "Labels: %s\n", compactJSON(a.Labels))
	return b.String()
}

func renderList(items []Input) string {
	if len(items) > MaxListItems {
		items = items[:MaxListItems]
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, Normalize(item))
	}
	return strings.Join(parts, listSeparator)
}

func renderMapping(m map[string]any) string {
	data, err := json.MarshalIndent(sanitize(m), "", "  ")
	if err != nil {
		return fmt.Sprint(m)
	}
	return string(data)
}

// RenderIncident renders an incident into the fixed label:value layout the
// analysis prompt expects.
func RenderIncident(inc *models.Incident) string {
	if inc == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", inc.ID)
	fmt.Fprintf(&b, "Title: %s\n", inc.Title)
	fmt.Fprintf(&b, "Description: %s\n", inc.Description)
	fmt.Fprintf(&b, "Severity: %s\n", inc.Severity)
	fmt.Fprintf(&b, "Status: %s\n", inc.Status)
	fmt.Fprintf(&b, "Created: %s\n", inc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "Updated: %s\n", inc.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "Affected Service: %s\n", orUnknown(inc.AffectedService))
	fmt.Fprintf(&b, "Affected Components: %s\n", orNone(strings.Join(inc.AffectedComponents, ", ")))
	if inc.AssignedTo != "" {
		fmt.Fprintf(&b, "Assigned To: %s\n", inc.AssignedTo)
	} else {
		b.WriteString("Assigned To: Unassigned\n")
	}
	fmt.Fprintf(&b, "Tags: %s\n", orNone(strings.Join(inc.Tags, ", ")))
	fmt.Fprintf(&b, "Ticket: %s\n", orNone(inc.TicketID))
	fmt.Fprintf(&b, "Metadata: %s\n", renderMapping(inc.Metadata))
	return b.String()
}

// sanitize replaces values encoding/json cannot handle (channels, funcs,
// cycles) with their string representation so mapping rendering cannot
// fail.
func sanitize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = sanitize(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = sanitize(x[i])
		}
		return out
	default:
		if _, err := json.Marshal(x); err != nil {
			return fmt.Sprint(x)
		}
		return x
	}
}

func compactJSON(v any) string {
	if v == nil {
		return "{}"
	}
	data, err := json.Marshal(sanitize(toAnyMap(v)))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func toAnyMap(v any) any {
	if m, ok := v.(map[string]string); ok {
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	}
	return v
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
