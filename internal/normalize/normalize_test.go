package normalize

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsaix/internal/models"
)

func TestNormalize_Text(t *testing.T) {
	text := "2024-01-15 [ERROR] connection refused\nsecond line"
	assert.Equal(t, text, Normalize(Text(text)))
}

func TestNormalize_LogEntry(t *testing.T) {
	entry := &models.LogEntry{
		ID:        "e-1",
		Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Level:     models.LogLevelError,
		Message:   "Database connection failed",
		Source:    "web-api",
		Fields:    map[string]any{"retries": 3.0},
	}

	out := Normalize(Log(entry))

	assert.True(t, strings.HasPrefix(out, "LOG ENTRY:\n"))
	assert.Contains(t, out, "Level: error")
	assert.Contains(t, out, "Message: Database connection failed")
	assert.Contains(t, out, "Source: web-api")
	// Absent optional fields are substituted, not omitted.
	assert.Contains(t, out, "Hostname: Unknown")
	assert.Contains(t, out, "Exception: None")
	assert.Contains(t, out, `"retries":3`)
}

func TestNormalize_Alert(t *testing.T) {
	alert := &models.Alert{
		ID:        "a-1",
		Title:     "High CPU",
		Message:   "CPU above 95% for 10m",
		Severity:  models.AlertSeverityCritical,
		Source:    "prometheus",
		Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Labels:    map[string]string{"instance": "node-1"},
	}

	out := Normalize(Alert(alert))

	assert.True(t, strings.HasPrefix(out, "ALERT:\n"))
	assert.Contains(t, out, "Title: High CPU")
	assert.Contains(t, out, "Severity: critical")
	assert.Contains(t, out, "Component: Unknown")
	assert.Contains(t, out, `"instance":"node-1"`)
}

func TestNormalize_ListTruncation(t *testing.T) {
	items := make([]Input, 120)
	for i := range items {
		items[i] = Text(fmt.Sprintf("line %d", i))
	}

	out := Normalize(List(items...))

	// Only the first 50 elements survive, joined by 49 separators.
	assert.Equal(t, 49, strings.Count(out, "---"))
	assert.Contains(t, out, "line 0")
	assert.Contains(t, out, "line 49")
	assert.NotContains(t, out, "line 50")
}

func TestNormalize_Mapping(t *testing.T) {
	out := Normalize(Mapping(map[string]any{
		"service": "web-api",
		"count":   42.0,
	}))

	assert.Contains(t, out, `"service": "web-api"`)
	assert.Contains(t, out, `"count": 42`)
}

func TestNormalize_MappingWithNonSerializableValues(t *testing.T) {
	// Channels cannot be marshalled; they degrade to their string form
	// instead of failing.
	out := Normalize(Mapping(map[string]any{
		"ch":      make(chan int),
		"service": "web-api",
	}))

	assert.Contains(t, out, `"service": "web-api"`)
	assert.Contains(t, out, `"ch"`)
}

func TestNormalize_Other(t *testing.T) {
	assert.Equal(t, "42", Normalize(Other(42)))
	assert.Equal(t, "<nil>", Normalize(Other(nil)))
}

// Normalization is total: every variant yields text without panicking,
// including empty and nil-carrying inputs.
func TestNormalize_Totality(t *testing.T) {
	inputs := []Input{
		Text(""),
		Log(nil),
		Alert(nil),
		List(),
		List(Log(nil), Alert(nil), Mapping(nil)),
		Mapping(nil),
		Mapping(map[string]any{}),
		Other(nil),
		Other(struct{ X int }{1}),
		{},
	}

	for i, in := range inputs {
		assert.NotPanics(t, func() { _ = Normalize(in) }, "input %d", i)
	}
}

func TestRenderIncident(t *testing.T) {
	inc := models.NewIncident("INC-20240115-000042", "API Errors", "5xx spike", models.IncidentSeverityHigh)
	inc.AffectedComponents = []string{"api", "gateway"}
	inc.AddTag("api")

	out := RenderIncident(inc)

	require.Contains(t, out, "ID: INC-20240115-000042")
	assert.Contains(t, out, "Severity: high")
	assert.Contains(t, out, "Status: new")
	assert.Contains(t, out, "Affected Components: api, gateway")
	assert.Contains(t, out, "Affected Service: Unknown")
	assert.Contains(t, out, "Assigned To: Unassigned")
	assert.Contains(t, out, "Ticket: None")
}
