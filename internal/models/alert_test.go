package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlert_Acknowledge(t *testing.T) {
	alert := &Alert{ID: "a-1", Title: "disk usage", Severity: AlertSeverityWarning}

	alert.Acknowledge()

	assert.True(t, alert.IsAcknowledged)
	assert.False(t, alert.IsResolved)
}

func TestAlert_Resolve_ExplicitTimestamp(t *testing.T) {
	resolvedAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	alert := &Alert{ID: "a-1", Severity: AlertSeverityCritical}

	alert.Resolve(resolvedAt)

	assert.True(t, alert.IsResolved)
	require.NotNil(t, alert.ResolvedAt)
	assert.Equal(t, resolvedAt, *alert.ResolvedAt)
}

func TestAlert_Resolve_DefaultsToNow(t *testing.T) {
	alert := &Alert{ID: "a-1", Severity: AlertSeverityInfo}

	alert.Resolve(time.Time{})

	// A resolved alert always carries a resolution timestamp.
	assert.True(t, alert.IsResolved)
	require.NotNil(t, alert.ResolvedAt)
	assert.WithinDuration(t, time.Now().UTC(), *alert.ResolvedAt, 5*time.Second)
}

func TestAlert_AssociateIncident(t *testing.T) {
	alert := &Alert{ID: "a-1"}

	alert.AssociateIncident("INC-20240115-000042")

	assert.Equal(t, "INC-20240115-000042", alert.IncidentID)
}
