// Package agent contains the detection and analysis orchestrators.
//
// Each Process call runs the pipeline normalize, summarize context,
// build prompt, invoke model, validate response, and for detection
// conditionally build an incident. Every fault inside the pipeline is
// recovered at this boundary and converted into an error envelope;
// callers receive an envelope, never a fault. The model invocation is
// the sole external call and is not retried here.
package agent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"opsaix/internal/models"
)

// Agent names reported in envelopes and log lines.
const (
	DetectionAgentName = "IncidentDetectionAgent"
	AnalysisAgentName  = "IncidentAnalysisAgent"
)

// Sink receives completed incidents for external side effects such as
// ticket creation or chat notification. Implementations log their own
// failures; a sink failure never rolls back the incident.
type Sink interface {
	HandleIncident(ctx context.Context, incident *models.Incident) error
}

func defaultLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func utcNow() time.Time {
	return time.Now().UTC()
}
