package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"opsaix/internal/llm"
	"opsaix/internal/logging"
	"opsaix/internal/models"
	"opsaix/internal/normalize"
	"opsaix/internal/prompt"
	"opsaix/internal/response"
)

// DetectionEnvelope is the uniform result of a detection run. Error runs
// carry a failure-shaped detection result, a nil incident, and a
// non-empty Error.
type DetectionEnvelope struct {
	DetectionResult models.DetectionResult `json:"detection_result"`
	Incident        *models.Incident       `json:"incident"`
	ProcessedAt     time.Time              `json:"processed_at"`
	Agent           string                 `json:"agent"`
	Error           string                 `json:"error,omitempty"`
}

// DetectionAgent decides whether operational data describes an incident.
type DetectionAgent struct {
	name   string
	client llm.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewDetectionAgent creates a detection agent bound to a model client.
// The client must be safe for concurrent use if Process is called
// concurrently.
func NewDetectionAgent(client llm.Client, logger *zap.Logger) *DetectionAgent {
	return &DetectionAgent{
		name:   DetectionAgentName,
		client: client,
		logger: defaultLogger(logger).With(logging.AgentName(DetectionAgentName)),
		now:    utcNow,
	}
}

// Name returns the agent name used in envelopes.
func (a *DetectionAgent) Name() string { return a.name }

// Process runs one detection over the input with optional context data.
// It never returns a fault; failures come back inside the envelope.
func (a *DetectionAgent) Process(ctx context.Context, input normalize.Input, contextData map[string]any) (env *DetectionEnvelope) {
	start := a.now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("detection_recovered", zap.Any("cause", r))
			env = a.errorEnvelope(fmt.Sprintf("detection failed: %v", r))
		}
	}()

	data := normalize.Normalize(input)
	summary := normalize.SummarizeContext(contextData)

	messages := []llm.Message{
		llm.System(prompt.System(a.name)),
		llm.User(prompt.Detection(data, summary)),
	}

	raw, err := a.client.Invoke(ctx, messages)
	if err != nil {
		a.logger.Error("detection_model_call_failed",
			logging.Model(a.client.Name()),
			zap.Error(err),
		)
		return a.errorEnvelope(err.Error())
	}

	result := response.ValidateDetection(raw)

	var incident *models.Incident
	if result.IncidentDetected() {
		incident = BuildIncident(result, a.name, a.now())
	}

	fields := []zap.Field{
		logging.Confidence(result.ConfidenceScore()),
		logging.Duration(a.now().Sub(start)),
		zap.Bool("incident_detected", result.IncidentDetected()),
	}
	if incident != nil {
		fields = append(fields, logging.IncidentID(incident.ID))
	}
	a.logger.Info("detection_completed", fields...)

	return &DetectionEnvelope{
		DetectionResult: result,
		Incident:        incident,
		ProcessedAt:     a.now(),
		Agent:           a.name,
	}
}

func (a *DetectionAgent) errorEnvelope(message string) *DetectionEnvelope {
	return &DetectionEnvelope{
		DetectionResult: models.DetectionResult{
			models.KeyIncidentDetected: false,
			models.KeyConfidenceScore:  0.0,
		},
		Incident:    nil,
		ProcessedAt: a.now(),
		Agent:       a.name,
		Error:       message,
	}
}

// severityTable maps model severity strings onto the incident enum.
// Anything else falls back to medium.
var severityTable = map[string]models.IncidentSeverity{
	"critical": models.IncidentSeverityCritical,
	"high":     models.IncidentSeverityHigh,
	"medium":   models.IncidentSeverityMedium,
	"low":      models.IncidentSeverityLow,
}

// BuildIncident converts a validated detection result into an incident.
// The supplied instant determines both the ID and the creation
// timestamps, which keeps construction deterministic under test.
func BuildIncident(result models.DetectionResult, agentName string, now time.Time) *models.Incident {
	id := fmt.Sprintf("INC-%s-%06d", now.Format("20060102"), now.Nanosecond()/1000)

	severity, ok := severityTable[strings.ToLower(result.String(models.KeySeverity, ""))]
	if !ok {
		severity = models.IncidentSeverityMedium
	}

	incident := models.NewIncident(
		id,
		result.String(models.KeyTitle, "Detected Incident"),
		result.String(models.KeyDescription, "Incident detected by AI analysis"),
		severity,
	)
	incident.CreatedAt = now
	incident.UpdatedAt = now

	incident.AffectedService = result.String(models.KeyAffectedService, "")
	if components := result.StringSlice(models.KeyAffectedComponents); components != nil {
		incident.AffectedComponents = components
	} else {
		incident.AffectedComponents = []string{}
	}
	for _, tag := range result.StringSlice(models.KeyTags) {
		incident.AddTag(tag)
	}
	if incident.Tags == nil {
		incident.Tags = []string{}
	}
	incident.UpdatedAt = now

	incident.Metadata = map[string]any{
		"detection_confidence": result.ConfidenceScore(),
		"recommended_actions":  result.StringSlice(models.KeyRecommendedActions),
		"urgency_reasons":      result.StringSlice(models.KeyUrgencyReasons),
		"detected_by":          agentName,
	}

	return incident
}

// DetectFromLogs runs detection over a batch of log entries.
func DetectFromLogs(ctx context.Context, a *DetectionAgent, entries []*models.LogEntry, contextData map[string]any) *DetectionEnvelope {
	items := make([]normalize.Input, 0, len(entries))
	for _, entry := range entries {
		items = append(items, normalize.Log(entry))
	}
	return a.Process(ctx, normalize.List(items...), contextData)
}

// DetectFromText runs detection over free-form operational text.
func DetectFromText(ctx context.Context, a *DetectionAgent, text string, contextData map[string]any) *DetectionEnvelope {
	return a.Process(ctx, normalize.Text(text), contextData)
}
