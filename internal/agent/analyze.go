package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"opsaix/internal/llm"
	"opsaix/internal/logging"
	"opsaix/internal/models"
	"opsaix/internal/normalize"
	"opsaix/internal/prompt"
	"opsaix/internal/response"
)

// AnalysisEnvelope is the uniform result of an analysis run. Error runs
// carry a nil analysis and a non-empty Error. IncidentID is taken from
// the input incident when present, null otherwise.
type AnalysisEnvelope struct {
	Analysis   models.AnalysisResult `json:"analysis"`
	AnalyzedAt time.Time             `json:"analyzed_at"`
	Agent      string                `json:"agent"`
	IncidentID *string               `json:"incident_id"`
	Error      string                `json:"error,omitempty"`
}

// AnalysisAgent produces the five-section deep analysis of an incident.
type AnalysisAgent struct {
	name   string
	client llm.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalysisAgent creates an analysis agent bound to a model client.
func NewAnalysisAgent(client llm.Client, logger *zap.Logger) *AnalysisAgent {
	return &AnalysisAgent{
		name:   AnalysisAgentName,
		client: client,
		logger: defaultLogger(logger).With(logging.AgentName(AnalysisAgentName)),
		now:    utcNow,
	}
}

// Name returns the agent name used in envelopes.
func (a *AnalysisAgent) Name() string { return a.name }

// Process runs one analysis of the incident with optional context data
// (recent logs, metrics, related alerts, service health). It never
// returns a fault; failures come back inside the envelope.
func (a *AnalysisAgent) Process(ctx context.Context, incident *models.Incident, contextData map[string]any) (env *AnalysisEnvelope) {
	start := a.now()
	incidentID := extractIncidentID(incident)
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis_recovered", zap.Any("cause", r))
			env = a.errorEnvelope(incidentID, fmt.Sprintf("analysis failed: %v", r))
		}
	}()

	rendered := normalize.RenderIncident(incident)
	additional := normalize.RenderAdditionalData(contextData)
	summary := normalize.SummarizeContext(contextData)

	messages := []llm.Message{
		llm.System(prompt.System(a.name) + prompt.AnalysisSystemSuffix),
		llm.User(prompt.Analysis(rendered, additional, summary)),
	}

	raw, err := a.client.Invoke(ctx, messages)
	if err != nil {
		a.logger.Error("analysis_model_call_failed",
			logging.Model(a.client.Name()),
			zap.Error(err),
		)
		return a.errorEnvelope(incidentID, err.Error())
	}

	analysis := response.ValidateAnalysis(raw)

	fields := []zap.Field{
		logging.Confidence(analysis.ConfidenceScore()),
		logging.Duration(a.now().Sub(start)),
	}
	if incidentID != nil {
		fields = append(fields, logging.IncidentID(*incidentID))
	}
	a.logger.Info("analysis_completed", fields...)

	return &AnalysisEnvelope{
		Analysis:   analysis,
		AnalyzedAt: a.now(),
		Agent:      a.name,
		IncidentID: incidentID,
	}
}

func (a *AnalysisAgent) errorEnvelope(incidentID *string, message string) *AnalysisEnvelope {
	return &AnalysisEnvelope{
		Analysis:   nil,
		AnalyzedAt: a.now(),
		Agent:      a.name,
		IncidentID: incidentID,
		Error:      message,
	}
}

func extractIncidentID(incident *models.Incident) *string {
	if incident == nil || incident.ID == "" {
		return nil
	}
	id := incident.ID
	return &id
}

// AnalyzeIncident runs one analysis with the given agent.
func AnalyzeIncident(ctx context.Context, a *AnalysisAgent, incident *models.Incident, contextData map[string]any) *AnalysisEnvelope {
	return a.Process(ctx, incident, contextData)
}
