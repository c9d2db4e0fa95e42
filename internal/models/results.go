package models

// DetectionResult is the transient, map-shaped output of the detection
// agent after validation. It is map-shaped rather than a struct because
// the validator repairs it key by key and the model may return extra keys
// worth preserving for operators.
type DetectionResult map[string]any

// Detection result keys.
const (
	KeyIncidentDetected   = "incident_detected"
	KeyConfidenceScore    = "confidence_score"
	KeySeverity           = "severity"
	KeyTitle              = "title"
	KeyDescription        = "description"
	KeyAffectedService    = "affected_service"
	KeyAffectedComponents = "affected_components"
	KeyRecommendedActions = "recommended_actions"
	KeyUrgencyReasons     = "urgency_reasons"
	KeyTags               = "tags"
	KeyParseError         = "parse_error"
	KeyRawResponse        = "raw_response"
)

// IncidentDetected reports whether the model flagged an incident.
func (r DetectionResult) IncidentDetected() bool {
	v, _ := r[KeyIncidentDetected].(bool)
	return v
}

// ConfidenceScore returns the model's confidence, 0.0 when absent or
// non-numeric.
func (r DetectionResult) ConfidenceScore() float64 {
	return toFloat(r[KeyConfidenceScore])
}

// String returns the string value under key, or fallback when absent,
// empty, or not a string.
func (r DetectionResult) String(key, fallback string) string {
	if s, ok := r[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// StringSlice returns the string list under key, tolerating the []any
// shape produced by JSON decoding. Absent or malformed values yield nil.
func (r DetectionResult) StringSlice(key string) []string {
	return toStringSlice(r[key])
}

// AnalysisResult is the transient, map-shaped output of the analysis
// agent after validation. The five analysis sections are always present
// after validation, degraded to a status placeholder when the model
// omitted them.
type AnalysisResult map[string]any

// AnalysisSections are the required top-level sections of an analysis.
var AnalysisSections = []string{
	"root_cause_analysis",
	"impact_assessment",
	"remediation_plan",
	"prevention_measures",
	"escalation_recommendation",
}

// ConfidenceScore returns the analysis confidence, 0.0 when absent or
// non-numeric.
func (r AnalysisResult) ConfidenceScore() float64 {
	return toFloat(r[KeyConfidenceScore])
}

// Section returns the named analysis section as a mapping, nil when the
// section has a different shape.
func (r AnalysisResult) Section(name string) map[string]any {
	m, _ := r[name].(map[string]any)
	return m
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0.0
}

func toStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
