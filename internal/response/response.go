// Package response validates and repairs model output against the agent
// result schemas.
//
// The validators never return an error: malformed output is converted
// into a well-formed failure result carrying the parse error and the raw
// text for operator debugging. Flaky model output must not fault the
// pipeline. The flip side is that genuine schema drift from the model
// provider degrades silently; the parse_error field is the only signal.
package response

import (
	"encoding/json"
	"strconv"
	"strings"

	"opsaix/internal/models"
)

// Placeholder status markers for analysis sections.
const (
	StatusIncomplete  = "incomplete"
	StatusParseFailed = "parse_failed"
)

// ValidateDetection parses the model's detection response and repairs it
// into a usable result. Missing required fields are back-filled
// (incident_detected false, confidence_score 0.0) and the confidence
// score is clamped into [0.0, 1.0] unconditionally.
func ValidateDetection(raw string) models.DetectionResult {
	cleaned := StripFences(raw)

	var result map[string]any
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return detectionFailure(err.Error(), cleaned)
	}

	if _, ok := result[models.KeyIncidentDetected]; !ok {
		result[models.KeyIncidentDetected] = false
	}
	score, err := numeric(result[models.KeyConfidenceScore])
	if err != nil {
		return detectionFailure(err.Error(), cleaned)
	}
	result[models.KeyConfidenceScore] = clamp(score)

	return result
}

// ValidateAnalysis parses the model's analysis response and repairs it
// into a usable result. Missing sections are back-filled with an
// incomplete placeholder, a missing confidence score defaults to 0.5,
// and a present one is clamped into [0.0, 1.0].
func ValidateAnalysis(raw string) models.AnalysisResult {
	cleaned := StripFences(raw)

	var result map[string]any
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return analysisFailure(err.Error(), cleaned)
	}

	for _, section := range models.AnalysisSections {
		if _, ok := result[section]; !ok {
			result[section] = map[string]any{"status": StatusIncomplete}
		}
	}

	if _, ok := result[models.KeyConfidenceScore]; !ok {
		result[models.KeyConfidenceScore] = 0.5
	} else {
		score, err := numeric(result[models.KeyConfidenceScore])
		if err != nil {
			return analysisFailure(err.Error(), cleaned)
		}
		result[models.KeyConfidenceScore] = clamp(score)
	}

	return result
}

// StripFences trims the text and removes a leading and trailing markdown
// code-fence marker if present. Models frequently wrap JSON in fenced
// blocks; stripping is idempotent on unfenced text.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(strings.TrimSpace(s), "```") {
		s = strings.TrimSpace(s)
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

func detectionFailure(parseErr, raw string) models.DetectionResult {
	return models.DetectionResult{
		models.KeyIncidentDetected: false,
		models.KeyConfidenceScore:  0.0,
		models.KeyParseError:       parseErr,
		models.KeyRawResponse:      raw,
	}
}

func analysisFailure(parseErr, raw string) models.AnalysisResult {
	result := models.AnalysisResult{
		models.KeyParseError:      parseErr,
		models.KeyRawResponse:     raw,
		models.KeyConfidenceScore: 0.0,
	}
	for _, section := range models.AnalysisSections {
		result[section] = map[string]any{"status": StatusParseFailed}
	}
	return result
}

// numeric coerces a confidence value to float64. Absent values count as
// 0.0; numeric strings are tolerated since some models quote numbers,
// and booleans coerce to 1.0/0.0.
func numeric(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0.0, nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, &strconv.NumError{Func: "ParseFloat", Num: n, Err: strconv.ErrSyntax}
		}
		return f, nil
	case bool:
		if n {
			return 1.0, nil
		}
		return 0.0, nil
	default:
		return 0, errNonNumeric(v)
	}
}

type nonNumericError struct{ value any }

func errNonNumeric(v any) error { return &nonNumericError{value: v} }

func (e *nonNumericError) Error() string {
	data, err := json.Marshal(e.value)
	if err != nil {
		return "confidence_score is not numeric"
	}
	return "confidence_score is not numeric: " + string(data)
}

func clamp(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
