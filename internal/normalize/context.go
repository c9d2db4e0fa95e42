package normalize

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"opsaix/internal/models"
)

// maxContextLogs and maxContextAlerts bound how much raw context data is
// rendered into the analysis prompt.
const (
	maxContextLogs   = 10
	maxContextAlerts = 5
	maxItemChars     = 200
)

// noContext is the fixed sentence used when no context is supplied.
const noContext = "No additional context provided."

// SummarizeContext renders a compact one-line-per-key summary of the
// caller-supplied context. Collection values are summarized by count only
// to keep prompts small. Keys are rendered in sorted order so output is
// deterministic.
func SummarizeContext(context map[string]any) string {
	if len(context) == 0 {
		return noContext
	}

	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, "- "+summarizeValue(k, context[k]))
	}
	return "Context:\n" + strings.Join(lines, "\n")
}

func summarizeValue(key string, v any) string {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%s: %v", key, v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("%s: list with %d items", key, rv.Len())
	case reflect.Map:
		return fmt.Sprintf("%s: mapping with %d items", key, rv.Len())
	default:
		return fmt.Sprintf("%s: %T", key, v)
	}
}

// RenderAdditionalData renders the richer context sections the analysis
// agent feeds to the model: recent logs, related alerts, metrics, and
// service health. Absent sections are omitted entirely.
func RenderAdditionalData(context map[string]any) string {
	if len(context) == 0 {
		return noContext
	}

	var sections []string

	if logs, ok := anySlice(context["logs"]); ok {
		header := fmt.Sprintf("RECENT LOGS (%d entries):", len(logs))
		lines := []string{header}
		for i, item := range logs {
			if i >= maxContextLogs {
				break
			}
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, renderContextLog(item)))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if metrics, ok := context["metrics"]; ok {
		sections = append(sections, "METRICS: "+compactJSON(metrics))
	}

	if alerts, ok := anySlice(context["alerts"]); ok {
		header := fmt.Sprintf("RELATED ALERTS (%d alerts):", len(alerts))
		lines := []string{header}
		for i, item := range alerts {
			if i >= maxContextAlerts {
				break
			}
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, renderContextAlert(item)))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if health, ok := context["service_health"]; ok {
		sections = append(sections, "SERVICE HEALTH: "+compactJSON(health))
	}

	if len(sections) == 0 {
		return noContext
	}
	return strings.Join(sections, "\n\n")
}

// anySlice coerces any slice or array value to []any so in-process
// callers can pass typed slices ([]*models.LogEntry, []*models.Alert)
// alongside the []any shape JSON decoding produces.
func anySlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func renderContextLog(item any) string {
	switch log := item.(type) {
	case *models.LogEntry:
		return fmt.Sprintf("[%s] %s", strings.ToUpper(string(log.Level)), log.Message)
	case map[string]any:
		level, _ := log["level"].(string)
		if level == "" {
			level = "INFO"
		}
		msg, ok := log["message"].(string)
		if !ok {
			msg = fmt.Sprint(log)
		}
		return fmt.Sprintf("[%s] %s", strings.ToUpper(level), msg)
	default:
		return truncate(fmt.Sprint(item), maxItemChars)
	}
}

func renderContextAlert(item any) string {
	switch alert := item.(type) {
	case *models.Alert:
		return fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Severity)), alert.Title)
	case map[string]any:
		severity, _ := alert["severity"].(string)
		if severity == "" {
			severity = "INFO"
		}
		title, ok := alert["title"].(string)
		if !ok {
			title = fmt.Sprint(alert)
		}
		return fmt.Sprintf("[%s] %s", strings.ToUpper(severity), title)
	default:
		return truncate(fmt.Sprint(item), maxItemChars)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
