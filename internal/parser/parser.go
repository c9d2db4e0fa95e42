// Package parser turns raw log lines into structured entries.
package parser

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"opsaix/internal/models"
)

// Parser is a single log format handler.
type Parser interface {
	// Name returns the parser name.
	Name() string

	// CanParse reports whether this parser recognizes the line.
	CanParse(line string) bool

	// Parse parses a log line into a LogEntry.
	// Returns the entry and true on success, or nil and false if the
	// line does not match after all.
	Parse(line string, source string) (*models.LogEntry, bool)
}

// Registry routes log lines to the first parser that accepts them.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry with the default parser chain.
func NewRegistry() *Registry {
	return &Registry{
		parsers: []Parser{
			NewJSONParser(),
			NewSyslogParser(),
			NewTracebackParser(),
			NewCommonParser(),
		},
	}
}

// Register adds a parser ahead of the defaults.
func (r *Registry) Register(p Parser) {
	r.parsers = append([]Parser{p}, r.parsers...)
}

// Parse tries each parser until one succeeds. Lines no parser accepts
// become raw info entries so nothing is ever dropped on the floor.
func (r *Registry) Parse(line string, source string) *models.LogEntry {
	for _, p := range r.parsers {
		if p.CanParse(line) {
			if entry, ok := p.Parse(line, source); ok {
				return entry
			}
		}
	}
	entry := newEntry(source)
	entry.Level = models.LogLevelInfo
	entry.Message = line
	return entry
}

func newEntry(source string) *models.LogEntry {
	now := time.Now().UTC()
	return &models.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		Source:    source,
		ParsedAt:  now,
	}
}

// JSONParser handles structured JSON log lines.
type JSONParser struct{}

// NewJSONParser creates a JSON line parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Name() string { return "json" }

// CanParse checks if the line looks like a JSON object.
func (p *JSONParser) CanParse(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
}

// Parse parses a JSON log line, lifting well-known fields out of the
// payload and keeping the rest as structured attributes.
func (p *JSONParser) Parse(line string, source string) (*models.LogEntry, bool) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		return nil, false
	}

	entry := newEntry(source)
	entry.Level = models.LogLevelInfo
	entry.Fields = payload

	for _, key := range []string{"message", "msg"} {
		if msg, ok := payload[key].(string); ok {
			entry.Message = msg
			delete(payload, key)
			break
		}
	}
	if level, ok := payload["level"].(string); ok {
		entry.Level = NormalizeLevel(level)
		delete(payload, "level")
	}
	if ts, ok := payload["timestamp"].(string); ok {
		if t, err := parseFlexibleTimestamp(ts); err == nil {
			entry.Timestamp = t
			delete(payload, "timestamp")
		}
	}
	if host, ok := payload["hostname"].(string); ok {
		entry.Hostname = host
		delete(payload, "hostname")
	}
	for _, key := range []string{"service", "service_name"} {
		if svc, ok := payload[key].(string); ok {
			entry.ServiceName = svc
			delete(payload, key)
			break
		}
	}
	if exc, ok := payload["exception"].(string); ok {
		entry.Exception = exc
		delete(payload, "exception")
	}
	if st, ok := payload["stack_trace"].(string); ok {
		entry.StackTrace = st
		delete(payload, "stack_trace")
	}
	if len(payload) == 0 {
		entry.Fields = nil
	}

	return entry, true
}

// SyslogParser handles classic BSD syslog lines.
type SyslogParser struct {
	// Jan 15 10:30:00 hostname program[pid]: message
	pattern *regexp.Regexp
}

// NewSyslogParser creates a syslog parser.
func NewSyslogParser() *SyslogParser {
	return &SyslogParser{
		pattern: regexp.MustCompile(
			`^([A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(\S+)\s+(\S+?)(?:\[(\d+)\])?:\s*(.*)$`,
		),
	}
}

func (p *SyslogParser) Name() string { return "syslog" }

func (p *SyslogParser) CanParse(line string) bool {
	return p.pattern.MatchString(line)
}

// Parse parses a syslog line. Syslog timestamps carry no year, so the
// current year is assumed.
func (p *SyslogParser) Parse(line string, source string) (*models.LogEntry, bool) {
	matches := p.pattern.FindStringSubmatch(line)
	if matches == nil {
		return nil, false
	}

	entry := newEntry(source)
	if ts, err := time.Parse("Jan 2 15:04:05", matches[1]); err == nil {
		entry.Timestamp = ts.AddDate(time.Now().Year(), 0, 0)
	}
	entry.Hostname = matches[2]
	entry.ServiceName = matches[3]
	entry.Message = matches[5]
	entry.Level = inferLevel(matches[5])
	if matches[4] != "" {
		entry.Fields = map[string]any{"pid": matches[4]}
	}

	return entry, true
}

// TracebackParser recognizes exception dumps from application logs.
type TracebackParser struct {
	headPattern *regexp.Regexp
}

// NewTracebackParser creates a traceback parser.
func NewTracebackParser() *TracebackParser {
	return &TracebackParser{
		headPattern: regexp.MustCompile(
			`^(\w+Error|\w+Exception|Traceback \(most recent call last\)):?\s*(.*)$`,
		),
	}
}

func (p *TracebackParser) Name() string { return "traceback" }

func (p *TracebackParser) CanParse(line string) bool {
	trimmed := strings.TrimSpace(line)
	return p.headPattern.MatchString(line) ||
		strings.HasPrefix(trimmed, "File \"") ||
		strings.HasPrefix(trimmed, "at ")
}

// Parse treats every traceback line as an error entry. Head lines carry
// the exception type, frame lines land in the stack trace field.
func (p *TracebackParser) Parse(line string, source string) (*models.LogEntry, bool) {
	entry := newEntry(source)
	entry.Level = models.LogLevelError
	entry.Message = line

	if matches := p.headPattern.FindStringSubmatch(line); matches != nil {
		entry.Exception = matches[1]
		if matches[2] != "" {
			entry.Message = matches[2]
		}
	} else {
		entry.StackTrace = line
	}

	return entry, true
}

// CommonParser handles generic "timestamp LEVEL message" lines and is
// the always-match fallback.
type CommonParser struct {
	pattern *regexp.Regexp
}

// NewCommonParser creates a common format parser.
func NewCommonParser() *CommonParser {
	return &CommonParser{
		pattern: regexp.MustCompile(
			`(?i)^(?:(\d{4}[-/]\d{2}[-/]\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\s+)?` +
				`(?:\[?(DEBUG|INFO|WARN(?:ING)?|ERROR|FATAL|CRITICAL)\]?[:\s]+)?` +
				`(.+)$`,
		),
	}
}

func (p *CommonParser) Name() string { return "common" }

func (p *CommonParser) CanParse(line string) bool {
	return true
}

func (p *CommonParser) Parse(line string, source string) (*models.LogEntry, bool) {
	matches := p.pattern.FindStringSubmatch(line)
	if matches == nil {
		return nil, false
	}

	entry := newEntry(source)
	entry.Message = matches[3]
	if matches[1] != "" {
		if ts, err := parseFlexibleTimestamp(matches[1]); err == nil {
			entry.Timestamp = ts
		}
	}
	if matches[2] != "" {
		entry.Level = NormalizeLevel(matches[2])
	} else {
		entry.Level = inferLevel(line)
	}

	return entry, true
}

// NormalizeLevel maps common level spellings onto the known log levels.
// Unknown spellings default to info.
func NormalizeLevel(level string) models.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return models.LogLevelDebug
	case "info", "notice":
		return models.LogLevelInfo
	case "warn", "warning":
		return models.LogLevelWarn
	case "error", "err":
		return models.LogLevelError
	case "fatal", "critical", "crit", "panic":
		return models.LogLevelFatal
	default:
		return models.LogLevelInfo
	}
}

func inferLevel(message string) models.LogLevel {
	upper := strings.ToUpper(message)
	switch {
	case strings.Contains(upper, "FATAL") || strings.Contains(upper, "CRITICAL"):
		return models.LogLevelFatal
	case strings.Contains(upper, "ERROR") || strings.Contains(upper, "FAIL"):
		return models.LogLevelError
	case strings.Contains(upper, "WARN"):
		return models.LogLevelWarn
	case strings.Contains(upper, "DEBUG"):
		return models.LogLevelDebug
	default:
		return models.LogLevelInfo
	}
}

func parseFlexibleTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/01/02 15:04:05",
		"2006-01-02T15:04:05.000",
		"2006-01-02 15:04:05.000",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: time.RFC3339, Value: s}
}
