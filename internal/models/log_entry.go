// Package models defines the core data structures shared across ingestion,
// normalization, and the agents.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// LogLevel is the severity of a log entry.
type LogLevel string

// Log levels, lowest to highest.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

// ValidLogLevel reports whether level is one of the known log levels.
func ValidLogLevel(level LogLevel) bool {
	switch level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal:
		return true
	}
	return false
}

// errorKeywords are common failure indicators scanned for by ExtractKeywords.
var errorKeywords = []string{
	"exception", "error", "failed", "timeout", "connection refused",
	"out of memory", "disk full", "permission denied", "not found",
	"unauthorized", "forbidden", "service unavailable",
}

// LogEntry is a single log line after ingestion.
type LogEntry struct {
	// ID uniquely identifies this entry.
	ID string `json:"id"`

	// Timestamp of the log entry.
	Timestamp time.Time `json:"timestamp"`

	// Level is the log level.
	Level LogLevel `json:"level"`

	// Message is the main log message content.
	Message string `json:"message"`

	// Source identifies where this log came from (service, file path, etc.).
	Source string `json:"source"`

	// Hostname of the emitting machine, if known.
	Hostname string `json:"hostname,omitempty"`

	// ServiceName of the emitting service, if known.
	ServiceName string `json:"service_name,omitempty"`

	// Fields contains additional structured attributes.
	Fields map[string]any `json:"fields,omitempty"`

	// Exception holds the exception text for error entries, if any.
	Exception string `json:"exception,omitempty"`

	// StackTrace holds the stack trace for error entries, if any.
	StackTrace string `json:"stack_trace,omitempty"`

	// ParsedAt is when this entry was ingested.
	ParsedAt time.Time `json:"parsed_at"`

	// Processed marks whether this entry has been through analysis.
	Processed bool `json:"processed"`
}

// MarkProcessed marks the log entry as processed.
func (l *LogEntry) MarkProcessed() {
	l.Processed = true
}

// IsErrorLevel reports whether the entry is error level or higher.
func (l *LogEntry) IsErrorLevel() bool {
	return l.Level == LogLevelError || l.Level == LogLevelFatal
}

// ExtractKeywords returns the known failure indicators present in the message.
func (l *LogEntry) ExtractKeywords() []string {
	var keywords []string
	lower := strings.ToLower(l.Message)
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// ToJSON serializes the log entry to JSON bytes.
func (l *LogEntry) ToJSON() ([]byte, error) {
	return json.Marshal(l)
}

// LogEntryFromJSON deserializes a log entry from JSON bytes.
func LogEntryFromJSON(data []byte) (*LogEntry, error) {
	var entry LogEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
