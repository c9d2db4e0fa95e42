package parser

import (
	"testing"
	"time"

	"opsaix/internal/models"
)

func TestJSONParser_CanParse(t *testing.T) {
	p := NewJSONParser()

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"valid JSON object", `{"message": "test"}`, true},
		{"valid JSON with whitespace", `  {"message": "test"}  `, true},
		{"plain text", "just a plain log line", false},
		{"incomplete JSON", `{"message": "test"`, false},
		{"JSON array", `["item1", "item2"]`, false},
		{"empty line", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CanParse(tt.line); got != tt.want {
				t.Errorf("JSONParser.CanParse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONParser_Parse(t *testing.T) {
	p := NewJSONParser()
	source := "/var/log/app.log"

	tests := []struct {
		name        string
		line        string
		wantOK      bool
		wantMessage string
		wantLevel   models.LogLevel
	}{
		{
			name:        "standard message field",
			line:        `{"message": "connection failed", "level": "ERROR"}`,
			wantOK:      true,
			wantMessage: "connection failed",
			wantLevel:   models.LogLevelError,
		},
		{
			name:        "msg field instead of message",
			line:        `{"msg": "request processed", "level": "INFO"}`,
			wantOK:      true,
			wantMessage: "request processed",
			wantLevel:   models.LogLevelInfo,
		},
		{
			name:   "invalid JSON",
			line:   `{"message": broken}`,
			wantOK: false,
		},
		{
			name:        "no level defaults to info",
			line:        `{"message": "test"}`,
			wantOK:      true,
			wantMessage: "test",
			wantLevel:   models.LogLevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := p.Parse(tt.line, source)
			if ok != tt.wantOK {
				t.Errorf("JSONParser.Parse() ok = %v, want %v", ok, tt.wantOK)
				return
			}
			if !tt.wantOK {
				return
			}
			if entry.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", entry.Message, tt.wantMessage)
			}
			if entry.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", entry.Level, tt.wantLevel)
			}
			if entry.Source != source {
				t.Errorf("Source = %q, want %q", entry.Source, source)
			}
			if entry.ID == "" {
				t.Error("ID should be assigned")
			}
		})
	}
}

func TestJSONParser_LiftsKnownFields(t *testing.T) {
	p := NewJSONParser()

	line := `{"message": "db down", "level": "error", "hostname": "db-01", "service": "orders", "exception": "ConnectionError", "request_id": "r-17"}`
	entry, ok := p.Parse(line, "stdin")
	if !ok {
		t.Fatal("Parse() should succeed")
	}
	if entry.Hostname != "db-01" {
		t.Errorf("Hostname = %q, want db-01", entry.Hostname)
	}
	if entry.ServiceName != "orders" {
		t.Errorf("ServiceName = %q, want orders", entry.ServiceName)
	}
	if entry.Exception != "ConnectionError" {
		t.Errorf("Exception = %q, want ConnectionError", entry.Exception)
	}
	if entry.Fields["request_id"] != "r-17" {
		t.Errorf("Fields[request_id] = %v, want r-17", entry.Fields["request_id"])
	}
	if _, present := entry.Fields["message"]; present {
		t.Error("lifted fields should be removed from Fields")
	}
}

func TestSyslogParser_Parse(t *testing.T) {
	p := NewSyslogParser()

	line := "Jan 15 10:30:00 web-01 nginx[1234]: connect() failed (111: Connection refused)"
	if !p.CanParse(line) {
		t.Fatal("CanParse() should accept syslog line")
	}

	entry, ok := p.Parse(line, "/var/log/syslog")
	if !ok {
		t.Fatal("Parse() should succeed")
	}
	if entry.Hostname != "web-01" {
		t.Errorf("Hostname = %q, want web-01", entry.Hostname)
	}
	if entry.ServiceName != "nginx" {
		t.Errorf("ServiceName = %q, want nginx", entry.ServiceName)
	}
	if entry.Level != models.LogLevelError {
		t.Errorf("Level = %q, want error", entry.Level)
	}
	if entry.Fields["pid"] != "1234" {
		t.Errorf("Fields[pid] = %v, want 1234", entry.Fields["pid"])
	}
	if entry.Timestamp.Month() != time.January || entry.Timestamp.Day() != 15 {
		t.Errorf("Timestamp = %v, want Jan 15", entry.Timestamp)
	}
}

func TestTracebackParser(t *testing.T) {
	p := NewTracebackParser()

	head, ok := p.Parse("ConnectionError: connection refused by db-01", "stdin")
	if !ok {
		t.Fatal("Parse() should succeed on exception head")
	}
	if head.Level != models.LogLevelError {
		t.Errorf("Level = %q, want error", head.Level)
	}
	if head.Exception != "ConnectionError" {
		t.Errorf("Exception = %q, want ConnectionError", head.Exception)
	}
	if head.Message != "connection refused by db-01" {
		t.Errorf("Message = %q", head.Message)
	}

	frame, ok := p.Parse(`  File "app.py", line 42, in handle`, "stdin")
	if !ok {
		t.Fatal("Parse() should succeed on frame line")
	}
	if frame.StackTrace == "" {
		t.Error("frame line should populate StackTrace")
	}
}

func TestCommonParser_Parse(t *testing.T) {
	p := NewCommonParser()

	tests := []struct {
		name      string
		line      string
		wantLevel models.LogLevel
		wantMsg   string
	}{
		{
			name:      "timestamp and level",
			line:      "2024-01-15T10:30:00Z ERROR payment service unreachable",
			wantLevel: models.LogLevelError,
			wantMsg:   "payment service unreachable",
		},
		{
			name:      "bracketed warning",
			line:      "[WARNING] disk usage at 85%",
			wantLevel: models.LogLevelWarn,
			wantMsg:   "disk usage at 85%",
		},
		{
			name:      "critical maps to fatal",
			line:      "CRITICAL: out of memory",
			wantLevel: models.LogLevelFatal,
			wantMsg:   "out of memory",
		},
		{
			name:      "bare text infers from keywords",
			line:      "request failed after 3 retries",
			wantLevel: models.LogLevelError,
			wantMsg:   "request failed after 3 retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := p.Parse(tt.line, "test")
			if !ok {
				t.Fatal("Parse() should succeed")
			}
			if entry.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", entry.Level, tt.wantLevel)
			}
			if entry.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", entry.Message, tt.wantMsg)
			}
		})
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in   string
		want models.LogLevel
	}{
		{"DEBUG", models.LogLevelDebug},
		{"info", models.LogLevelInfo},
		{"WARNING", models.LogLevelWarn},
		{"warn", models.LogLevelWarn},
		{"err", models.LogLevelError},
		{"CRITICAL", models.LogLevelFatal},
		{"panic", models.LogLevelFatal},
		{"something else", models.LogLevelInfo},
	}

	for _, tt := range tests {
		if got := NormalizeLevel(tt.in); got != tt.want {
			t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistry_Parse(t *testing.T) {
	r := NewRegistry()

	json := r.Parse(`{"message": "hello", "level": "info"}`, "s")
	if json.Message != "hello" {
		t.Errorf("JSON line routed wrong, Message = %q", json.Message)
	}

	raw := r.Parse("completely ordinary line", "s")
	if raw == nil {
		t.Fatal("Registry.Parse() must never return nil")
	}
	if raw.Message != "completely ordinary line" {
		t.Errorf("fallback Message = %q", raw.Message)
	}
	if raw.ID == "" {
		t.Error("fallback entry should get an ID")
	}
}
