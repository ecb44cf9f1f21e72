// File: logger_test.go
// Title: Logger Tests
// Description: Tests level filtering, derived loggers, formatters, error
//              logging and timers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Rewritten for the shared sink logger

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{Level: level, Format: format, Output: buf}), buf
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Info("hidden")
	logger.Warn("shown")
	logger.Audit("always")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("INFO entry written at WARN level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "always") {
		t.Errorf("expected WARN and AUDIT entries, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"WRN", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" info ", LevelInfo, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDerivedLoggersShareSink(t *testing.T) {
	root, buf := newBufferLogger(LevelInfo, FormatText)
	child := root.WithField("component", "test")

	root.SetLevel(LevelError)
	child.Warn("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("child ignored level change on root: %q", buf.String())
	}

	child.Error("visible")
	if !strings.Contains(buf.String(), "component=test") {
		t.Errorf("child field missing: %q", buf.String())
	}
	if strings.Contains(buf.String(), "component=") && len(root.fields) != 0 {
		t.Errorf("WithField mutated the parent logger")
	}
}

func TestJSONFormatter(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger.WithSession("s-1").WithName("engine").Info("dispatched", Fields{"namespace": "node"})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	for key, want := range map[string]string{
		"level":      "INFO",
		"message":    "dispatched",
		"logger":     "engine",
		"session_id": "s-1",
		"namespace":  "node",
	} {
		if decoded[key] != want {
			t.Errorf("%s = %v, want %q", key, decoded[key], want)
		}
	}
}

func TestLogErrorUsesSeverity(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.LogError(mdwerror.New("no such command").
		WithCode(mdwerror.CodeUnresolvedSymbol).
		WithDetail("namespace", "node"))
	out := buf.String()
	if !strings.Contains(out, "[INF]") {
		t.Errorf("low severity error should log at INFO: %q", out)
	}
	if !strings.Contains(out, "error_code=UNRESOLVED_SYMBOL") || !strings.Contains(out, "error_namespace=node") {
		t.Errorf("structured fields missing: %q", out)
	}

	buf.Reset()
	logger.LogError(errors.New("plain"))
	if !strings.Contains(buf.String(), "[ERR] plain") {
		t.Errorf("plain error should log at ERROR: %q", buf.String())
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	timer := logger.StartTimer("dispatch").WithField("namespace", "node")
	timer.Stop()
	if !strings.Contains(buf.String(), "dispatch completed") {
		t.Errorf("missing completion entry: %q", buf.String())
	}
	if timer.Stop() != 0 {
		t.Errorf("second Stop should be a no-op")
	}

	buf.Reset()
	trace, traceBuf := newBufferLogger(LevelTrace, FormatText)
	run := trace.StartTimer("script run")
	run.Checkpoint("line", Fields{"line": 1})
	run.Stop()
	run.Checkpoint("line", Fields{"line": 2})
	if got := strings.Count(traceBuf.String(), "script run checkpoint"); got != 1 {
		t.Errorf("checkpoints after Stop must be dropped: %q", traceBuf.String())
	}
	if !strings.Contains(traceBuf.String(), "checkpoint=line") {
		t.Errorf("missing checkpoint name: %q", traceBuf.String())
	}

	logger.StartTimer("script").StopWithError(errors.New("boom"))
	if !strings.Contains(buf.String(), "script failed") || !strings.Contains(buf.String(), "success=false") {
		t.Errorf("missing failure entry: %q", buf.String())
	}
}
