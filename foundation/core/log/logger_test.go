// File: logger_test.go
// Title: Structured Logger Tests
// Description: Tests for levels, formatters, derived loggers and timers
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.2.0: Initial tests

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf, Name: "test"}), &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"", LevelInfo, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info entry to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Expected warn entry, got %q", out)
	}
}

func TestJSONFormatIncludesFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	logger.WithField("component", "compiler").Info("compiled", Fields{"commands": 3})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON, got %v: %q", err, buf.String())
	}
	if entry["message"] != "compiled" {
		t.Errorf("Expected message 'compiled', got %v", entry["message"])
	}
	if entry["component"] != "compiler" {
		t.Errorf("Expected component field, got %v", entry["component"])
	}
	if entry["commands"] != float64(3) {
		t.Errorf("Expected commands=3, got %v", entry["commands"])
	}
	if entry["logger"] != "test" {
		t.Errorf("Expected logger name, got %v", entry["logger"])
	}
}

func TestTextFormatSortsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelInfo, Format: FormatText, Output: &buf})
	logger.formatter = &TextFormatter{DisableTimestamp: true}

	logger.Info("run", Fields{"b": 2, "a": 1})

	want := "[INFO] run [a=1 b=2]\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestDerivedLoggerDoesNotLeakFields(t *testing.T) {
	base, buf := newBufferLogger(LevelInfo, FormatJSON)
	_ = base.WithField("leak", true)

	base.Info("plain")
	if strings.Contains(buf.String(), "leak") {
		t.Errorf("Expected parent logger to stay clean, got %q", buf.String())
	}
}

func TestErrorWithErr(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.ErrorWithErr("store failed", errors.New("disk full"))

	if !strings.Contains(buf.String(), `"error":"disk full"`) {
		t.Errorf("Expected error field, got %q", buf.String())
	}
}

func TestTimerStop(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	d := logger.StartTimer("run").WithField("commands", 2).Stop()
	if d < 0 {
		t.Errorf("Expected non-negative duration, got %s", d)
	}
	if !strings.Contains(buf.String(), `"operation":"run"`) {
		t.Errorf("Expected operation field, got %q", buf.String())
	}
}

func TestDiscardAndNil(t *testing.T) {
	Discard().Error("nothing")

	var nilLogger *Logger
	nilLogger.Info("nothing either")
}
