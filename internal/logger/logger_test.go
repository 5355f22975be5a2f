package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) Entry {
	t.Helper()
	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestInfo_WritesJSONEntry(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, MinLevel: LevelDebug})

	l.Info("server started")

	entry := decodeEntry(t, &buf)
	if entry.Level != LevelInfo {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "server started" {
		t.Errorf("expected message 'server started', got %s", entry.Message)
	}
	if entry.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestError_IncludesErrorString(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, MinLevel: LevelDebug})

	l.Error("request failed", errors.New("connection refused"))

	entry := decodeEntry(t, &buf)
	if entry.Level != LevelError {
		t.Errorf("expected level ERROR, got %s", entry.Level)
	}
	if entry.Error != "connection refused" {
		t.Errorf("expected error 'connection refused', got %s", entry.Error)
	}
}

func TestMinLevel_FiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, MinLevel: LevelWarn})

	l.Debug("debug message")
	l.Info("info message")
	if buf.Len() != 0 {
		t.Errorf("expected no output below min level, got %q", buf.String())
	}

	l.Warn("warn message")
	if buf.Len() == 0 {
		t.Error("expected warn message to be logged")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, MinLevel: LevelDebug})

	l.WithFields(map[string]interface{}{"show_id": 42}).Info("metadata refreshed")

	entry := decodeEntry(t, &buf)
	if entry.Context["show_id"] != float64(42) {
		t.Errorf("expected show_id 42 in context, got %v", entry.Context["show_id"])
	}
}

func TestInfoContext_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, MinLevel: LevelDebug})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	l.InfoContext(ctx, "handling request")

	entry := decodeEntry(t, &buf)
	if entry.Context["request_id"] != "req-123" {
		t.Errorf("expected request_id 'req-123', got %v", entry.Context["request_id"])
	}
}

func TestInfoContext_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, MinLevel: LevelDebug})

	l.InfoContext(context.Background(), "handling request")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("expected no request_id, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"bogus": LevelInfo,
		"":      LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestAppSingleton(t *testing.T) {
	Initialize("debug", "warn")
	if App() == nil {
		t.Fatal("expected app logger after Initialize")
	}
	if Database() == nil {
		t.Fatal("expected database logger after Initialize")
	}

	var buf bytes.Buffer
	custom := New(Config{Output: &buf, MinLevel: LevelDebug})
	SetApp(custom)
	App().Info("custom sink")
	if buf.Len() == 0 {
		t.Error("expected SetApp logger to receive output")
	}
}
