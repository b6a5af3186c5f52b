package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/thep200/gitgrade/cfg"
)

func TestLogrusLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogrusLogger(&buf, "debug", "json")
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	l.Critical(ctx, "disk %s", "full")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json entry, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "disk full" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["severity"] != "critical" {
		t.Errorf("unexpected severity: %v", entry["severity"])
	}
	if entry["level"] != "error" {
		t.Errorf("critical should log at error level, got %v", entry["level"])
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("missing request id: %v", entry["request_id"])
	}
}

func TestLogrusLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogrusLogger(&buf, "warn", "text")
	if err != nil {
		t.Fatal(err)
	}
	l.Info(context.Background(), "hidden")
	l.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info/debug to be filtered, got %q", buf.String())
	}
	l.Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn entry, got %q", buf.String())
	}
}

func TestLogrusLoggerInvalidLevel(t *testing.T) {
	if _, err := NewLogrusLogger("loud", "text"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNewFromConfig(t *testing.T) {
	c := cfg.Default()
	c.Log.Backend = "console"
	l, err := NewFromConfig(c)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.(*CslLogger); !ok {
		t.Errorf("expected CslLogger, got %T", l)
	}

	c.Log.Backend = "logrus"
	l, err = NewFromConfig(c)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.(*LogrusLogger); !ok {
		t.Errorf("expected LogrusLogger, got %T", l)
	}
}
