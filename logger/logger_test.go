package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := getLogLevel(in); got != want {
			t.Fatalf("expected %v for %q, got %v", want, in, got)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info("hidden")
	log.WithEvent("event-1").WithError(errors.New("boom")).Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "event_id=event-1") || !strings.Contains(out, "error=boom") {
		t.Fatalf("expected event and error attributes, got %q", out)
	}
}

func TestOpen(t *testing.T) {
	log, closeFn, err := Open("", "info")
	if err != nil || log == nil || closeFn == nil {
		t.Fatalf("expected a discarding logger, got %v %v", log, err)
	}

	path := filepath.Join(t.TempDir(), "app.log")
	log, closeFn, err = Open(path, "info")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	log.WithComponent("tui").Info("started")
	if err := closeFn(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(string(data), "component=tui") {
		t.Fatalf("expected component attribute, got %q", data)
	}

	if _, _, err := Open(filepath.Join(t.TempDir(), "missing", "app.log"), "info"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
