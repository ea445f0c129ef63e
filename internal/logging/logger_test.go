package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"surfsup-server/internal/config"
)

func TestNewLogger_release_writesJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}

	logger := newLogger(&buf, cfg, "1.2.3", "surfsup")
	logger.Info("hello", "route", "/api/v1.0/stations")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	want := map[string]string{
		"msg":     "hello",
		"app":     "surfsup",
		"version": "1.2.3",
		"env":     "prod",
		"route":   "/api/v1.0/stations",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v; want %q", k, rec[k], v)
		}
	}
}

func TestNewLogger_respectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}

	logger := newLogger(&buf, cfg, "1.2.3", "surfsup")
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestNewLogger_dev_usesConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}

	logger := newLogger(&buf, cfg, "dev", "surfsup")
	logger.Debug("sql", "op", "query")

	out := buf.String()
	if json.Valid(buf.Bytes()) {
		t.Fatalf("dev output should not be JSON: %q", out)
	}
	if !strings.Contains(out, "sql") || !strings.Contains(out, "app=surfsup") {
		t.Errorf("dev output = %q; want message and app attribute", out)
	}
}
