package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	Logger = nil
	Debug("debug", "k", 1)
	Info("info")
	Warn("warn")
	Error("error", "err", "boom")
}

func TestInitWritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Warn("automatic backup failed", "error", "disk full")
	Debug("hidden at warn level")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "greenie.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "automatic backup failed") {
		t.Errorf("expected warning in log file, got %q", content)
	}
	if strings.Contains(content, "hidden at warn level") {
		t.Errorf("debug message should be filtered at warn level")
	}
}

func TestInitUsesConfiguredNameAndMirrorsDebug(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	cfg := Config{Debug: true, ConfigDir: dir, Name: "greenie-test", Stderr: &stderr}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Debug("habit toggled", "habit", "6")

	want := filepath.Join(dir, "logs", "greenie-test.log")
	if cfg.Path() != want {
		t.Errorf("Path() = %s, want %s", cfg.Path(), want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "habit toggled") {
		t.Errorf("expected debug line in log file, got %q", data)
	}
	if !strings.Contains(stderr.String(), "greenie-test") || !strings.Contains(stderr.String(), "habit toggled") {
		t.Errorf("expected prefixed debug line on stderr, got %q", stderr.String())
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{ConfigDir: "/tmp/g"}.withDefaults()
	if cfg.Name != "greenie" || cfg.MaxSizeMB != 10 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 28 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if got := (Config{ConfigDir: "/tmp/g"}).Path(); got != filepath.Join("/tmp/g", "logs", "greenie.log") {
		t.Errorf("Path() = %s", got)
	}
}
