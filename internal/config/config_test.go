package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"svnherald/internal/config"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	if cfg.Delivery.Debug {
		t.Fatal("expected delivery debug disabled by default")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
notify_config = "` + filepath.Join(dir, "herald.conf") + `"

[logging]
format = "JSON"
level = " Debug "

[delivery]
debug = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not normalized: %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not normalized: %q", cfg.Logging.Level)
	}
	if !cfg.Delivery.Debug {
		t.Fatal("expected delivery debug enabled")
	}
	if cfg.Paths.NotifyConfig != filepath.Join(dir, "herald.conf") {
		t.Fatalf("unexpected notify config path: %q", cfg.Paths.NotifyConfig)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"syslog\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestNotifyConfigSearchOrder(t *testing.T) {
	cfg := config.Default()
	repos := t.TempDir()

	candidates := cfg.NotifyConfigCandidates(repos)
	if len(candidates) != 2 {
		t.Fatalf("candidates = %v", candidates)
	}
	if candidates[0] != filepath.Join(repos, "conf", "herald.conf") {
		t.Fatalf("first candidate = %q", candidates[0])
	}
	if !strings.HasSuffix(candidates[1], filepath.Join("etc", "svnherald.conf")) {
		t.Fatalf("second candidate = %q", candidates[1])
	}

	if _, err := cfg.FindNotifyConfig(repos); err == nil {
		t.Fatal("expected error when no candidate exists")
	}

	confDir := filepath.Join(repos, "conf")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := filepath.Join(confDir, "herald.conf")
	if err := os.WriteFile(want, []byte("[defaults]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := cfg.FindNotifyConfig(repos)
	if err != nil {
		t.Fatalf("FindNotifyConfig: %v", err)
	}
	if got != want {
		t.Fatalf("found %q, want %q", got, want)
	}

	cfg.Paths.NotifyConfig = "/explicit/herald.conf"
	candidates = cfg.NotifyConfigCandidates(repos)
	if len(candidates) != 1 || candidates[0] != "/explicit/herald.conf" {
		t.Fatalf("explicit override candidates = %v", candidates)
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[logging]") {
		t.Fatal("sample config missing [logging] section")
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
