package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/redactyl/sekret/internal/settings"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	return xdg
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "sekret.yaml", `
plugins_used:
  - name: Base64HighEntropyString
    limit: 4.5
filters_used:
  - path: sekret.filters.regex.should_exclude_line
    pattern:
      - "^#"
exclude: ["docs/**"]
max_bytes: 123
verbosity: 2
`)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.PluginsUsed) != 1 || cfg.PluginsUsed[0]["name"] != "Base64HighEntropyString" || cfg.PluginsUsed[0]["limit"] != 4.5 {
		t.Fatalf("unexpected plugins_used: %#v", cfg.PluginsUsed)
	}
	if len(cfg.FiltersUsed) != 1 || cfg.FiltersUsed[0]["path"] != "sekret.filters.regex.should_exclude_line" {
		t.Fatalf("unexpected filters_used: %#v", cfg.FiltersUsed)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "docs/**" {
		t.Fatalf("unexpected exclude: %#v", cfg.Exclude)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.Verbosity == nil || *cfg.Verbosity != 2 {
		t.Fatalf("expected verbosity=2, got %#v", cfg.Verbosity)
	}
	if cfg.NoColor != nil {
		t.Fatalf("expected no_color unset")
	}
}

func TestFileConfig_SettingsAbsentKeys(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "sekret.yaml", "verbosity: 1\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	s := cfg.Settings()
	if s.PluginsUsed != nil || s.FiltersUsed != nil {
		t.Fatalf("expected absent lists to stay nil, got %#v", s)
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "sekret.yaml", "verbosity: 1\n")
	writeTemp(t, dir, ".sekret.yaml", "verbosity: 3\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Verbosity == nil || *cfg.Verbosity != 3 {
		t.Fatalf("expected verbosity=3 from .sekret.yaml, got %#v", cfg.Verbosity)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); err != ErrNoLocalConfig {
		t.Fatalf("expected ErrNoLocalConfig, got %v", err)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	xdg := isolate(t)
	writeTemp(t, xdg, filepath.Join("sekret", "config.yml"), "no_color: true\n")
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Fatalf("expected no_color=true from global config, got %#v", cfg.NoColor)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	isolate(t)
	if _, err := LoadGlobal(); err != ErrNoGlobalConfig {
		t.Fatalf("expected ErrNoGlobalConfig, got %v", err)
	}
}

func TestLoad_Precedence(t *testing.T) {
	xdg := isolate(t)
	writeTemp(t, xdg, filepath.Join("sekret", "config.yml"), `
verbosity: 1
no_color: true
plugins_used:
  - name: AWSKeyDetector
`)
	repo := t.TempDir()
	writeTemp(t, repo, ".sekret.yml", `
verbosity: 2
plugins_used:
  - name: SlackDetector
`)
	t.Setenv("SEKRET_VERBOSITY", "3")
	t.Setenv("SEKRET_EXCLUDE", "docs/**,*.md")

	cfg, err := Load(repo, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Verbosity == nil || *cfg.Verbosity != 3 {
		t.Fatalf("expected env verbosity=3, got %#v", cfg.Verbosity)
	}
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Fatalf("expected global no_color to survive, got %#v", cfg.NoColor)
	}
	want := []settings.Entry{{"name": "SlackDetector"}}
	if len(cfg.PluginsUsed) != 1 || cfg.PluginsUsed[0]["name"] != want[0]["name"] {
		t.Fatalf("expected local plugins to replace global, got %#v", cfg.PluginsUsed)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[1] != "*.md" {
		t.Fatalf("expected env exclude list, got %#v", cfg.Exclude)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	repo := t.TempDir()
	writeTemp(t, repo, ".sekret.yml", "verbosity: 2\n")
	other := writeTemp(t, t.TempDir(), "custom.yaml", "verbosity: 1\n")

	cfg, err := Load(repo, other)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Verbosity == nil || *cfg.Verbosity != 1 {
		t.Fatalf("expected explicit file to win over discovery, got %#v", cfg.Verbosity)
	}

	if _, err := Load(repo, filepath.Join(repo, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}
