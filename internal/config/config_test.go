// # internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extricrate.toml")
	content := `
[output]
dot = "deps.dot"
mermaid = "deps.mmd"

[watch]
debounce = 250000000
rate_per_second = 4.0
burst = 2

[history]
path = "history.db"
project_key = "mycrate"

[exclude]
dirs = ["target", "vendor"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output.DOT != "deps.dot" {
		t.Errorf("expected deps.dot, got %s", cfg.Output.DOT)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RatePerSecond != 4.0 || cfg.Watch.Burst != 2 {
		t.Errorf("unexpected rate settings: %+v", cfg.Watch)
	}
	if cfg.History.ProjectKey != "mycrate" {
		t.Errorf("expected mycrate, got %s", cfg.History.ProjectKey)
	}
	if len(cfg.Exclude.Dirs) != 2 {
		t.Errorf("unexpected exclude dirs: %v", cfg.Exclude.Dirs)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extricrate.toml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RatePerSecond != 2 || cfg.Watch.Burst != 1 {
		t.Errorf("unexpected rate defaults: %+v", cfg.Watch)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
