package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"extricrate/internal/config"
	"extricrate/internal/errors"
)

func writeCrate(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func fixtureCrate(t *testing.T) string {
	return writeCrate(t, map[string]string{
		"Cargo.toml":  "[package]\nname = \"fixture\"\nversion = \"0.1.0\"\n",
		"src/main.rs": "use crate::storage;\nuse std::collections::HashMap;\n\nmod storage;\n\nfn main() {}\n",
		"src/storage.rs": "use crate::storage::disk;\n\nmod disk;\n",
		"src/storage/disk.rs": "use super::super::storage;\n",
	})
}

func TestAppResolve(t *testing.T) {
	a, err := New(config.Default(), fixtureCrate(t))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	result, err := a.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CrateName != "fixture" {
		t.Errorf("expected crate fixture, got %s", result.CrateName)
	}
	if result.FileCount != 3 {
		t.Errorf("expected 3 files, got %d", result.FileCount)
	}
	if !result.Graph.HasEdge("crate", "crate::storage") {
		t.Error("expected edge crate -> crate::storage")
	}
	if !result.Graph.HasEdge("crate", "std::collections") {
		t.Error("expected external edge crate -> std::collections")
	}
	// storage <-> disk is a cycle
	if len(result.Cycles) != 1 {
		t.Errorf("expected 1 cycle, got %d", len(result.Cycles))
	}
	if a.CurrentResult() != result {
		t.Error("expected CurrentResult to return the latest run")
	}
}

func TestAppResolve_NotACrate(t *testing.T) {
	a, err := New(config.Default(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := a.Resolve(); !errors.IsCode(err, errors.CodeNotACrate) {
		t.Errorf("expected NOT_A_CRATE, got %v", err)
	}
}

func TestAppGenerateOutputs(t *testing.T) {
	root := fixtureCrate(t)
	cfg := config.Default()
	cfg.Output.DOT = "out/deps.dot"
	cfg.Output.Mermaid = "out/deps.mmd"
	cfg.Output.TSV = "out/deps.tsv"

	a, err := New(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	result, err := a.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if err := a.GenerateOutputs(result); err != nil {
		t.Fatalf("generate outputs: %v", err)
	}

	dot, err := os.ReadFile(filepath.Join(root, "out", "deps.dot"))
	if err != nil {
		t.Fatalf("read DOT artifact: %v", err)
	}
	if !strings.Contains(string(dot), "digraph dependencies") {
		t.Error("unexpected DOT content")
	}
	for _, name := range []string{"deps.mmd", "deps.tsv"} {
		if _, err := os.Stat(filepath.Join(root, "out", name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestAppSaveSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = "history.db"

	a, err := New(cfg, fixtureCrate(t))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	result, err := a.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SaveSnapshot(result); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	// Project key falls back to the crate name.
	snaps, err := a.store.LoadSnapshots("fixture", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].ModuleCount != result.Graph.ModuleCount() || snaps[0].CycleCount != 1 {
		t.Errorf("unexpected snapshot: %+v", snaps[0])
	}
}

func TestAppSaveSnapshot_NoStore(t *testing.T) {
	a, err := New(config.Default(), fixtureCrate(t))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	result, err := a.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SaveSnapshot(result); err != nil {
		t.Errorf("expected no-op without history store, got %v", err)
	}
}

func TestAppListing(t *testing.T) {
	a, err := New(config.Default(), fixtureCrate(t))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	result, err := a.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	listing := a.Listing(result)
	if !strings.Contains(listing, "crate::storage\n") {
		t.Error("expected crate::storage in listing")
	}
	if !strings.Contains(listing, "  => std::collections") {
		t.Error("expected external marker for std::collections")
	}
	if !strings.Contains(listing, "  -> crate::storage::disk") {
		t.Error("expected local marker for crate::storage::disk")
	}
}

func TestAppModuleReport(t *testing.T) {
	a, err := New(config.Default(), fixtureCrate(t))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	result, err := a.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	report, err := a.ModuleReport(result, "crate::storage")
	if err != nil {
		t.Fatalf("module report: %v", err)
	}
	if !strings.Contains(report, "Module: crate::storage") {
		t.Error("expected module header")
	}
	if !strings.Contains(report, "blocked by 1 import cycle") {
		t.Errorf("expected extraction blocked, got:\n%s", report)
	}

	if _, err := a.ModuleReport(result, "crate::nope"); err == nil {
		t.Error("expected error for unknown module")
	}
}
