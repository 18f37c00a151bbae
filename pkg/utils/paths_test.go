package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAndEnsureDBPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "jotter.db")

	got, err := ResolveAndEnsureDBPath(target)
	if err != nil {
		t.Fatalf("ResolveAndEnsureDBPath failed: %v", err)
	}
	if got != target {
		t.Errorf("Expected %s, got %s", target, got)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Errorf("Expected parent directory to be created, stat err: %v", err)
	}
}

func TestDefaultPaths(t *testing.T) {
	if filepath.Base(GetDefaultDBPathOnly()) != "jotter.db" {
		t.Errorf("Unexpected default db path: %s", GetDefaultDBPathOnly())
	}
	if filepath.Base(GetDefaultConfigPath()) != "config.yaml" {
		t.Errorf("Unexpected default config path: %s", GetDefaultConfigPath())
	}
	if filepath.Dir(GetDefaultStateDir()) != GetDefaultDataDir() {
		t.Errorf("State dir %s should live under data dir %s", GetDefaultStateDir(), GetDefaultDataDir())
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandHome("~/notes")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if got != filepath.Join(home, "notes") {
		t.Errorf("Expected %s, got %s", filepath.Join(home, "notes"), got)
	}

	if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("Absolute path should be unchanged, got %s", got)
	}
}

func TestResolveStateDir(t *testing.T) {
	got, err := ResolveStateDir("relative/dir")
	if err != nil {
		t.Fatalf("ResolveStateDir failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expected an absolute path, got %s", got)
	}
}
