package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Mapping != "mapping.json" {
		t.Errorf("expected default mapping file, got %q", cfg.Mapping)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("expected default indent 2, got %d", cfg.Output.Indent)
	}
	if !cfg.Output.Color {
		t.Error("expected color enabled by default")
	}
	if cfg.Watch.DebounceMs != 500 {
		t.Errorf("expected default debounce 500, got %d", cfg.Watch.DebounceMs)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".sheetxml")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "mapping: project.yaml\noutput:\n  indent: 4\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Mapping != "project.yaml" {
		t.Errorf("expected mapping from file, got %q", cfg.Mapping)
	}
	if cfg.Output.Indent != 4 {
		t.Errorf("expected indent from file, got %d", cfg.Output.Indent)
	}
	// Untouched keys keep their defaults.
	if cfg.Watch.DebounceMs != 500 {
		t.Errorf("expected default debounce, got %d", cfg.Watch.DebounceMs)
	}
}

func TestInitCreatesConfigOnce(t *testing.T) {
	isolateHome(t)

	created, err := Init()
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !created {
		t.Fatal("expected the first Init to create the file")
	}
	if _, err := os.Stat(Path()); err != nil {
		t.Fatalf("config file missing after Init: %v", err)
	}

	created, err = Init()
	if err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if created {
		t.Error("expected the second Init to leave the existing file alone")
	}
}

func TestDirUnderHome(t *testing.T) {
	home := isolateHome(t)

	if got, want := Dir(), filepath.Join(home, ".sheetxml"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}
