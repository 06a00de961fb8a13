package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv(EnvRoot, "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Depth != 10 || cfg.Format != "json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Roots) != 0 {
		t.Fatalf("expected no configured roots, got %v", cfg.Roots)
	}
}

func TestLoadExpandsEnvInYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKILLGRAPH_TEST_BASE", "/srv/bundles")
	writeConfig(t, dir, "roots:\n  - ${SKILLGRAPH_TEST_BASE}/main\nformat: toon\ndepth: 5\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Roots, []string{"/srv/bundles/main"}) {
		t.Fatalf("unexpected roots: %v", cfg.Roots)
	}
	if cfg.Format != "toon" || cfg.Depth != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvRootOverridesConfiguredRoots(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "roots:\n  - /from/file\n")
	t.Setenv(EnvRoot, "/from/env")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Roots, []string{"/from/env"}) {
		t.Fatalf("expected env override, got %v", cfg.Roots)
	}
}

func TestLoadAppliesDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SKILLGRAPH_TEST_DOTENV=/dotenv/bundles\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("SKILLGRAPH_TEST_DOTENV") })
	writeConfig(t, dir, "roots:\n  - ${SKILLGRAPH_TEST_DOTENV}\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Roots, []string{"/dotenv/bundles"}) {
		t.Fatalf("expected .env expansion, got %v", cfg.Roots)
	}
}

func TestLoadRejectsInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "format: yaml\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected validation to reject the format")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "roots: [unclosed\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a parse error")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}
