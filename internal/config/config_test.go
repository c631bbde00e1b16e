package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HenriqueAssisDev/TCC-II/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_missingUsesDefaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Download.Timeout != 30*time.Minute || cfg.Download.Attempts != 3 {
		t.Errorf("unexpected defaults: %+v", cfg.Download)
	}
	if cfg.CatalogPath() != filepath.Join(".", "data", "versions.json") {
		t.Errorf("unexpected catalog path %s", cfg.CatalogPath())
	}
}

func TestLoadFile_overridesAndExpands(t *testing.T) {
	t.Setenv("INTEGRADOR_TEST_BASE", "/srv/integrador")
	path := writeConfig(t, `
paths:
  base: ${INTEGRADOR_TEST_BASE}
download:
  timeout: 5m
  attempts: 1
log:
  level: debug
`)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Paths.Base != "/srv/integrador" {
		t.Errorf("expected expanded base, got %q", cfg.Paths.Base)
	}
	if cfg.Download.Timeout != 5*time.Minute || cfg.Download.Attempts != 1 {
		t.Errorf("unexpected download config: %+v", cfg.Download)
	}
	if cfg.Download.ConnectTimeout != 30*time.Second {
		t.Errorf("unset fields must keep their defaults, got %v", cfg.Download.ConnectTimeout)
	}
	layout := cfg.Layout()
	if layout.Shortcuts != filepath.Join("/srv/integrador", "Atalhos") {
		t.Errorf("unexpected shortcuts dir %s", layout.Shortcuts)
	}
}

func TestLoadFile_absolutePathsKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "catalog.toml")
	path := writeConfig(t, "paths:\n  catalog: "+abs+"\n")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CatalogPath() != abs {
		t.Errorf("expected %s, got %s", abs, cfg.CatalogPath())
	}
}

func TestLoadFile_invalid(t *testing.T) {
	tests := map[string]string{
		"zero attempts":  "download:\n  attempts: 0\n",
		"bad level":      "log:\n  level: loud\n",
		"relative probe": "doctor:\n  probe_url: example.com\n",
		"not yaml":       "paths: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := config.LoadFile(writeConfig(t, content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLogConfig_jsonPrefix(t *testing.T) {
	c := config.LogConfig{Level: "json:debug"}
	if err := c.Validate(); err != nil {
		t.Errorf("expected json:debug to be accepted: %v", err)
	}
}

func TestLoad_errorMentionsFile(t *testing.T) {
	var target struct{}
	err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), &target)
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Errorf("expected error naming the file, got %v", err)
	}
}
