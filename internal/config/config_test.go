package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Search.TextDebounce != 300*time.Millisecond {
		t.Errorf("Expected 300ms debounce, got %v", cfg.Search.TextDebounce)
	}
	if cfg.Map.FitMaxZoom != 16 || cfg.Map.FirstFixZoom != 15 {
		t.Errorf("Unexpected zoom defaults %+v", cfg.Map)
	}
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "churchmap.yaml", `
remote:
  base_url: https://api.example.org/churches
  timeout: 3s
search:
  text_debounce: 150ms
store:
  driver: bolt
  path: churches.db
`)

	chdir(t, dir)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Remote.BaseURL != "https://api.example.org/churches" || cfg.Remote.Timeout != 3*time.Second {
		t.Errorf("Unexpected remote config %+v", cfg.Remote)
	}
	if cfg.Search.TextDebounce != 150*time.Millisecond {
		t.Errorf("Expected 150ms debounce, got %v", cfg.Search.TextDebounce)
	}
	if cfg.Search.PageSize != 12 {
		t.Errorf("Expected untouched default page size, got %d", cfg.Search.PageSize)
	}
	if cfg.Store.Driver != StoreDriverBolt {
		t.Errorf("Expected bolt store, got %s", cfg.Store.Driver)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "remote: [", "parsing"},
		{"bad driver", "store:\n  driver: redis\n", "unsupported store driver"},
		{"bad url", "remote:\n  base_url: ftp://x\n", "http or https"},
		{"bad page size", "search:\n  page_size: 0\n", "page size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "c.yaml", tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRemoteURL:  "http://localhost:9000",
		EnvPort:       "9090",
		EnvStore:      "BOLT",
		EnvAdminToken: "s3cret",
	}
	cfg := NewDefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Remote.BaseURL != "http://localhost:9000" {
		t.Errorf("Unexpected remote url %q", cfg.Remote.BaseURL)
	}
	if cfg.Server.Port != ":9090" {
		t.Errorf("Expected :9090, got %q", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreDriverBolt {
		t.Errorf("Expected lower-cased driver, got %q", cfg.Store.Driver)
	}
	if cfg.Server.AdminToken != "s3cret" {
		t.Errorf("Expected admin token, got %q", cfg.Server.AdminToken)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".env", EnvDataset+"=/srv/churches.json\n")
	t.Setenv(EnvDataset, "")
	os.Unsetenv(EnvDataset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Offline.DatasetPath != "/srv/churches.json" {
		t.Errorf("Expected dataset path from .env, got %q", cfg.Offline.DatasetPath)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd %s: %v", prev, err)
		}
	})
}
