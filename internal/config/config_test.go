//nolint:testpackage // Tests require internal access for thorough testing
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME and the working directory at fresh temp dirs and
// returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"LANES_STORAGE_BACKEND", "LANES_STORAGE_PERSIST_EMPTY",
		"LANES_LOG_LEVEL", "LANES_SERVER_ADDR", "LANES_BOARD_TIMEZONE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	wd := t.TempDir()
	chdir(t, wd)
	return wd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Backend != "file" {
		t.Errorf("Expected backend 'file', got '%s'", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("Expected key 'tasks', got '%s'", cfg.Storage.Key)
	}
	if !cfg.Storage.PersistEmpty {
		t.Error("Expected empty boards to be persisted by default")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected log level 'warn', got '%s'", cfg.Log.Level)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadLayering(t *testing.T) {
	wd := isolate(t)
	home := os.Getenv("HOME")

	writeFile(t, filepath.Join(home, ".lanes", "config.yaml"), `
storage:
  backend: sqlite
log:
  level: info
server:
  addr: ":9000"
`)
	writeFile(t, filepath.Join(wd, ".lanes.yaml"), `
log:
  level: debug
`)
	explicit := filepath.Join(t.TempDir(), "override.yaml")
	writeFile(t, explicit, `
server:
  addr: ":9100"
`)
	t.Setenv("LANES_STORAGE_BACKEND", "memory")

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage.Backend != "memory" {
		t.Errorf("env should win: backend = %q", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("project should override global: level = %q", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("explicit file should override project: addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("unset keys keep defaults: key = %q", cfg.Storage.Key)
	}
}

func TestLoadBoolFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("LANES_STORAGE_PERSIST_EMPTY", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.PersistEmpty {
		t.Error("persist_empty should be false from env")
	}
}

func TestLoadDotEnv(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, ".env"), "LANES_SERVER_ADDR=127.0.0.1:1234\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:1234" {
		t.Errorf("addr = %q, want value from .env", cfg.Server.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing --config file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, ".lanes.yaml"), "storage: [unclosed\n")

	if _, err := Load(""); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("round trip = %+v, want defaults", cfg)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		tz      string
		want    *time.Location
		wantErr bool
	}{
		{"", time.Local, false},
		{"Local", time.Local, false},
		{"UTC", time.UTC, false},
		{"Not/AZone", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			loc, err := BoardConfig{Timezone: tt.tz}.Location()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if loc.String() != tt.want.String() {
				t.Errorf("Location() = %v, want %v", loc, tt.want)
			}
		})
	}
}
