package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gridmesh/gridmesh/pkg/errors"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Spacing != 80 || cfg.Layout.Buffer != 3 || cfg.Layout.Padding != 20 {
		t.Errorf("defaults = %+v, want spacing 80, buffer 3, padding 20", cfg.Layout)
	}
	if cfg.Server.Addr != ":8423" {
		t.Errorf("Server.Addr = %q, want :8423", cfg.Server.Addr)
	}
	if cfg.Store.Database != "gridmesh" {
		t.Errorf("Store.Database = %q, want gridmesh", cfg.Store.Database)
	}
}

func TestLoadOverlaysFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[layout]
spacing = 120.0

[cache]
redis_addr = "localhost:6379"

[server]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Spacing != 120 {
		t.Errorf("Layout.Spacing = %v, want 120", cfg.Layout.Spacing)
	}
	// Untouched keys keep their defaults.
	if cfg.Layout.Buffer != 3 {
		t.Errorf("Layout.Buffer = %v, want default 3", cfg.Layout.Buffer)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache.RedisAddr = %q, want localhost:6379", cfg.Cache.RedisAddr)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout\nspacing="), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should reject malformed TOML")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestLoadRejectsNegativeSpacing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\nspacing = -1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject negative spacing")
	}
}

func TestCacheDirPrefersConfigured(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/custom-cache"
	if got := cfg.CacheDir(); got != "/tmp/custom-cache" {
		t.Errorf("CacheDir() = %q, want configured dir", got)
	}

	cfg.Cache.Dir = ""
	if got := cfg.CacheDir(); got == "" {
		t.Error("CacheDir() should fall back to a non-empty default")
	}
}
