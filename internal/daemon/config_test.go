package daemon_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stridehq/stride/internal/daemon"
)

func TestDefaultConfig(t *testing.T) {
	cfg := daemon.DefaultConfig()
	if cfg.API.Port != 8422 {
		t.Errorf("unexpected default port %d", cfg.API.Port)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected sqlite default backend, got %s", cfg.Store.Backend)
	}
	if cfg.Store.Timeout() != 15*time.Second {
		t.Errorf("expected 15s store timeout, got %v", cfg.Store.Timeout())
	}
}

func TestStoreTimeoutFallback(t *testing.T) {
	s := daemon.StoreConfig{TimeoutSecs: 0}
	if s.Timeout() != 15*time.Second {
		t.Errorf("expected fallback 15s, got %v", s.Timeout())
	}
	s.TimeoutSecs = 3
	if s.Timeout() != 3*time.Second {
		t.Errorf("expected 3s, got %v", s.Timeout())
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STRIDE_HOME", dir)

	cfg := daemon.DefaultConfig()
	cfg.API.Port = 9000
	cfg.Store.Backend = "surreal"
	cfg.Store.Host = "sync.example.com"

	if err := daemon.SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	loaded, err := daemon.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.Port != 9000 || loaded.Store.Backend != "surreal" || loaded.Store.Host != "sync.example.com" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STRIDE_HOME", t.TempDir())

	cfg, err := daemon.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != daemon.DefaultConfig().API.Port {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
