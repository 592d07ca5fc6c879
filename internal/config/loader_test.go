package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesAndReadsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}

	def := Default()
	if cfg.Addr != def.Addr || cfg.DefaultRoom != def.DefaultRoom || cfg.LogonGrace != def.LogonGrace {
		t.Fatalf("loaded config differs from defaults: %+v", cfg)
	}
}

func TestLoadReadsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "addr: \":9999\"\ndefault_room: Lobby\nlogon_grace: 10s\nws_rate_limit: 42\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.DefaultRoom != "Lobby" {
		t.Fatalf("default_room = %q", cfg.DefaultRoom)
	}
	if cfg.LogonGrace != 10*time.Second {
		t.Fatalf("logon_grace = %v", cfg.LogonGrace)
	}
	if cfg.WSRateLimit != 42 {
		t.Fatalf("ws_rate_limit = %d", cfg.WSRateLimit)
	}
	// Untouched keys keep their defaults.
	if cfg.ShutdownTimeout != Default().ShutdownTimeout {
		t.Fatalf("shutdown_timeout = %v", cfg.ShutdownTimeout)
	}
}
