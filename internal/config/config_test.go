package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
server:
  port: "9090"
redis:
  addr: "localhost:6379"
  ttl: "15m"
postgres:
  url: "postgres://tc:tc@localhost/tc"
catalog:
  id: "elements"
  ttl: "10m"
session:
  seconds: 90
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port: got %q", cfg.Server.Port)
	}
	if cfg.Session.Seconds != 90 {
		t.Fatalf("session seconds: got %d", cfg.Session.Seconds)
	}
	if cfg.Catalog.ID != "elements" {
		t.Fatalf("catalog id: got %q", cfg.Catalog.ID)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty: got %v", got)
	}
	if got := TTLDuration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("parse: got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("fallback: got %v", got)
	}
}
