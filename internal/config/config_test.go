package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskview/internal/config"
)

func TestNew_DefaultsWithoutSettingsFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	s := cfg.Settings
	if s.Backend != config.BackendGoogle {
		t.Errorf("expected backend %q, got %q", config.BackendGoogle, s.Backend)
	}
	if s.Google.List != "@default" {
		t.Errorf("expected list @default, got %q", s.Google.List)
	}
	if s.Redis.Addr != config.DefaultRedisAddr || s.Redis.Prefix != config.DefaultRedisPrefix {
		t.Errorf("unexpected redis defaults: %+v", s.Redis)
	}
	if s.Timeout != config.DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", config.DefaultTimeout, s.Timeout)
	}
}

func TestNew_ReadsSettingsFile(t *testing.T) {
	dir := t.TempDir()
	yml := `backend: redis
redis:
  addr: cache:6380
  db: 2
  prefix: "tv:"
timeout: 3s
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0600); err != nil {
		t.Fatalf("failed to write config.yaml: %v", err)
	}

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := cfg.Settings
	if s.Backend != config.BackendRedis {
		t.Errorf("expected backend redis, got %q", s.Backend)
	}
	if s.Redis.Addr != "cache:6380" || s.Redis.DB != 2 || s.Redis.Prefix != "tv:" {
		t.Errorf("unexpected redis settings: %+v", s.Redis)
	}
	if s.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", s.Timeout)
	}
	if s.Google.List != "@default" {
		t.Errorf("expected default list, got %q", s.Google.List)
	}
}

func TestNew_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: sqlite\n"), 0600); err != nil {
		t.Fatalf("failed to write config.yaml: %v", err)
	}

	_, err := config.New(dir)
	if err == nil || !strings.Contains(err.Error(), "unknown backend: sqlite") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestNew_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: [\n"), 0600); err != nil {
		t.Fatalf("failed to write config.yaml: %v", err)
	}

	_, err := config.New(dir)
	if err == nil || !strings.Contains(err.Error(), "invalid config.yaml") {
		t.Errorf("expected invalid config.yaml error, got %v", err)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "taskview") {
		t.Errorf("unexpected config dir: %q", got)
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := &config.Config{Dir: "/cfg"}

	if got := cfg.OAuthClientPath(); got != filepath.Join("/cfg", "oauth_client.json") {
		t.Errorf("unexpected oauth client path: %q", got)
	}
	if got := cfg.TokenPath(); got != filepath.Join("/cfg", "token.json") {
		t.Errorf("unexpected token path: %q", got)
	}
	if cfg.HasToken() {
		t.Error("expected no token")
	}
}
