package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
log:
  level: warn
postgres:
  dsn: postgres://test:test@db:5432/mingle
browse:
  requeue_delay: 2s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/mingle" {
		t.Fatalf("unexpected postgres dsn: %s", cfg.Postgres.DSN)
	}
	if cfg.Browse.RequeueDelay != 2*time.Second {
		t.Fatalf("unexpected requeue delay: %s", cfg.Browse.RequeueDelay)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("default http addr must survive partial yaml: %s", cfg.HTTP.Addr)
	}
	if cfg.Browse.PollInterval != 250*time.Millisecond {
		t.Fatalf("default poll interval must survive partial yaml: %s", cfg.Browse.PollInterval)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
}

func TestEnvOverridesWin(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("BROWSE_REQUEUE_DELAY", "1500ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Bot.Token != "123:abc" {
		t.Fatalf("unexpected bot token: %s", cfg.Bot.Token)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("unexpected redis db: %d", cfg.Redis.DB)
	}
	if cfg.Browse.RequeueDelay != 1500*time.Millisecond {
		t.Fatalf("unexpected requeue delay: %s", cfg.Browse.RequeueDelay)
	}
}

func TestEnvOverrideRejectsBadDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BROWSE_REQUEUE_DELAY", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed duration override")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_ENV", "HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT", "LOG_LEVEL", "POSTGRES_DSN", "REDIS_ADDR",
		"REDIS_PASSWORD", "REDIS_DB", "BOT_TOKEN", "BROWSE_REQUEUE_DELAY",
		"BROWSE_POLL_INTERVAL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}
