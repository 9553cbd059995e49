package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Data.Complaints == "" {
		t.Error("complaints path should have a default")
	}
	if cfg.Logging.ChatHistory == "" {
		t.Error("chat history path should have a default")
	}
	if cfg.Channels.Telegram.Enabled {
		t.Error("telegram should be disabled by default")
	}
}

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.Path != "" {
		t.Fatalf("data path = %q, want default empty", cfg.Data.Path)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.json")
	body := `{"data": {"path": "buses.csv"}, "channels": {"telegram": {"enabled": true, "allow_from": ["123", 456]}}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CHETNA_DATA_PATH", "env-buses.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.Path != "env-buses.json" {
		t.Fatalf("env override lost: %q", cfg.Data.Path)
	}
	if !cfg.Channels.Telegram.Enabled {
		t.Fatalf("telegram.enabled not read from file")
	}
	allow := cfg.Channels.Telegram.AllowFrom
	if len(allow) != 2 || allow[0] != "123" || allow[1] != "456" {
		t.Fatalf("allow_from = %v, want mixed types coerced to strings", allow)
	}
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("CHETNA_TEST_KEY", "secret")

	if got := resolveEnvRef("${CHETNA_TEST_KEY}"); got != "secret" {
		t.Fatalf("resolveEnvRef(${}) = %q", got)
	}
	if got := resolveEnvRef("$CHETNA_TEST_KEY"); got != "secret" {
		t.Fatalf("resolveEnvRef($) = %q", got)
	}
	if got := resolveEnvRef("plain-value"); got != "plain-value" {
		t.Fatalf("plain value changed: %q", got)
	}
}
