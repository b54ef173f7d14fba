package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.GenModel != "qwen-plus" {
		t.Fatalf("GenModel = %q, want %q", cfg.GenModel, "qwen-plus")
	}
	if cfg.GenRequestTimeout != 30*time.Second {
		t.Fatalf("GenRequestTimeout = %v, want 30s", cfg.GenRequestTimeout)
	}
	if cfg.GenTemperature != 0.7 || cfg.GenTopP != 0.9 || cfg.GenMaxTokens != 2048 {
		t.Fatalf("unexpected sampling defaults: %+v", cfg)
	}
	if cfg.ChatHistoryIdleTTL != 0 {
		t.Fatalf("ChatHistoryIdleTTL = %v, want 0 (disabled)", cfg.ChatHistoryIdleTTL)
	}
}

func TestLoadUsesExplicitValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9191")
	t.Setenv("GEN_MODEL", "qwen-max")
	t.Setenv("GEN_REQUEST_TIMEOUT", "5s")
	t.Setenv("CHAT_HISTORY_IDLE_TTL", "24h")
	t.Setenv("GEN_TEMPERATURE", "0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9191" {
		t.Fatalf("BindAddr = %q, want explicit value", cfg.BindAddr)
	}
	if cfg.GenModel != "qwen-max" {
		t.Fatalf("GenModel = %q, want %q", cfg.GenModel, "qwen-max")
	}
	if cfg.GenRequestTimeout != 5*time.Second {
		t.Fatalf("GenRequestTimeout = %v, want 5s", cfg.GenRequestTimeout)
	}
	if cfg.ChatHistoryIdleTTL != 24*time.Hour {
		t.Fatalf("ChatHistoryIdleTTL = %v, want 24h", cfg.ChatHistoryIdleTTL)
	}
	if cfg.GenTemperature != 0.2 {
		t.Fatalf("GenTemperature = %v, want 0.2", cfg.GenTemperature)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"timeout too small", "GEN_REQUEST_TIMEOUT", "100ms"},
		{"bad temperature", "GEN_TEMPERATURE", "3.5"},
		{"bad top_p", "GEN_TOP_P", "0"},
		{"bad max tokens", "GEN_MAX_TOKENS", "-1"},
		{"negative ttl", "CHAT_HISTORY_IDLE_TTL", "-1h"},
		{"unparseable bool", "APP_ALLOW_ANY_ORIGIN", "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_DEMO_SEED",
		"AURALINK_CONTRACT",
		"DATABASE_URL",
		"GEN_API_KEY",
		"GEN_ENDPOINT",
		"GEN_MODEL",
		"GEN_TEMPERATURE",
		"GEN_TOP_P",
		"GEN_MAX_TOKENS",
		"GEN_REQUEST_TIMEOUT",
		"CHAT_HISTORY_IDLE_TTL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
