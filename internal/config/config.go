package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the sleep-health service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	DatabaseURL string

	// Text-generation upstream (DashScope-compatible endpoint).
	GenAPIKey         string
	GenEndpoint       string
	GenModel          string
	GenTemperature    float64
	GenTopP           float64
	GenMaxTokens      int
	GenRequestTimeout time.Duration

	// Conversation history housekeeping. Zero disables idle eviction and
	// keeps histories for the process lifetime.
	ChatHistoryIdleTTL time.Duration

	// Auralink token bridge. Empty means the bridge stays disabled.
	AuralinkContract string

	DemoSeedEnabled bool
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "somnus"),
		AllowAnyOrigin:    false,
		DatabaseURL:       trimmedEnv("DATABASE_URL"),
		GenAPIKey:         trimmedEnv("GEN_API_KEY"),
		GenEndpoint:       envOrDefault("GEN_ENDPOINT", "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"),
		GenModel:          envOrDefault("GEN_MODEL", "qwen-plus"),
		GenTemperature:    0.7,
		GenTopP:           0.9,
		GenMaxTokens:      2048,
		GenRequestTimeout: 30 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		AuralinkContract:  trimmedEnv("AURALINK_CONTRACT"),
		DemoSeedEnabled:   false,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.GenRequestTimeout, err = durationFromEnv("GEN_REQUEST_TIMEOUT", cfg.GenRequestTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatHistoryIdleTTL, err = durationFromEnv("CHAT_HISTORY_IDLE_TTL", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.GenTemperature, err = floatFromEnv("GEN_TEMPERATURE", cfg.GenTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.GenTopP, err = floatFromEnv("GEN_TOP_P", cfg.GenTopP)
	if err != nil {
		return Config{}, err
	}
	cfg.GenMaxTokens, err = intFromEnv("GEN_MAX_TOKENS", cfg.GenMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.DemoSeedEnabled, err = boolFromEnv("APP_DEMO_SEED", cfg.DemoSeedEnabled)
	if err != nil {
		return Config{}, err
	}

	if cfg.GenRequestTimeout < time.Second {
		return Config{}, fmt.Errorf("GEN_REQUEST_TIMEOUT must be at least 1s")
	}
	if cfg.GenTemperature < 0 || cfg.GenTemperature > 2 {
		return Config{}, fmt.Errorf("GEN_TEMPERATURE must be in [0,2]")
	}
	if cfg.GenTopP <= 0 || cfg.GenTopP > 1 {
		return Config{}, fmt.Errorf("GEN_TOP_P must be in (0,1]")
	}
	if cfg.GenMaxTokens <= 0 {
		return Config{}, fmt.Errorf("GEN_MAX_TOKENS must be positive")
	}
	if cfg.ChatHistoryIdleTTL < 0 {
		return Config{}, fmt.Errorf("CHAT_HISTORY_IDLE_TTL must not be negative")
	}
	if strings.TrimSpace(cfg.GenModel) == "" {
		return Config{}, fmt.Errorf("GEN_MODEL must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
