package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override values from the config file.
const (
	EnvBackendURL   = "TASKCHAT_BACKEND_URL"
	EnvLogLevel     = "TASKCHAT_LOG_LEVEL"
	EnvMaxRetries   = "TASKCHAT_MAX_RETRIES"
	EnvRetryDelayMS = "TASKCHAT_RETRY_DELAY_MS"
)

// Config represents the application configuration
type Config struct {
	// BackendURL is the base URL of the task backend. Change it per deployment,
	// e.g. when the backend runs behind a tunnel.
	BackendURL string `json:"backend_url"`

	MaxRetries              int `json:"max_retries"`
	RetryDelayMS            int `json:"retry_delay_ms"`
	ThinkingDelayMS         int `json:"thinking_delay_ms"` // cosmetic only
	ToastDurationMS         int `json:"toast_duration_ms"`
	RequestTimeoutSeconds   int `json:"request_timeout_seconds"`
	HealthTimeoutSeconds    int `json:"health_timeout_seconds"`
	ProbeTimeoutSeconds     int `json:"probe_timeout_seconds"`
	HealthIntervalSeconds   int `json:"health_interval_seconds"` // 0 disables polling
	NetwatchIntervalSeconds int `json:"netwatch_interval_seconds"`
	MaxInputChars           int `json:"max_input_chars"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // "json" or "text"
	LogFile   string `json:"log_file"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		BackendURL:              "http://localhost:7001",
		MaxRetries:              3,
		RetryDelayMS:            1000,
		ThinkingDelayMS:         1500,
		ToastDurationMS:         3000,
		RequestTimeoutSeconds:   30,
		HealthTimeoutSeconds:    5,
		ProbeTimeoutSeconds:     10,
		HealthIntervalSeconds:   30,
		NetwatchIntervalSeconds: 5,
		MaxInputChars:           1000,
		LogLevel:                "info",
		LogFormat:               "json",
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	return parse(data)
}

// parse decodes data on top of Default so fields missing from older files
// keep their defaults.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// LoadDotEnv reads KEY=VALUE pairs from the given .env files into the process
// environment. Variables that are already set win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays TASKCHAT_* environment variables on top of cfg.
func (c Config) ApplyEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvBackendURL)); v != "" {
		c.BackendURL = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(EnvMaxRetries)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("invalid %s %q: %w", EnvMaxRetries, v, err)
		}
		c.MaxRetries = n
	}
	if v := strings.TrimSpace(getenv(EnvRetryDelayMS)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("invalid %s %q: %w", EnvRetryDelayMS, v, err)
		}
		c.RetryDelayMS = n
	}
	return c, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("backend_url is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend_url must be an absolute http(s) URL, got: %q", c.BackendURL)
	}

	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive, got: %d", c.MaxRetries)
	}
	if c.RetryDelayMS < 0 {
		return fmt.Errorf("retry_delay_ms must not be negative, got: %d", c.RetryDelayMS)
	}
	if c.ThinkingDelayMS < 0 {
		return fmt.Errorf("thinking_delay_ms must not be negative, got: %d", c.ThinkingDelayMS)
	}
	if c.ToastDurationMS <= 0 {
		return fmt.Errorf("toast_duration_ms must be positive, got: %d", c.ToastDurationMS)
	}

	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got: %d", c.RequestTimeoutSeconds)
	}
	if c.HealthTimeoutSeconds <= 0 {
		return fmt.Errorf("health_timeout_seconds must be positive, got: %d", c.HealthTimeoutSeconds)
	}
	if c.ProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("probe_timeout_seconds must be positive, got: %d", c.ProbeTimeoutSeconds)
	}
	if c.HealthIntervalSeconds < 0 {
		return fmt.Errorf("health_interval_seconds must not be negative, got: %d", c.HealthIntervalSeconds)
	}
	if c.NetwatchIntervalSeconds < 0 {
		return fmt.Errorf("netwatch_interval_seconds must not be negative, got: %d", c.NetwatchIntervalSeconds)
	}

	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max_input_chars must be positive, got: %d", c.MaxInputChars)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be one of trace, debug, info, warn, error, got: %q", c.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got: %q", c.LogFormat)
	}

	return nil
}

// RetryDelay returns the base retry delay.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// ThinkingDelay returns the minimum time the typing indicator stays visible.
func (c Config) ThinkingDelay() time.Duration {
	return time.Duration(c.ThinkingDelayMS) * time.Millisecond
}

// ToastDuration returns how long a notification stays on screen.
func (c Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastDurationMS) * time.Millisecond
}

// RequestTimeout bounds a single /run attempt at the transport level.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// HealthTimeout bounds a single /health call.
func (c Config) HealthTimeout() time.Duration {
	return time.Duration(c.HealthTimeoutSeconds) * time.Second
}

// ProbeTimeout bounds a developer panel endpoint probe.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// HealthInterval returns the polling interval, zero when polling is off.
func (c Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

// NetwatchInterval returns the connectivity polling interval.
func (c Config) NetwatchInterval() time.Duration {
	return time.Duration(c.NetwatchIntervalSeconds) * time.Second
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".taskchat/config.json"
	}
	return filepath.Join(homeDir, ".taskchat", "config.json")
}
