package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Critic providers
const (
	CriticAnthropic = "anthropic"
	CriticStatic    = "static"
)

// Feedback status policies
const (
	StatusPolicyPermissive = "permissive"
	StatusPolicyForward    = "forward"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins []string

	// Storage
	Store          string
	DatabaseURL    string
	UploadDir      string
	MaxUploadBytes int64

	// AI critique
	CriticProvider  string
	AnthropicAPIKey string
	CriticModel     string
	CriticTimeout   time.Duration

	// Domain policies
	FeedbackStatusPolicy string
	AnalysisStaleAfter   time.Duration

	// Rate limiting (disabled in dev)
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Image dimension cache
	ImageCacheSize int
	ImageCacheTTL  time.Duration

	// Logging
	LogLevel    slog.Level
	LogFormat   string
	LogDir      string
	LogMaxFiles int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	// Without an API key development falls back to the static critic
	defaultCritic := CriticStatic
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		defaultCritic = CriticAnthropic
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "5000"),
		Environment:          env,
		CORSOrigins:          parseCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Store:                getEnv("STORE", StorePostgres),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
		CriticProvider:       getEnv("CRITIC_PROVIDER", defaultCritic),
		AnthropicAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
		CriticModel:          getEnv("CRITIC_MODEL", "claude-sonnet-4-5-20250929"),
		FeedbackStatusPolicy: getEnv("FEEDBACK_STATUS_POLICY", StatusPolicyPermissive),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		LogDir:               getEnv("LOG_DIR", ""),
	}

	var err error
	var maxUploadMB int
	if maxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", DefaultMaxUploadMB); err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_MB: %w", err)
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20

	if cfg.CriticTimeout, err = getEnvDuration("CRITIC_TIMEOUT", 90*time.Second); err != nil {
		return nil, fmt.Errorf("CRITIC_TIMEOUT: %w", err)
	}
	if cfg.AnalysisStaleAfter, err = getEnvDuration("ANALYSIS_STALE_AFTER", 10*time.Minute); err != nil {
		return nil, fmt.Errorf("ANALYSIS_STALE_AFTER: %w", err)
	}
	if cfg.RateLimitRequests, err = getEnvInt("RATE_LIMIT_REQUESTS", 100); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.RateLimitWindow, err = getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
	}
	if cfg.ImageCacheSize, err = getEnvInt("IMAGE_CACHE_SIZE", 512); err != nil {
		return nil, fmt.Errorf("IMAGE_CACHE_SIZE: %w", err)
	}
	if cfg.ImageCacheTTL, err = getEnvDuration("IMAGE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, fmt.Errorf("IMAGE_CACHE_TTL: %w", err)
	}
	if cfg.LogMaxFiles, err = getEnvInt("LOG_MAX_FILES", 5); err != nil {
		return nil, fmt.Errorf("LOG_MAX_FILES: %w", err)
	}

	defaultLevel := "info"
	if env == "dev" {
		defaultLevel = "debug"
	}
	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", defaultLevel)); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE=%s", StorePostgres)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE: unknown backend %q (postgres, memory)", c.Store)
	}

	switch c.CriticProvider {
	case CriticAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when CRITIC_PROVIDER=%s", CriticAnthropic)
		}
	case CriticStatic:
	default:
		return fmt.Errorf("CRITIC_PROVIDER: unknown provider %q (anthropic, static)", c.CriticProvider)
	}

	switch c.FeedbackStatusPolicy {
	case StatusPolicyPermissive, StatusPolicyForward:
	default:
		return fmt.Errorf("FEEDBACK_STATUS_POLICY: unknown policy %q (permissive, forward)", c.FeedbackStatusPolicy)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT: unknown format %q (json, text)", c.LogFormat)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// RateLimitEnabled reports whether per-IP rate limiting applies.
func (c *Config) RateLimitEnabled() bool {
	return c.Environment != "dev" && c.RateLimitRequests > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", val)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use Go format: 30s, 15m, 1h)", val)
	}
	return d, nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q (debug, info, warn, error)", level)
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
