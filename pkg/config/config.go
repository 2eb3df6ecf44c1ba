package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/todo/pkg/observability"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// HTTP
	HTTPAddr          string
	APIBasePath       string
	CORSAllowedOrigin string
	ShutdownTimeout   time.Duration

	// Database
	DatabaseURL      string
	DatabaseDriver   string
	DatabaseName     string
	DatabaseMaxConns int
	MigrateOnStart   bool

	// RabbitMQ
	RabbitMQURL      string
	RabbitMQExchange string

	// Circuit breaker
	BreakerEnabled     bool
	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration

	// Metrics
	MetricsEnabled bool

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		HTTPAddr:          getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		APIBasePath:       normalizeBasePath(getEnv("API_BASE_PATH", "")),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		ShutdownTimeout:   getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseDriver:   getEnv("DATABASE_DRIVER", "auto"),
		DatabaseName:     getEnv("DATABASE_NAME", "todo"),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),
		MigrateOnStart:   getBoolEnv("MIGRATE_ON_START", true),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "todo.events"),

		BreakerEnabled:     getBoolEnv("BREAKER_ENABLED", true),
		BreakerMaxFailures: getIntEnv("BREAKER_MAX_FAILURES", 5),
		BreakerOpenTimeout: getDurationEnv("BREAKER_OPEN_TIMEOUT", 30*time.Second),

		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.BreakerMaxFailures < 1 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be at least 1, got %d", c.BreakerMaxFailures)
	}
	if c.DatabaseMaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1, got %d", c.DatabaseMaxConns)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if slices.Contains(reservedBasePaths, c.APIBasePath) {
		return fmt.Errorf("API_BASE_PATH %q collides with a top-level route", c.APIBasePath)
	}
	return nil
}

// reservedBasePaths are the unprefixed routes the API always serves.
var reservedBasePaths = []string{"/health", "/metrics", "/tasks", "/add", "/update", "/delete"}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SlogLevel maps LOG_LEVEL to a slog level. Development always logs debug.
func (c *Config) SlogLevel() slog.Level {
	if c.IsDevelopment() {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogConfig maps LOG_FORMAT and LOG_LEVEL onto a logger configuration for
// service. Production logs carry source locations.
func (c *Config) LogConfig(service string) observability.LogConfig {
	format := observability.LogFormatText
	if c.LogFormat == "json" {
		format = observability.LogFormatJSON
	}
	return observability.LogConfig{
		Level:       c.SlogLevel(),
		Format:      format,
		Output:      os.Stdout,
		AddSource:   c.IsProduction(),
		ServiceName: service,
	}
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
