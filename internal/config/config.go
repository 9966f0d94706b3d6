package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	ExportPath string `env:"EXPORT_PATH" envDefault:"data/projects.json"`

	GraphQL   GraphQLConfig
	Cache     CacheConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// GraphQLConfig locates the CMS. An empty endpoint means fallback data only.
type GraphQLConfig struct {
	Endpoint string        `env:"GRAPHQL_ENDPOINT"`
	Token    string        `env:"GRAPHQL_TOKEN"`
	Timeout  time.Duration `env:"GRAPHQL_TIMEOUT" envDefault:"5s"`
	// Policy is "soft" (serve fallback data on failure) or "explicit"
	// (report the failure to the caller).
	Policy string `env:"FETCH_POLICY" envDefault:"soft"`
}

// Enabled reports whether a CMS endpoint is configured
func (c GraphQLConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LogValue keeps the token out of logs
func (c GraphQLConfig) LogValue() slog.Value {
	token := ""
	if c.Token != "" {
		token = "[redacted]"
	}
	return slog.GroupValue(
		slog.String("endpoint", c.Endpoint),
		slog.String("token", token),
		slog.Duration("timeout", c.Timeout),
		slog.String("policy", c.Policy),
	)
}

// CacheConfig enables the Redis payload cache when URL is set
type CacheConfig struct {
	RedisURL string        `env:"REDIS_URL"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"60s"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// TelemetryConfig controls trace export
type TelemetryConfig struct {
	Endpoint string `env:"OTEL_ENDPOINT"`
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// Load reads an optional .env file, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(env.ToMap(os.Environ()))
}

// Parse builds a Config from the given variables and validates it
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return errors.New("SERVER_ADDR is required")
	}

	if c.GraphQL.Endpoint != "" {
		u, err := url.Parse(c.GraphQL.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("GRAPHQL_ENDPOINT must be an absolute http(s) URL")
		}
	}
	if c.GraphQL.Timeout <= 0 {
		return errors.New("GRAPHQL_TIMEOUT must be positive")
	}
	switch c.GraphQL.Policy {
	case "soft", "explicit":
	default:
		return fmt.Errorf("FETCH_POLICY must be soft or explicit, got %q", c.GraphQL.Policy)
	}

	if c.Cache.TTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// NewLogger builds the process logger writing to w
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
