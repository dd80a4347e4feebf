package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	DefaultGeminiModel          = "gemini-2.5-flash"
	DefaultGeminiEndpoint       = "https://generativelanguage.googleapis.com/"
	DefaultGenerationTimeout    = 60 * time.Second
	DefaultCatalogCacheTTL      = 10 * time.Minute
	DefaultCatalogCacheSize     = 32 * 1024 * 1024
	DefaultSessionTTL           = 24 * 7 * time.Hour
	DefaultGenerateRatePerMin   = 5
	DefaultLoginRateLimitPerMin = 10
	DefaultPageSize             = 10
)

var ErrRequiredSecretsMissing = errors.New("required secrets missing")

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	AllowedOrigins []string      `toml:"allowed_origins"`
	SessionTTL     time.Duration `toml:"session_ttl"`

	LoginRateLimitAllowedPerMin    int `toml:"login_rate_limit_allowed_per_min"`
	GenerateRateLimitAllowedPerMin int `toml:"generate_rate_limit_allowed_per_min"`

	// plan generation
	GeminiEndpoint    string        `toml:"gemini_endpoint"`
	GeminiModel       string        `toml:"gemini_model"`
	GenerationTimeout time.Duration `toml:"generation_timeout"`
	CatalogCacheTTL   time.Duration `toml:"catalog_cache_ttl"`
	CatalogCacheSize  int           `toml:"catalog_cache_size"`
	DefaultPageSize   int           `toml:"default_page_size"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
	if c.GeminiEndpoint == "" {
		c.GeminiEndpoint = DefaultGeminiEndpoint
	}
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = DefaultGenerationTimeout
	}
	if c.CatalogCacheTTL <= 0 {
		c.CatalogCacheTTL = DefaultCatalogCacheTTL
	}
	if c.CatalogCacheSize <= 0 {
		c.CatalogCacheSize = DefaultCatalogCacheSize
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.GenerateRateLimitAllowedPerMin <= 0 {
		c.GenerateRateLimitAllowedPerMin = DefaultGenerateRatePerMin
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = DefaultLoginRateLimitPerMin
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = DefaultPageSize
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}
	return t.Get(env)
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return t.Get(env)
}

// Secrets are never kept in the toml file.
type Secrets struct {
	DBPassword       string `env:"FITPLANNER_DB_PASSWORD"`
	RedisPassword    string `env:"FITPLANNER_REDIS_PASS"`
	JWTSecret        string `env:"FITPLANNER_JWT_SECRET"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}

// Validate fails when a secret the service can't start without is missing.
func (s *Secrets) Validate() error {
	var missing []string
	if s.JWTSecret == "" {
		missing = append(missing, "FITPLANNER_JWT_SECRET")
	}
	if s.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiredSecretsMissing, strings.Join(missing, ", "))
	}
	return nil
}

// Missing lists the secrets the service can't work properly without.
func (s *Secrets) Missing() []string {
	var missing []string
	if s.JWTSecret == "" {
		missing = append(missing, "FITPLANNER_JWT_SECRET")
	}
	if s.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if s.HoneycombEnabled && s.HoneycombAPIKey == "" {
		missing = append(missing, "HONEYCOMB_API_KEY")
	}
	return missing
}
