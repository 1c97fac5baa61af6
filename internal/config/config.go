package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	Store          string `toml:"store"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis, used for sessions and rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	WriteRateLimitPerMin int `toml:"write_rate_limit_per_min"`
	SessionTTLHours      int `toml:"session_ttl_hours"`
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
		env = "development"
	case "prod", "production":
		cfg = t.Production
		env = "production"
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = env
	return cfg, nil
}

// Load reads the TOML file at path, picks the section for env and validates it.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Store == "" {
		cfg.Store = StorePostgres
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	if c.Port <= 0 || c.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port))
	}
	switch c.Store {
	case StorePostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			err = multierr.Append(err, fmt.Errorf("%w: postgres store needs host, port and db name", ErrInvalidConfig))
		}
	case StoreMemory:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store))
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		err = multierr.Append(err, fmt.Errorf("%w: redis host and port are required", ErrInvalidConfig))
	}
	if c.PrometheusMetricsPort == "" {
		err = multierr.Append(err, fmt.Errorf("%w: prometheus metrics port is required", ErrInvalidConfig))
	}
	if c.WriteRateLimitPerMin < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: negative write rate limit", ErrInvalidConfig))
	}
	if c.SessionTTLHours < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: negative session ttl", ErrInvalidConfig))
	}
	return err
}
