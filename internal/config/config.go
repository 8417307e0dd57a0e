// Package config loads service and CLI configuration from defaults, an
// optional YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is used for the default config file name and env prefix.
	AppName = "candidate-match"
	// EnvPrefix prefixes every environment override, e.g. CANDIDATE_MATCH_SERVER_PORT.
	EnvPrefix = "CANDIDATE_MATCH"
)

// Config is the full runtime configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	MaxAnswers      int           `mapstructure:"max_answers"`
	TopK            int           `mapstructure:"top_k"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the catalog and shard store. A postgres:// or
// postgresql:// URL selects Postgres; anything else is a SQLite file path.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// IsPostgres reports whether URL points at a Postgres server.
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://")
}

// MatchingConfig tunes catalog validation.
type MatchingConfig struct {
	// EmbeddingDim is the expected vector length. Zero infers it from the
	// question catalog.
	EmbeddingDim int `mapstructure:"embedding_dim"`
}

// StatsConfig sizes the aggregate counters and their cache.
type StatsConfig struct {
	Shards          int           `mapstructure:"shards"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RecorderWorkers int           `mapstructure:"recorder_workers"`
	RecorderQueue   int           `mapstructure:"recorder_queue"`
	// DisclosureAt is an RFC 3339 timestamp after which per-candidate results
	// are public. Empty keeps them sealed.
	DisclosureAt string `mapstructure:"disclosure_at"`
}

// DisclosureTime parses DisclosureAt. ok is false when it is unset.
func (s StatsConfig) DisclosureTime() (t time.Time, ok bool, err error) {
	if strings.TrimSpace(s.DisclosureAt) == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(time.RFC3339, strings.TrimSpace(s.DisclosureAt))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid stats.disclosure_at %q: %w", s.DisclosureAt, err)
	}
	return t, true, nil
}

// AuthConfig holds the admin token settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

// EmbeddingConfig configures the offline embedding client.
type EmbeddingConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Concurrency int    `mapstructure:"concurrency"`
}

// LogConfig selects the log encoder and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for environment overrides to apply on Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_answers", 100)
	v.SetDefault("server.top_k", 10)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.url", "candidate-match.db")

	v.SetDefault("matching.embedding_dim", 768)

	v.SetDefault("stats.shards", 100)
	v.SetDefault("stats.cache_ttl", 30*time.Second)
	v.SetDefault("stats.fetch_timeout", 5*time.Second)
	v.SetDefault("stats.write_timeout", 5*time.Second)
	v.SetDefault("stats.recorder_workers", 4)
	v.SetDefault("stats.recorder_queue", 1024)
	v.SetDefault("stats.disclosure_at", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 24)

	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("embedding.concurrency", 4)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// New returns a viper instance with defaults and environment bindings.
// Besides CANDIDATE_MATCH_* overrides, the conventional DATABASE_URL,
// PORT, JWT_SECRET and GEMINI_API_KEY variables are honored.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	aliases := map[string][]string{
		"database.url":              {EnvPrefix + "_DATABASE_URL", "DATABASE_URL"},
		"server.port":               {EnvPrefix + "_SERVER_PORT", "PORT"},
		"auth.jwt_secret":           {EnvPrefix + "_AUTH_JWT_SECRET", "JWT_SECRET"},
		"auth.jwt_expiration_hours": {EnvPrefix + "_AUTH_JWT_EXPIRATION_HOURS", "JWT_EXPIRATION_HOURS"},
		"embedding.api_key":         {EnvPrefix + "_EMBEDDING_API_KEY", "GEMINI_API_KEY"},
	}
	for key, envs := range aliases {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	return v
}

// LoadDotEnv loads .env from the working directory if one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads path (or candidate-match.yaml in the working directory when path
// is empty and such a file exists) into v and returns the validated config.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks numeric ranges and formats.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}
	if c.Server.MaxAnswers < 1 {
		return fmt.Errorf("config error: 'server.max_answers' must be at least 1")
	}
	if c.Server.TopK < 0 {
		return fmt.Errorf("config error: 'server.top_k' must be non-negative")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("config error: 'database.url' is required")
	}
	if c.Matching.EmbeddingDim < 0 {
		return fmt.Errorf("config error: 'matching.embedding_dim' must be non-negative")
	}
	if c.Stats.Shards < 1 {
		return fmt.Errorf("config error: 'stats.shards' must be at least 1")
	}
	if c.Stats.CacheTTL <= 0 {
		return fmt.Errorf("config error: 'stats.cache_ttl' must be positive")
	}
	if c.Stats.RecorderWorkers < 1 {
		return fmt.Errorf("config error: 'stats.recorder_workers' must be at least 1")
	}
	if c.Stats.RecorderQueue < 1 {
		return fmt.Errorf("config error: 'stats.recorder_queue' must be at least 1")
	}
	if _, _, err := c.Stats.DisclosureTime(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Embedding.Concurrency < 1 {
		return fmt.Errorf("config error: 'embedding.concurrency' must be at least 1")
	}
	return nil
}
