package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	// Path of the embedded sqlite file. Records persist locally first,
	// independent of remote reachability.
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// CatalogConfig drives the question catalog fallback chain:
// remote provider, then redis cache, then the bundled file.
type CatalogConfig struct {
	ProviderURL    string        `mapstructure:"provider_url"`
	BundledPath    string        `mapstructure:"bundled_path"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl_minutes"`
	RequestTimeout time.Duration `mapstructure:"request_timeout_seconds"`
}

// RemoteConfig points at the submission boundary the sync coordinator
// reconciles against.
type RemoteConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout_seconds"`
}

type SyncConfig struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	BaseDelay     time.Duration `mapstructure:"base_delay_ms"`
	DrainInterval time.Duration `mapstructure:"drain_interval_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("MINDWELL")
	viper.AutomaticEnv()

	viper.BindEnv("database.path", "DATABASE_PATH")

	viper.BindEnv("jwt.secret", "JWT_SECRET")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	viper.BindEnv("server.mode", "SERVER_MODE")

	viper.BindEnv("catalog.provider_url", "CATALOG_PROVIDER_URL")
	viper.BindEnv("remote.base_url", "REMOTE_BASE_URL")

	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Catalog.CacheTTL = cfg.Catalog.CacheTTL * time.Minute
	cfg.Catalog.RequestTimeout = cfg.Catalog.RequestTimeout * time.Second
	cfg.Remote.RequestTimeout = cfg.Remote.RequestTimeout * time.Second
	cfg.Sync.BaseDelay = cfg.Sync.BaseDelay * time.Millisecond
	cfg.Sync.DrainInterval = cfg.Sync.DrainInterval * time.Minute

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Remote.RequestTimeout <= 0 {
		// Network calls must be bounded so a drain cannot stall on one record.
		cfg.Remote.RequestTimeout = 10 * time.Second
	}
	if cfg.Catalog.RequestTimeout <= 0 {
		cfg.Catalog.RequestTimeout = 10 * time.Second
	}
	if cfg.Sync.MaxAttempts <= 0 {
		cfg.Sync.MaxAttempts = 3
	}
	if cfg.Sync.BaseDelay <= 0 {
		cfg.Sync.BaseDelay = 500 * time.Millisecond
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			os.MkdirAll(dir, 0755)
		}
	}

	return &cfg, nil
}
