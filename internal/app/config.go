package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the examportal navigation server.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Navigation  NavigationConfig  `mapstructure:"navigation"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	LogEncoding     string        `mapstructure:"log_encoding"`
	GinMode         string        `mapstructure:"gin_mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// AllowedOrigins lists browser origins allowed to call the API and open
	// websockets. Empty allows any origin for plain API reads.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CacheConfig configures the built tree cache.
type CacheConfig struct {
	// Backend is "memory", "database" or "none".
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// AuthConfig captures token settings for the admin routes.
type AuthConfig struct {
	JWT JWTSettings `mapstructure:"jwt"`
}

// JWTSettings configures JWT access tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// NavigationConfig controls menu seeding, tree building and icon resolution.
type NavigationConfig struct {
	SeedFile     string            `mapstructure:"seed_file"`
	SeedDefault  bool              `mapstructure:"seed_default"`
	OrphanPolicy string            `mapstructure:"orphan_policy"`
	Icons        map[string]string `mapstructure:"icons"`
	DefaultGlyph string            `mapstructure:"default_glyph"`
}

// MaintenanceConfig schedules background jobs. A "-" schedule disables a job;
// an empty one keeps the built-in schedule.
type MaintenanceConfig struct {
	CachePurgeSchedule string        `mapstructure:"cache_purge_schedule"`
	TreeWarmSchedule   string        `mapstructure:"tree_warm_schedule"`
	JobTimeout         time.Duration `mapstructure:"job_timeout"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig reads config.yaml from ./config and the given paths, then
// applies EXAMPORTAL_* environment overrides on top of the defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("EXAMPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_encoding", "json")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/examportal.sqlite")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.mysql.port", 3306)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("auth.jwt.issuer", "examportal")
	v.SetDefault("auth.jwt.access_token_ttl", "1h")

	v.SetDefault("navigation.seed_file", "")
	v.SetDefault("navigation.seed_default", true)
	v.SetDefault("navigation.orphan_policy", "drop")
	v.SetDefault("navigation.default_glyph", "")

	v.SetDefault("maintenance.cache_purge_schedule", "@every 15m")
	v.SetDefault("maintenance.tree_warm_schedule", "@every 1h")
	v.SetDefault("maintenance.job_timeout", "1m")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
