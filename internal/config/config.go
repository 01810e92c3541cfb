// Package config defines the application configuration and its viper
// wiring: defaults, environment binding and validation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DatabaseConfig holds the eligibility database connection details. An
// empty URL disables the database-backed catalog source.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	MaxConns       int           `mapstructure:"max_conns" yaml:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

// CatalogConfig controls the occupation catalog sources and their cache.
type CatalogConfig struct {
	// SnapshotPath points at a YAML catalog snapshot used as the fallback
	// source (and as the only source when no database is configured).
	SnapshotPath string        `mapstructure:"snapshot_path" yaml:"snapshot_path"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	RateLimit       float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "visapath")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Database --
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.connect_timeout", "5s")

	// -- Catalog --
	v.SetDefault("catalog.snapshot_path", "")
	v.SetDefault("catalog.cache_ttl", "5m")

	// -- Server --
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.rate_limit", 25.0)
	v.SetDefault("server.rate_burst", 50)
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind environment variables for sensitive data.
	v.BindEnv("database.url", "VISAPATH_DATABASE_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logger.format must be \"console\" or \"json\", got %q", c.Logger.Format)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be a positive integer")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is a required configuration field")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be positive")
	}
	if c.Server.RateBurst <= 0 {
		return fmt.Errorf("server.rate_burst must be a positive integer")
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("catalog.cache_ttl must not be negative")
	}
	return nil
}
