// Package config loads service configuration from defaults, an optional
// TOML file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Store backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Defaults.
const (
	DefaultPort            = "8080"
	DefaultHashKey         = "todoList"
	DefaultRedisHost       = "localhost"
	DefaultRedisPort       = 6379
	DefaultSQLitePath      = "./data/todolist.db"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string   `toml:"port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	Backend string       `toml:"backend"`
	HashKey string       `toml:"hash_key"`
	Redis   RedisConfig  `toml:"redis"`
	SQLite  SQLiteConfig `toml:"sqlite"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// SQLiteConfig holds the SQLite database location.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text", "json" or "logfmt"
}

// Duration is a time.Duration that decodes from TOML strings like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     Duration{DefaultReadTimeout},
			WriteTimeout:    Duration{DefaultWriteTimeout},
			ShutdownTimeout: Duration{DefaultShutdownTimeout},
		},
		Store: StoreConfig{
			Backend: BackendRedis,
			HashKey: DefaultHashKey,
			Redis: RedisConfig{
				Host: DefaultRedisHost,
				Port: DefaultRedisPort,
			},
			SQLite: SQLiteConfig{
				Path: DefaultSQLitePath,
			},
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load builds the configuration:
// 1. Defaults
// 2. TOML file at path, if path is not empty
// 3. Environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendRedis, BackendSQLite, c.Store.Backend)
	}

	if strings.TrimSpace(c.Store.HashKey) == "" {
		return errors.New("store.hash_key is required")
	}
	if c.Store.Backend == BackendRedis && (c.Store.Redis.Port <= 0 || c.Store.Redis.Port > 65535) {
		return fmt.Errorf("store.redis.port out of range: %d", c.Store.Redis.Port)
	}
	if c.Store.Backend == BackendSQLite && c.Store.SQLite.Path == "" {
		return errors.New("store.sqlite.path is required")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}

	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

type lookupFunc func(key string) (string, bool)

// loadFromEnv overrides cfg from environment variables.
func loadFromEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	}

	str("PORT", &cfg.Server.Port)
	str("STORE_BACKEND", &cfg.Store.Backend)
	str("HASH_KEY", &cfg.Store.HashKey)
	str("REDIS_HOST", &cfg.Store.Redis.Host)
	str("REDIS_PASSWORD", &cfg.Store.Redis.Password)
	str("DB_PATH", &cfg.Store.SQLite.Path)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	if err := num("REDIS_PORT", &cfg.Store.Redis.Port); err != nil {
		return err
	}
	if err := num("REDIS_DB", &cfg.Store.Redis.DB); err != nil {
		return err
	}
	if err := dur("READ_TIMEOUT", &cfg.Server.ReadTimeout); err != nil {
		return err
	}
	if err := dur("WRITE_TIMEOUT", &cfg.Server.WriteTimeout); err != nil {
		return err
	}
	if err := dur("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout); err != nil {
		return err
	}

	return nil
}
