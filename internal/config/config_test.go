package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todolist.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "todoList", cfg.Store.HashKey)
	assert.Equal(t, "localhost", cfg.Store.Redis.Host)
	assert.Equal(t, 6379, cfg.Store.Redis.Port)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout.Duration)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_OverridesRedisSettings(t *testing.T) {
	cfg := Default()

	err := loadFromEnv(cfg, envMap(map[string]string{
		"REDIS_HOST":     "redis.internal",
		"REDIS_PORT":     "6380",
		"REDIS_PASSWORD": "secret",
		"REDIS_DB":       "2",
		"PORT":           "9000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "redis.internal", cfg.Store.Redis.Host)
	assert.Equal(t, 6380, cfg.Store.Redis.Port)
	assert.Equal(t, "secret", cfg.Store.Redis.Password)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadFromEnv_EmptyValuesKeepDefaults(t *testing.T) {
	cfg := Default()

	err := loadFromEnv(cfg, envMap(map[string]string{
		"REDIS_HOST": "",
		"REDIS_PORT": "",
	}))
	require.NoError(t, err)

	assert.Equal(t, DefaultRedisHost, cfg.Store.Redis.Host)
	assert.Equal(t, DefaultRedisPort, cfg.Store.Redis.Port)
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	cfg := Default()

	err := loadFromEnv(cfg, envMap(map[string]string{"REDIS_PORT": "not-a-port"}))

	assert.Error(t, err)
}

func TestLoadFromEnv_ShutdownTimeout(t *testing.T) {
	cfg := Default()

	err := loadFromEnv(cfg, envMap(map[string]string{"SHUTDOWN_TIMEOUT": "3s"}))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout.Duration)
}

func TestLoadFromEnv_ServerTimeouts(t *testing.T) {
	cfg := Default()

	err := loadFromEnv(cfg, envMap(map[string]string{
		"READ_TIMEOUT":  "4s",
		"WRITE_TIMEOUT": "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, 4*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout.Duration)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout.Duration)
}

func TestLoadFromEnv_InvalidTimeoutNamesVariable(t *testing.T) {
	cfg := Default()

	err := loadFromEnv(cfg, envMap(map[string]string{"WRITE_TIMEOUT": "later"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "WRITE_TIMEOUT")
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = "7000"
shutdown_timeout = "2s"

[store]
backend = "sqlite"
hash_key = "fromFile"

[store.sqlite]
path = "/tmp/file.db"

[log]
level = "debug"
format = "json"
`)
	for _, key := range []string{"PORT", "STORE_BACKEND", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("HASH_KEY", "fromEnv")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout.Duration)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "fromEnv", cfg.Store.HashKey)
	assert.Equal(t, "/tmp/file.db", cfg.Store.SQLite.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout.Duration)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))

	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfigFile(t, `
[server]
shutdown_timeout = "soon"
`)

	_, err := Load(path)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "memcached" },
			wantErr: true,
		},
		{
			name:    "empty hash key",
			mutate:  func(c *Config) { c.Store.HashKey = " " },
			wantErr: true,
		},
		{
			name:    "redis port out of range",
			mutate:  func(c *Config) { c.Store.Redis.Port = 70000 },
			wantErr: true,
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Store.Backend = BackendSQLite
				c.Store.SQLite.Path = ""
			},
			wantErr: true,
		},
		{
			name: "sqlite ignores redis port",
			mutate: func(c *Config) {
				c.Store.Backend = BackendSQLite
				c.Store.Redis.Port = 0
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, ":8080", ServerConfig{Port: "8080"}.Addr())
}
