package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("STORAGE_BACKEND", "")
		t.Setenv("TOKEN_TTL", "")
		t.Setenv("METRICS_ENABLED", "")

		cfg := Load()
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, BackendSQLite, cfg.StorageBackend)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
		assert.True(t, cfg.MetricsEnabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("STORAGE_BACKEND", BackendMemory)
		t.Setenv("TOKEN_TTL", "2h")
		t.Setenv("METRICS_ENABLED", "false")
		t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

		cfg := Load()
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, BackendMemory, cfg.StorageBackend)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
		assert.False(t, cfg.MetricsEnabled)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout, "unparsable values fall back")
	})
}

func validConfig(t *testing.T) *Config {
	return &Config{
		Port:            "8080",
		ShutdownTimeout: time.Second,
		StorageBackend:  BackendSQLite,
		DBPath:          filepath.Join(t.TempDir(), "data", "wildpay.db"),
		JWTSecret:       "secret",
		TokenTTL:        time.Hour,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "must be between 1 and 65535"},
		{"unknown backend", func(c *Config) { c.StorageBackend = "postgres" }, "invalid storage backend"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "database path cannot be empty"},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, "JWT secret cannot be empty"},
		{"short ttl", func(c *Config) { c.TokenTTL = time.Second }, "invalid token TTL"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost"; c.AMQPExchange = "x" }, "must be 'amqp' or 'amqps'"},
		{"amqp exchange", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPExchange = "" }, "AMQP exchange name cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Port = "x"
		cfg.JWTSecret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid port")
		assert.Contains(t, err.Error(), "JWT secret")
	})
}
