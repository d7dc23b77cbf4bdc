package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "scug", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, time.Hour, cfg.Sweeper.GracePeriod)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "/tmp/scug-test.db")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("SWEEPER_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Sweeper.Interval)
	assert.Equal(t, "file:/tmp/scug-test.db?_foreign_keys=on&_busy_timeout=5000", cfg.Database.GetDSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "bad port", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "default secret in production", env: map[string]string{"APP_ENVIRONMENT": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_PostgresDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     5432,
		User:     "scug",
		Password: "secret",
		Name:     "scug",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=scug password=secret dbname=scug sslmode=disable", cfg.GetDSN())
}
