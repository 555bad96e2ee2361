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

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "./data", cfg.Content.DataDir)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_DIR", "/srv/cpa/data")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://cpa.example.com, https://staging.example.com")
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "/srv/cpa/data", cfg.Content.DataDir)
	assert.Equal(t, "/srv/cpa/data", cfg.Storage.DataDir, "storage dir follows DATA_DIR unless overridden")
	assert.Equal(t, []string{"https://cpa.example.com", "https://staging.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.App.ShutdownTimeout)
}

func TestLoad_TimezoneDefaultsToUTC(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, time.UTC, cfg.App.Location)
}

func TestLoad_TimezoneResolved(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Shanghai")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Shanghai", cfg.App.Location.String())
}

func TestLoad_UnknownTimezoneRejected(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_TIMEZONE")
}

func TestLoad_UnknownDriverRejected(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORAGE_DRIVER")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_InvalidPortRejected(t *testing.T) {
	t.Setenv("PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}
