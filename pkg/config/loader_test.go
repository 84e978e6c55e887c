package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PVWATTS_API_KEY", "PVWATTS_API_URL", "IRRADIANCE_TIMEOUT", "IRRADIANCE_MAX_ATTEMPTS",
		"IRRADIANCE_INITIAL_BACKOFF", "IRRADIANCE_CACHE_ENABLED", "STORE_DRIVER", "STORE_DSN",
		"SERVER_PORT", "CABLE_CATALOG_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultPVWattsURL, cfg.Irradiance.URL)
	assert.Equal(t, 10*time.Second, cfg.Irradiance.Timeout)
	assert.Equal(t, 3, cfg.Irradiance.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Irradiance.InitialBackoff)
	assert.True(t, cfg.Irradiance.CacheEnabled)
	assert.Equal(t, "sqlite3", cfg.Store.Driver)
	assert.False(t, cfg.StoreEnabled())
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PVWATTS_API_KEY", "secret")
	t.Setenv("IRRADIANCE_TIMEOUT", "2s")
	t.Setenv("IRRADIANCE_MAX_ATTEMPTS", "5")
	t.Setenv("IRRADIANCE_CACHE_ENABLED", "false")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("STORE_DSN", "postgres://localhost/solar?sslmode=disable")
	t.Setenv("SERVER_PORT", "8081")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Irradiance.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Irradiance.Timeout)
	assert.Equal(t, 5, cfg.Irradiance.MaxAttempts)
	assert.False(t, cfg.Irradiance.CacheEnabled)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.True(t, cfg.StoreEnabled())
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoadFromEnvInvalidValueFallsBack(t *testing.T) {
	t.Setenv("IRRADIANCE_MAX_ATTEMPTS", "many")
	t.Setenv("IRRADIANCE_TIMEOUT", "soon")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Irradiance.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Irradiance.Timeout)
}

func TestLoadFromEnvRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Irradiance: IrradianceConfig{URL: DefaultPVWattsURL, Timeout: time.Second, MaxAttempts: 3},
			Store:      StoreConfig{Driver: "sqlite3"},
			Server:     ServerConfig{Port: 3000},
		}
	}
	require.NoError(t, valid().Validate())

	c := valid()
	c.Irradiance.Timeout = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.Irradiance.MaxAttempts = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.Server.Port = 70000
	assert.Error(t, c.Validate())
}
