package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "  ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("COLLECTIONS", "food, clothes,,")
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"food", "clothes"}, cfg.Collections)
	assert.Equal(t, 300, cfg.RateLimitRPM)
}

func TestValidateStorageDriver(t *testing.T) {
	base := func() *Config {
		return &Config{
			ServerPort:     "3001",
			JWTSecret:      "s3cret",
			TokenTTL:       time.Hour,
			RequestTimeout: time.Second,
			StorageDriver:  DriverMemory,
			LogFormat:      "pretty",
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.StorageDriver = DriverPostgres
	require.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg.DatabaseURL = "postgres://localhost/app"
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.StorageDriver = "mongo"
	require.ErrorContains(t, cfg.Validate(), "unsupported")

	cfg = base()
	cfg.TokenTTL = 0
	require.ErrorContains(t, cfg.Validate(), "TOKEN_TTL")
}
