package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendGorm, cfg.StoreBackend)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.ChangePollInterval)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.SeedSampleData)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":             "9000",
		"STORE_BACKEND":    "Memory",
		"DB_DRIVER":        "mysql",
		"DB_DSN":           "user:pass@tcp(localhost:3306)/amorty?parseTime=true",
		"JWT_SECRET":       "s3cret",
		"TOKEN_TTL":        "2h",
		"SEED_SAMPLE_DATA": "true",
		"RATE_LIMIT":       "2.5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.SeedSampleData)
	assert.Equal(t, 2.5, cfg.RateLimit)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	for _, vals := range []map[string]string{
		{"STORE_BACKEND": "redis"},
		{"DB_DRIVER": "postgres"},
		{"TOKEN_TTL": "forever"},
		{"GIN_MODE": "release"},
	} {
		_, err := FromEnv(env(vals))
		assert.Error(t, err, "%v", vals)
	}
}

func TestInitDBSQLite(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"DB_DSN": "file:config_test?mode=memory&cache=shared"}))
	require.NoError(t, err)

	db, err := InitDB(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
}
