package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Empty(t *testing.T) {
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Storage.DB.DSN)
	assert.Equal(t, "", cfg.App.TokenSignKey)
}

func TestParseEnv_AllFields(t *testing.T) {
	t.Setenv("APP_PASSWORD_HASH_KEY", "pw-key")
	t.Setenv("APP_TOKEN_SIGN_KEY", "sign-key")
	t.Setenv("APP_TOKEN_ISSUER", "selfos-test")
	t.Setenv("APP_TOKEN_DURATION", "2h")
	t.Setenv("STORAGE_DB_DRIVER", "sqlite3")
	t.Setenv("STORAGE_DB_DATABASE_URI", "/tmp/selfos.db")
	t.Setenv("SERVER_ADDRESS", "localhost:9999")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "45s")
	t.Setenv("SYNC_DELTA_LIMIT", "250")
	t.Setenv("SYNC_STATUS_WINDOW", "12h")
	t.Setenv("WORKERS_PURGE_INTERVAL", "1h")
	t.Setenv("WORKERS_PURGE_RETENTION", "720h")
	t.Setenv("CONFIG", "/etc/selfos/config.json")

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)
	require.NoError(t, err)

	assert.Equal(t, "pw-key", cfg.App.PasswordHashKey)
	assert.Equal(t, "sign-key", cfg.App.TokenSignKey)
	assert.Equal(t, "selfos-test", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
	assert.Equal(t, "/tmp/selfos.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "localhost:9999", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 250, cfg.Sync.DeltaLimit)
	assert.Equal(t, 12*time.Hour, cfg.Sync.StatusWindow)
	assert.Equal(t, time.Hour, cfg.Workers.PurgeInterval)
	assert.Equal(t, 720*time.Hour, cfg.Workers.PurgeRetention)
	assert.Equal(t, "/etc/selfos/config.json", cfg.JSONFilePath)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("APP_TOKEN_DURATION", "not-a-duration")

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)
	require.Error(t, err)
}
