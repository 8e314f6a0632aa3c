package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/niksmo/local-market/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("Example", func(t *testing.T) {
		cfg, err := config.LoadFile("config.example.yaml")
		require.NoError(t, err)

		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.HTTPServerAddr)
		assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
		assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
		assert.False(t, cfg.Broker.Enabled)
		assert.Len(t, cfg.Broker.SeedBrokers, 3)
		assert.Equal(t, "storefront-orders", cfg.Broker.Topics.Orders)
	})

	t.Run("DefaultsFillGaps", func(t *testing.T) {
		path := writeConfig(t, "log_level: debug\nauth:\n  token_secret: s\n")
		cfg, err := config.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.HTTPServerAddr)
		assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
		assert.Equal(t, "storefront-order-history", cfg.Broker.Consumers.OrderHistoryGroup)
	})

	t.Run("EnvOverride", func(t *testing.T) {
		t.Setenv("STOREFRONT_AUTH_TOKEN_SECRET", "from-env")
		t.Setenv("STOREFRONT_HTTP_SERVER_ADDR", ":9090")
		cfg, err := config.LoadFile("")
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.Auth.TokenSecret)
		assert.Equal(t, ":9090", cfg.HTTPServerAddr)
	})

	t.Run("Accounts", func(t *testing.T) {
		path := writeConfig(t, `
auth:
  token_secret: s
  accounts:
    - email: boss@fitfeet.com
      password_hash: "$2a$10$abc"
      role: admin
      name: Boss
`)
		cfg, err := config.LoadFile(path)
		require.NoError(t, err)
		require.Len(t, cfg.Auth.Accounts, 1)
		assert.Equal(t, "boss@fitfeet.com", cfg.Auth.Accounts[0].Email)
		assert.Equal(t, "admin", cfg.Auth.Accounts[0].Role)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		path := writeConfig(t, "auth:\n  token_secret: s\nsql_dbb: x\n")
		_, err := config.LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		path := writeConfig(t, `
storage:
  driver: postgres
broker:
  enabled: true
`)
		_, err := config.LoadFile(path)
		require.Error(t, err)
		assert.ErrorContains(t, err, "auth.token_secret")
		assert.ErrorContains(t, err, "storage.sql_db")
		assert.ErrorContains(t, err, "broker.seed_brokers")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
