// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("requires DB_URL", func(t *testing.T) {
		viper.Reset()

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_URL")
	})

	t.Run("applies defaults", func(t *testing.T) {
		viper.Reset()
		t.Setenv("DB_URL", "postgres://localhost:5432/catalog")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "docs/seed-projects.json", cfg.SeedFile)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
	})
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{DBURL: "postgres://local/db"}

	url, err := cfg.DatabaseURL(false)
	require.NoError(t, err)
	assert.Equal(t, "postgres://local/db", url)

	_, err = cfg.DatabaseURL(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOTE_DB_URL")

	cfg.RemoteDBURL = "postgres://remote/db"
	url, err = cfg.DatabaseURL(true)
	require.NoError(t, err)
	assert.Equal(t, "postgres://remote/db", url)
}
