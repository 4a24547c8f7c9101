// internal/config/config.go
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Defaults are resolved
// once here at the process boundary; core logic never reads the environment.
type Config struct {
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DBURL       string `mapstructure:"DB_URL"`
	RemoteDBURL string `mapstructure:"REMOTE_DB_URL"`
	GithubToken string `mapstructure:"GITHUB_TOKEN"`
	SeedFile    string `mapstructure:"SEED_FILE"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values. Empty defaults keep env-only keys visible to Unmarshal.
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SEED_FILE", "docs/seed-projects.json")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("DB_URL", "")
	viper.SetDefault("REMOTE_DB_URL", "")
	viper.SetDefault("GITHUB_TOKEN", "")

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}

	return &cfg, nil
}

// DatabaseURL selects the store target: the local catalog by default, the
// remote one when requested (seed --remote).
func (c *Config) DatabaseURL(remote bool) (string, error) {
	if !remote {
		return c.DBURL, nil
	}
	if c.RemoteDBURL == "" {
		return "", errors.New("REMOTE_DB_URL must be set to import into the remote catalog")
	}
	return c.RemoteDBURL, nil
}
