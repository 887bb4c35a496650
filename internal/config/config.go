// Package config loads and validates modelwatch configuration.
package config

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"modelwatch/internal/errors"
	"modelwatch/internal/logging"
	"modelwatch/internal/watch"
)

// Config represents the complete modelwatch configuration
type Config struct {
	CatalogURL     string        `json:"catalogUrl" mapstructure:"catalogUrl"`
	FetchTimeout   time.Duration `json:"fetchTimeout" mapstructure:"fetchTimeout"`
	StoreDir       string        `json:"storeDir" mapstructure:"storeDir"`
	WatchInterval  string        `json:"watchInterval" mapstructure:"watchInterval"`
	AliasTablePath string        `json:"aliasTablePath" mapstructure:"aliasTablePath"`
	Logging        LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CatalogURL:    "https://api.deepinfra.com/models/list",
		FetchTimeout:  30 * time.Second,
		StoreDir:      ".modelwatch",
		WatchInterval: "every 6h",
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <dir>/.modelwatch/config.json,
// falling back to defaults when no config file exists. Values absent
// from the file keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("catalogUrl", defaults.CatalogURL)
	v.SetDefault("fetchTimeout", defaults.FetchTimeout)
	v.SetDefault("storeDir", defaults.StoreDir)
	v.SetDefault("watchInterval", defaults.WatchInterval)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(dir, ".modelwatch"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, errors.New(errors.ConfigInvalid, "failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to parse config file", err)
	}

	return &cfg, nil
}

// Save writes the configuration to <dir>/.modelwatch/config.json
func (c *Config) Save(dir string) error {
	configDir := filepath.Join(dir, ".modelwatch")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CatalogURL == "" {
		return errors.New(errors.ConfigInvalid, "catalogUrl must not be empty", nil)
	}
	parsed, err := url.Parse(c.CatalogURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.Newf(errors.ConfigInvalid, nil, "catalogUrl is not a valid URL: %s", c.CatalogURL)
	}
	if c.FetchTimeout <= 0 {
		return errors.New(errors.ConfigInvalid, "fetchTimeout must be positive", nil)
	}
	if c.StoreDir == "" {
		return errors.New(errors.ConfigInvalid, "storeDir must not be empty", nil)
	}
	if _, err := watch.ParseInterval(c.WatchInterval); err != nil {
		return errors.Newf(errors.ConfigInvalid, err, "watchInterval %q is not a valid interval", c.WatchInterval)
	}
	switch logging.Format(c.Logging.Format) {
	case logging.JSONFormat, logging.HumanFormat:
	default:
		return errors.Newf(errors.ConfigInvalid, nil, "unknown logging format: %s", c.Logging.Format)
	}
	return nil
}
