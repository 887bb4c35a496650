package main

import (
	"modelwatch/internal/canonical"
	"modelwatch/internal/config"
	"modelwatch/internal/logging"
	"modelwatch/internal/store"
)

// loadConfig resolves the effective configuration: file (or defaults),
// then flag overrides, then validation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	if storeDirFlag != "" {
		cfg.StoreDir = storeDirFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}

func openStore(cfg *config.Config, logger *logging.Logger) (*store.Store, error) {
	return store.Open(cfg.StoreDir, logger)
}

// newCanonicalizer builds a canonicalizer, loading the quantization
// alias table from the configured YAML file when one is set.
func newCanonicalizer(cfg *config.Config) (*canonical.Canonicalizer, error) {
	var aliases map[string]string
	if cfg.AliasTablePath != "" {
		loaded, err := config.LoadAliases(cfg.AliasTablePath)
		if err != nil {
			return nil, err
		}
		aliases = canonical.MergeAliases(loaded)
	}
	return canonical.NewCanonicalizer(nil, aliases), nil
}
