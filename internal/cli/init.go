// Package cli provides process initialization and the interactive command
// loop of the ledger.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"

	"conta/internal/config"
	"conta/internal/log"
)

// SetupLogger builds the process logger from a LOG_LEVEL value and sets it
// as the slog default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads a .env file from the working directory if present.
// A missing file is not an error.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it. The config is returned even when invalid so the caller can
// still build a logger from it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
