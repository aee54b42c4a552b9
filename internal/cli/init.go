// Package cli holds the startup steps shared by cmd/spotify-tracking and
// cmd/statement-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/MarcoIannucci/spotify-tracking/internal/config"
	applog "github.com/MarcoIannucci/spotify-tracking/internal/log"
)

// Bootstrap loads the environment, the configuration and the logger in the
// order every binary needs them. Validation failures are fatal: a process
// with a broken configuration must not reach its serve loop.
func Bootstrap(component string) (*config.Config, *applog.Logger) {
	// Load .env for local development, ignore errors in production.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(applog.ParseLevel(cfg.LogLevel), component)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}
