// Package backend selects and opens the configured data store.
package backend

import (
	"fmt"

	"github.com/MarcoIannucci/spotify-tracking/internal/config"
	applog "github.com/MarcoIannucci/spotify-tracking/internal/log"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage/memory"
)

// Open builds the storage.Store named by DATA_BACKEND. The memory backend
// exists for demos and tests; everything else goes through SQLite.
func Open(cfg *config.Config, logger *applog.Logger) (storage.Store, error) {
	switch cfg.DataBackend {
	case "memory":
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	case "sqlite", "":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository at %s: %w", cfg.SQLiteDBPath, err)
		}
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
