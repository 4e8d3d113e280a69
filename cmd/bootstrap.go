package cmd

import (
	"fmt"

	"dbkit/core/config"
	"dbkit/core/database"
	"dbkit/core/logger"
	"dbkit/core/storage"
	"dbkit/feature/difftables"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadRuntime loads configuration and builds the logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, l, nil
}

// connectDatabase opens the configured database (required by every table command).
func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	return db, nil
}

// openStorage returns the export client, or nil when exports are disabled.
func openStorage(cfg *config.Config) (storage.Client, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// newDiffService wires the reconciliation service from configuration.
func newDiffService(cfg *config.Config, l *zap.Logger, db *gorm.DB, client storage.Client) *difftables.Service {
	return difftables.NewService(db, cfg.Database.BatchSize, client, cfg.Storage.Bucket, cfg.Reconcile, l)
}
