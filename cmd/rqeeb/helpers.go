package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/hsznzas/Rqeeb-sub000/internal/common"
	"github.com/hsznzas/Rqeeb-sub000/internal/config"
	"github.com/hsznzas/Rqeeb-sub000/internal/ingest"
	"github.com/hsznzas/Rqeeb-sub000/internal/match"
	"github.com/hsznzas/Rqeeb-sub000/internal/service"
	"github.com/hsznzas/Rqeeb-sub000/internal/staging"
	"github.com/hsznzas/Rqeeb-sub000/internal/storage"
)

// initStorage opens the configured database and brings it to the current
// schema version.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	dbPath, err := config.ExpandPath(dbPath)
	if err != nil {
		return nil, common.NewUserError("invalid database path", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// matcherConfig reads the matching tolerances from config, falling back to
// the tuned defaults for anything unset.
func matcherConfig() (match.Config, error) {
	cfg := match.DefaultConfig()

	if viper.IsSet("matching.date_tolerance_days") {
		cfg.DateToleranceDays = viper.GetInt("matching.date_tolerance_days")
	}
	if viper.IsSet("matching.min_score") {
		cfg.MinMatchScore = viper.GetInt("matching.min_score")
	}
	if raw := viper.GetString("matching.amount_tolerance"); raw != "" {
		tol, err := decimal.NewFromString(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid matching.amount_tolerance %q: %w", raw, err)
		}
		cfg.AmountTolerance = tol
	}

	if cfg.DateToleranceDays < 0 || cfg.AmountTolerance.IsNegative() {
		return cfg, common.NewUserError("matching tolerances must not be negative", common.ErrInvalidConfig)
	}

	return cfg, nil
}

// rowOptions reads the per-row parsing settings from config.
func rowOptions() ingest.RowOptions {
	return ingest.RowOptions{
		HomeCurrency: viper.GetString("import.home_currency"),
	}
}

// newImporter assembles the import pipeline over an open store.
func newImporter(store service.Storage) (*ingest.Importer, error) {
	cfg, err := matcherConfig()
	if err != nil {
		return nil, err
	}

	manager := staging.NewManager(store, store, store)
	return ingest.NewImporter(store, manager, match.New(cfg)), nil
}

// newManager assembles the staging lifecycle manager over an open store.
func newManager(store service.Storage) *staging.Manager {
	return staging.NewManager(store, store, store)
}
