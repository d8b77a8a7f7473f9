package cmd

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/assets"
	"github.com/abhisek/storyreel/internal/catalog"
	"github.com/abhisek/storyreel/internal/config"
	"github.com/abhisek/storyreel/internal/logging"
	"github.com/abhisek/storyreel/internal/store"
)

// environment is what every command opens before doing its work.
type environment struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	resolver assets.Resolver
	lock     *flock.Flock
}

// resolveConfig loads the config file and applies --db and --log-file, which
// take precedence over both the file and the environment.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		cfg.LogFile = p
	}
	return cfg, nil
}

// openEnvironment loads config, starts logging and opens the store. With
// exclusive set it also takes the database lock so that two players never
// write the same progress at once.
func openEnvironment(cmd *cobra.Command, exclusive bool) (*environment, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	env := &environment{
		cfg:      cfg,
		logger:   logger,
		resolver: assets.NewResolver(cfg.AssetBaseURL),
	}

	if exclusive {
		env.lock = flock.New(cfg.DBPath + ".lock")
		ok, err := env.lock.TryLock()
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			env.lock = nil
			env.Close()
			return nil, fmt.Errorf("another storyreel is already using %s", cfg.DBPath)
		}
	}

	env.catalog, err = cfg.LoadCatalog()
	if err != nil {
		env.Close()
		return nil, err
	}
	if !env.catalog.Supports(version) {
		env.Close()
		return nil, fmt.Errorf("catalog needs storyreel %s or newer (running %s)", env.catalog.MinPlayer(), version)
	}

	env.store, err = store.Open(cfg.DBPath)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("environment ready",
		zap.String("db", cfg.DBPath),
		zap.Int("scenes", env.catalog.Len()))
	return env, nil
}

// Close releases everything openEnvironment acquired.
func (e *environment) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close store", zap.Error(err))
		}
	}
	if e.lock != nil {
		if err := e.lock.Unlock(); err != nil {
			e.logger.Warn("failed to release lock", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}
