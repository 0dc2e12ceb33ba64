package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/covrank/internal/adapters/driven/config/file"
	"github.com/custodia-labs/covrank/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/covrank/internal/adapters/driving/cli"
	"github.com/custodia-labs/covrank/internal/core/services"
	"github.com/custodia-labs/covrank/internal/logger"
)

// DataDirEnv overrides storage.data_dir from the config file.
const DataDirEnv = "COVRANK_DATA_DIR"

// bootstrap opens the config file and database and wires every service.
func bootstrap(flagDir string) (*cli.Services, func() error, error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}

	dataDir, err := resolveDataDir(flagDir, os.Getenv(DataDirEnv), settings.DataDir)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("Database: %s", store.Path())
	logger.Debug("Config: %s", configStore.Path())

	return wire(store, settingsService), store.Close, nil
}

// wire builds the services over an open store. The score, product and
// dedup services share one set of product locks.
func wire(store *sqlite.Store, settingsService *services.SettingsService) *cli.Services {
	locks := services.NewProductLocks()
	scores := services.NewScoreService(store.ProductStore(), store.ScoreStore(), locks)

	return &cli.Services{
		Products:   services.NewProductService(store.ProductStore(), store.CompanyStore(), scores, locks),
		Scores:     scores,
		Ranking:    services.NewRankingService(store.ProductStore(), scores),
		Duplicates: services.NewDuplicateService(store.ProductStore(), locks),
		Compare:    services.NewCompareService(store.ProductStore(), scores),
		Companies:  services.NewCompanyService(store.CompanyStore()),
		Settings:   settingsService,
	}
}

// resolveDataDir picks the first non-empty of flag, env and config,
// falling back to <config dir>/data.
func resolveDataDir(flag, env, configured string) (string, error) {
	for _, dir := range []string{flag, env, configured} {
		if dir != "" {
			return dir, nil
		}
	}
	base, err := file.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "data"), nil
}
