// Package app wires configuration, storage, clients, and services into
// one initialized core shared by the server binary and tests.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/foliohq/folio/internal/clients/yahoo"
	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/services/alerts"
	"github.com/foliohq/folio/internal/services/ledger"
	"github.com/foliohq/folio/internal/services/rebalance"
	"github.com/foliohq/folio/internal/services/valuation"
	"github.com/foliohq/folio/internal/services/watchlist"
	"github.com/foliohq/folio/internal/storage/docstore"
)

// App holds all initialized services and clients.
type App struct {
	Config     *common.Config
	Logger     *common.Logger
	Repository interfaces.Repository
	Prices     interfaces.PriceProvider

	Ledger    interfaces.LedgerService
	Valuation interfaces.ValuationService
	Rebalance interfaces.RebalanceService
	Alerts    interfaces.AlertService
	Watchlist interfaces.WatchlistService

	StartupTime time.Time
}

// NewApp loads configuration and initializes storage, the price client,
// and every service. configPath may be empty; FOLIO_CONFIG and the
// default location are tried in turn.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = "config/folio.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	repo, err := docstore.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	prices := yahoo.NewClient(
		yahoo.WithBaseURL(config.Prices.BaseURL),
		yahoo.WithRateLimit(config.Prices.RateLimit),
		yahoo.WithTimeout(config.Prices.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Repository:  repo,
		Prices:      prices,
		StartupTime: time.Now(),
	}
	a.wireServices()

	logger.Info().
		Str("environment", config.Environment).
		Str("storage", config.Storage.Path).
		Msg("Application initialized")

	return a, nil
}

// NewAppWithDeps builds an App around injected storage and prices, for
// tests and tooling.
func NewAppWithDeps(config *common.Config, logger *common.Logger, repo interfaces.Repository, prices interfaces.PriceProvider) *App {
	a := &App{
		Config:      config,
		Logger:      logger,
		Repository:  repo,
		Prices:      prices,
		StartupTime: time.Now(),
	}
	a.wireServices()
	return a
}

func (a *App) wireServices() {
	a.Ledger = ledger.NewService(a.Repository, a.Logger)
	a.Valuation = valuation.NewService(a.Repository, a.Prices, a.Logger,
		valuation.WithWorkers(a.Config.Valuation.Workers),
		valuation.WithFetchTimeout(a.Config.Valuation.GetFetchTimeout()),
	)
	a.Rebalance = rebalance.NewService(a.Repository, a.Prices, a.Logger)
	a.Alerts = alerts.NewService(a.Repository, a.Prices, a.Logger)
	a.Watchlist = watchlist.NewService(a.Repository, a.Prices, a.Logger)
}

// Close releases held resources.
func (a *App) Close() error {
	if a.Repository != nil {
		if err := a.Repository.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	a.Logger.Info().Msg("Application closed")
	return nil
}
