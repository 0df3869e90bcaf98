package interfaces

import (
	"context"

	"github.com/foliohq/folio/internal/models"
)

// LedgerService keeps account holdings consistent with the append-only
// trade log. Mutations are serialized against each other: the portfolio
// and trade log are shared documents, and interleaved load-modify-save
// cycles would lose writes.
type LedgerService interface {
	// ApplyTrade validates the trade, updates the account's holding, and
	// appends the trade to the log. The stored trade (with generated id)
	// is returned.
	ApplyTrade(ctx context.Context, trade models.Trade) (*models.Trade, error)

	// ReverseTrade undoes a previously applied trade and deletes it from
	// the log. The affected holding is rebuilt by replaying the remaining
	// trades in date order.
	ReverseTrade(ctx context.Context, tradeID string) error

	// ListTrades returns the trade log sorted by date descending, with
	// optional account/action/ticker filters.
	ListTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)

	// RealizedGains computes FIFO realized gains per ticker over the full
	// trade log, all accounts merged.
	RealizedGains(ctx context.Context) (map[string]models.RealizedGain, error)

	// Accounts management
	CreateAccount(ctx context.Context, name string) (*models.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// Manual holding adjustments, bypassing the trade log. A manually set
	// holding is overwritten if a later trade reversal replays its ticker.
	SetHolding(ctx context.Context, accountID string, holding models.Holding) (*models.Holding, error)
	RemoveHolding(ctx context.Context, accountID, ticker string) error
}

// TradeFilter narrows ListTrades results. Zero values match everything.
type TradeFilter struct {
	AccountID string
	Action    models.TradeAction
	Ticker    string
}

// ValuationService reconstructs portfolio value over time and records
// daily snapshots.
type ValuationService interface {
	// ValueSeries builds the value curve for a window. An account set with
	// no holdings yields an empty series with SourceNone, not an error.
	ValueSeries(ctx context.Context, opts SeriesOptions) (*models.ValueSeries, error)

	// Summary values today's holdings at current quotes.
	Summary(ctx context.Context, opts SummaryOptions) (*models.PortfolioSummary, error)

	// RecordSnapshot upserts today's snapshot and trims history to the
	// retention cap. Idempotent for repeated calls on the same day.
	RecordSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// SeriesOptions configures a value series request.
type SeriesOptions struct {
	Window   models.Window
	Accounts []string // account ids; empty means all
	Ticker   string   // restrict to a single ticker; empty means all
}

// SummaryOptions configures a portfolio summary request.
type SummaryOptions struct {
	Accounts []string
	Ticker   string
}

// RebalanceService compares actual allocation against targets.
type RebalanceService interface {
	// Advise computes buy/sell suggestions for tickers deviating beyond
	// the configured threshold.
	Advise(ctx context.Context) (*models.RebalanceAdvice, error)

	// Targets management
	SetTarget(ctx context.Context, ticker string, percent float64) error
	RemoveTarget(ctx context.Context, ticker string) error
	SetThreshold(ctx context.Context, percent float64) error
	GetSettings(ctx context.Context) (*models.Settings, error)
}

// AlertService manages price alerts and their evaluation.
type AlertService interface {
	CreateAlert(ctx context.Context, alert models.Alert) (*models.Alert, error)
	DeleteAlert(ctx context.Context, alertID string) error
	ListAlerts(ctx context.Context) (*models.Alerts, error)

	// Evaluate checks every active alert against a current quote and flips
	// satisfied ones to triggered, exactly once. A quote failure for one
	// ticker never blocks evaluation of the others. Returns the alerts
	// that triggered during this call.
	Evaluate(ctx context.Context) ([]models.Alert, error)
}

// WatchlistService manages the watchlist and its quick quote summaries.
type WatchlistService interface {
	Get(ctx context.Context) (*models.Watchlist, error)
	AddTicker(ctx context.Context, ticker string) (*models.Watchlist, error)
	RemoveTicker(ctx context.Context, ticker string) (*models.Watchlist, error)

	// QuoteSummaries returns current price and trailing changes for each
	// watched ticker. Tickers the provider has no data for are skipped.
	QuoteSummaries(ctx context.Context) ([]models.QuoteSummary, error)
}
