package interfaces

import (
	"context"

	"github.com/foliohq/folio/internal/models"
)

// Repository provides typed load/save of the ledger-related documents.
// Load returns a well-formed default when a document has not been saved
// yet; defaults and backward-compatible field filling happen once, at the
// load boundary, not in business logic. No transactional guarantees exist
// across documents; callers performing cross-document updates tolerate
// one save failing after another succeeded.
type Repository interface {
	Portfolio(ctx context.Context) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, p *models.Portfolio) error

	Trades(ctx context.Context) (*models.TradeLog, error)
	SaveTrades(ctx context.Context, l *models.TradeLog) error

	History(ctx context.Context) (*models.History, error)
	SaveHistory(ctx context.Context, h *models.History) error

	Alerts(ctx context.Context) (*models.Alerts, error)
	SaveAlerts(ctx context.Context, a *models.Alerts) error

	Settings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, s *models.Settings) error

	Watchlist(ctx context.Context) (*models.Watchlist, error)
	SaveWatchlist(ctx context.Context, w *models.Watchlist) error

	Close() error
}
