// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"time"

	"github.com/foliohq/folio/internal/models"
)

// PriceProvider supplies current quotes and historical OHLCV series. It
// fails with models.ErrNoData when the ticker is unknown or the feed is
// unavailable; GetHistory may return a partial, non-error series when only
// some data points are missing.
type PriceProvider interface {
	// GetQuote retrieves the current price for a ticker.
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)

	// GetHistory retrieves a historical price series.
	GetHistory(ctx context.Context, ticker string, opts ...HistoryOption) (*models.PriceHistory, error)
}

// HistoryOption configures history requests.
type HistoryOption func(*HistoryParams)

// HistoryParams holds history query parameters. Range uses provider range
// strings ("1d", "7d", "1mo", ... "max"); Interval uses bar sizes
// ("5m", "1h", "1d").
type HistoryParams struct {
	Range    string
	Interval string
	From     time.Time
	To       time.Time
}

// WithRange sets the lookback range for a history query.
func WithRange(r string) HistoryOption {
	return func(p *HistoryParams) {
		p.Range = r
	}
}

// WithInterval sets the bar interval for a history query.
func WithInterval(interval string) HistoryOption {
	return func(p *HistoryParams) {
		p.Interval = interval
	}
}

// WithDateRange sets an explicit from/to span instead of a named range.
func WithDateRange(from, to time.Time) HistoryOption {
	return func(p *HistoryParams) {
		p.From = from
		p.To = to
	}
}
