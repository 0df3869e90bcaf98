package valuation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/foliohq/folio/internal/models"
)

// RecordSnapshot values every account at current quotes and upserts the
// result under today's date. Calling it again the same day replaces the
// day's snapshot; history is trimmed to the retention cap on every write.
func (s *Service) RecordSnapshot(ctx context.Context) (*models.Snapshot, error) {
	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	tickerSet := make(map[string]struct{})
	for _, acc := range portfolio.Accounts {
		for _, h := range acc.Holdings {
			tickerSet[h.Ticker] = struct{}{}
		}
	}
	tickers := make([]string, 0, len(tickerSet))
	for t := range tickerSet {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var mu sync.Mutex
	quotes := make(map[string]float64)
	s.forEachTicker(ctx, tickers, func(callCtx context.Context, ticker string) {
		quote, err := s.prices.GetQuote(callCtx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed, holding valued at zero in snapshot")
			return
		}
		mu.Lock()
		quotes[ticker] = quote.Price
		mu.Unlock()
	})

	snapshot := models.Snapshot{
		Date:     s.now().UTC().Format(models.SnapshotDateLayout),
		Accounts: make(map[string]models.AccountSnapshot, len(portfolio.Accounts)),
	}
	for _, acc := range portfolio.Accounts {
		var value, cost float64
		for _, h := range acc.Holdings {
			value += h.Shares * quotes[h.Ticker]
			cost += h.Shares * h.AvgCost
		}
		snapshot.Accounts[acc.ID] = models.AccountSnapshot{
			Name:  acc.Name,
			Value: value,
			Cost:  cost,
		}
		snapshot.TotalValue += value
		snapshot.TotalCost += cost
	}

	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	history.Upsert(snapshot)
	if err := s.repo.SaveHistory(ctx, history); err != nil {
		return nil, fmt.Errorf("%w: saving history: %v", models.ErrPersistence, err)
	}

	s.logger.Info().
		Str("date", snapshot.Date).
		Float64("total_value", snapshot.TotalValue).
		Int("snapshots", len(history.Snapshots)).
		Msg("Snapshot recorded")

	return &snapshot, nil
}
