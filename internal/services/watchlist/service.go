// Package watchlist manages the watched-ticker list and its quick quote
// summaries.
package watchlist

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

var _ interfaces.WatchlistService = (*Service)(nil)

// Trading-day offsets for trailing change columns.
const (
	offset1D = 1
	offset1W = 5
	offset1M = 21
)

// Service implements WatchlistService. Watchlist mutations share one
// mutex; the list is a single document and interleaved load-modify-save
// cycles would lose writes.
type Service struct {
	repo   interfaces.Repository
	prices interfaces.PriceProvider
	logger *common.Logger

	mu sync.Mutex
}

// NewService creates a new watchlist service
func NewService(repo interfaces.Repository, prices interfaces.PriceProvider, logger *common.Logger) *Service {
	return &Service{repo: repo, prices: prices, logger: logger}
}

// Get returns the watchlist document.
func (s *Service) Get(ctx context.Context) (*models.Watchlist, error) {
	w, err := s.repo.Watchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return w, nil
}

// AddTicker adds a ticker to the watchlist. Adding a present ticker is a
// no-op.
func (s *Service) AddTicker(ctx context.Context, ticker string) (*models.Watchlist, error) {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.repo.Watchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	if !w.Contains(ticker) {
		w.Add(ticker)
		if err := s.repo.SaveWatchlist(ctx, w); err != nil {
			return nil, fmt.Errorf("%w: saving watchlist: %v", models.ErrPersistence, err)
		}
		s.logger.Info().Str("ticker", ticker).Msg("Ticker added to watchlist")
	}
	return w, nil
}

// RemoveTicker removes a ticker from the watchlist.
func (s *Service) RemoveTicker(ctx context.Context, ticker string) (*models.Watchlist, error) {
	ticker = models.NormalizeTicker(ticker)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.repo.Watchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	if !w.Remove(ticker) {
		return nil, fmt.Errorf("%w: ticker '%s' not watched", models.ErrNotFound, ticker)
	}
	if err := s.repo.SaveWatchlist(ctx, w); err != nil {
		return nil, fmt.Errorf("%w: saving watchlist: %v", models.ErrPersistence, err)
	}
	return w, nil
}

// QuoteSummaries builds the quick view for every watched ticker from six
// months of daily history: last close plus trailing 1D/1W/1M/6M changes.
// Tickers the provider has no data for are skipped, not errors.
func (s *Service) QuoteSummaries(ctx context.Context) ([]models.QuoteSummary, error) {
	w, err := s.repo.Watchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}

	var mu sync.Mutex
	summaries := make([]models.QuoteSummary, 0, len(w.Tickers))

	common.ForEach(ctx, w.Tickers, common.DefaultFetchWorkers, common.DefaultFetchTimeout, func(callCtx context.Context, ticker string) {
		history, err := s.prices.GetHistory(callCtx, ticker,
			interfaces.WithRange("6mo"),
			interfaces.WithInterval("1d"),
		)
		if err != nil || len(history.Bars) == 0 {
			if err != nil {
				s.logger.Warn().Err(err).Str("ticker", ticker).Msg("History fetch failed, ticker skipped")
			}
			return
		}

		mu.Lock()
		summaries = append(summaries, summarize(ticker, history.Bars))
		mu.Unlock()
	})

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Ticker < summaries[j].Ticker })
	return summaries, nil
}

// summarize derives the trailing changes from daily bars. Offsets are in
// trading days; a series shorter than an offset falls back to its oldest
// bar for the 6M column and reports zero for the others.
func summarize(ticker string, bars []models.Bar) models.QuoteSummary {
	last := bars[len(bars)-1].Close
	return models.QuoteSummary{
		Ticker:   ticker,
		Price:    last,
		Change1D: changeOver(bars, offset1D),
		Change1W: changeOver(bars, offset1W),
		Change1M: changeOver(bars, offset1M),
		Change6M: changeFrom(bars[0].Close, last),
	}
}

func changeOver(bars []models.Bar, tradingDays int) float64 {
	i := len(bars) - 1 - tradingDays
	if i < 0 {
		return 0
	}
	return changeFrom(bars[i].Close, bars[len(bars)-1].Close)
}

func changeFrom(base, current float64) float64 {
	if base == 0 {
		return 0
	}
	return (current - base) / base * 100
}
