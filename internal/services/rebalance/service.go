// Package rebalance compares actual portfolio allocation against target
// percentages and proposes dollar adjustments.
package rebalance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

var _ interfaces.RebalanceService = (*Service)(nil)

// Service implements RebalanceService. Settings mutations share one
// mutex; the settings document is a single record and interleaved
// load-modify-save cycles would lose writes.
type Service struct {
	repo   interfaces.Repository
	prices interfaces.PriceProvider
	logger *common.Logger

	mu sync.Mutex
}

// NewService creates a new rebalance service
func NewService(repo interfaces.Repository, prices interfaces.PriceProvider, logger *common.Logger) *Service {
	return &Service{repo: repo, prices: prices, logger: logger}
}

// Advise values all holdings at current quotes, compares each ticker's
// actual allocation against its target, and proposes a dollar adjustment
// for every deviation strictly beyond the threshold. The ticker universe
// is the union of held and targeted tickers, so an unheld target yields a
// BUY and an untargeted holding yields a SELL once it deviates enough.
func (s *Service) Advise(ctx context.Context) (*models.RebalanceAdvice, error) {
	settings, err := s.repo.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	advice := &models.RebalanceAdvice{
		Threshold:   settings.RebalanceThreshold,
		Suggestions: []models.RebalanceSuggestion{},
	}
	if len(settings.TargetAllocations) == 0 {
		advice.Reason = "no target allocations configured"
		return advice, nil
	}

	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	holdings := models.AggregateHoldings(portfolio.Accounts, nil)

	values, total := s.valueHoldings(ctx, holdings)
	advice.TotalValue = total
	if total <= 0 {
		advice.Reason = "portfolio has no market value"
		return advice, nil
	}

	universe := make(map[string]struct{}, len(holdings)+len(settings.TargetAllocations))
	for t := range holdings {
		universe[t] = struct{}{}
	}
	for t := range settings.TargetAllocations {
		universe[models.NormalizeTicker(t)] = struct{}{}
	}

	for ticker := range universe {
		actual := values[ticker] / total * 100
		target := settings.TargetAllocations[ticker]
		diff := actual - target
		if math.Abs(diff) <= settings.RebalanceThreshold {
			continue
		}

		sg := models.RebalanceSuggestion{
			Ticker:    ticker,
			ActualPct: actual,
			TargetPct: target,
			DiffPct:   diff,
			Amount:    math.Abs(diff) / 100 * total,
		}
		if diff > 0 {
			sg.Action = models.RebalanceSell
		} else {
			sg.Action = models.RebalanceBuy
		}
		advice.Suggestions = append(advice.Suggestions, sg)
	}

	sort.Slice(advice.Suggestions, func(i, j int) bool {
		return advice.Suggestions[i].Ticker < advice.Suggestions[j].Ticker
	})
	advice.Applicable = true
	return advice, nil
}

// valueHoldings fetches quotes concurrently and returns per-ticker market
// values plus their sum. Tickers without a quote are valued at zero.
func (s *Service) valueHoldings(ctx context.Context, holdings map[string]*models.AggregatedHolding) (map[string]float64, float64) {
	tickers := make([]string, 0, len(holdings))
	for t := range holdings {
		tickers = append(tickers, t)
	}

	var mu sync.Mutex
	values := make(map[string]float64, len(tickers))

	common.ForEach(ctx, tickers, common.DefaultFetchWorkers, common.DefaultFetchTimeout, func(callCtx context.Context, ticker string) {
		quote, err := s.prices.GetQuote(callCtx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed, holding excluded from allocation")
			return
		}
		mu.Lock()
		values[ticker] = holdings[ticker].Shares * quote.Price
		mu.Unlock()
	})

	var total float64
	for _, v := range values {
		total += v
	}
	return values, total
}

// SetTarget stores a target allocation percent for a ticker.
func (s *Service) SetTarget(ctx context.Context, ticker string, percent float64) error {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return fmt.Errorf("%w: ticker is required", models.ErrValidation)
	}
	if percent <= 0 || percent > 100 {
		return fmt.Errorf("%w: target percent must be in (0, 100], got %g", models.ErrValidation, percent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings.TargetAllocations[ticker] = percent
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("%w: saving settings: %v", models.ErrPersistence, err)
	}

	s.logger.Info().Str("ticker", ticker).Float64("percent", percent).Msg("Target allocation set")
	return nil
}

// RemoveTarget deletes a ticker's target allocation.
func (s *Service) RemoveTarget(ctx context.Context, ticker string) error {
	ticker = models.NormalizeTicker(ticker)

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if _, ok := settings.TargetAllocations[ticker]; !ok {
		return fmt.Errorf("%w: no target for '%s'", models.ErrNotFound, ticker)
	}
	delete(settings.TargetAllocations, ticker)
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("%w: saving settings: %v", models.ErrPersistence, err)
	}
	return nil
}

// SetThreshold stores the rebalance deviation threshold.
func (s *Service) SetThreshold(ctx context.Context, percent float64) error {
	if percent <= 0 || percent > 100 {
		return fmt.Errorf("%w: threshold must be in (0, 100], got %g", models.ErrValidation, percent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings.RebalanceThreshold = percent
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("%w: saving settings: %v", models.ErrPersistence, err)
	}
	return nil
}

// GetSettings returns the settings document with defaults applied.
func (s *Service) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}
