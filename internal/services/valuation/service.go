// Package valuation reconstructs portfolio value over time from provider
// price history, with persisted snapshots as the fallback source.
package valuation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

var _ interfaces.ValuationService = (*Service)(nil)

// Service implements ValuationService. Price fetches fan out over a
// bounded worker pool with a per-call timeout; one slow or failing ticker
// never blocks the others.
type Service struct {
	repo   interfaces.Repository
	prices interfaces.PriceProvider
	logger *common.Logger

	workers      int
	fetchTimeout time.Duration
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds the parallel fetch pool.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithFetchTimeout sets the per-ticker fetch timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new valuation service
func NewService(repo interfaces.Repository, prices interfaces.PriceProvider, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		prices:       prices,
		logger:       logger,
		workers:      common.DefaultFetchWorkers,
		fetchTimeout: common.DefaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// forEachTicker runs fn for every ticker on the bounded pool, each call
// under its own timeout.
func (s *Service) forEachTicker(ctx context.Context, tickers []string, fn func(ctx context.Context, ticker string)) {
	common.ForEach(ctx, tickers, s.workers, s.fetchTimeout, fn)
}

// scopedHoldings loads the portfolio and aggregates holdings for the
// requested accounts, optionally restricted to one ticker.
func (s *Service) scopedHoldings(ctx context.Context, accounts []string, ticker string) (map[string]*models.AggregatedHolding, error) {
	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	holdings := models.AggregateHoldings(portfolio.Accounts, accounts)
	if ticker != "" {
		key := models.NormalizeTicker(ticker)
		scoped := make(map[string]*models.AggregatedHolding, 1)
		if h, ok := holdings[key]; ok {
			scoped[key] = h
		}
		holdings = scoped
	}
	return holdings, nil
}

// ValueSeries builds the value curve for a window. Each distinct ticker's
// history is fetched once, bucketed by the window's granularity, and the
// per-bucket values are summed across tickers. When no live history is
// available the persisted snapshots serve as fallback.
func (s *Service) ValueSeries(ctx context.Context, opts interfaces.SeriesOptions) (*models.ValueSeries, error) {
	window, spec := specFor(opts.Window)

	holdings, err := s.scopedHoldings(ctx, opts.Accounts, opts.Ticker)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return &models.ValueSeries{
			Window: window,
			Source: models.SeriesSourceNone,
			Points: []models.ValuePoint{},
		}, nil
	}

	tickers := make([]string, 0, len(holdings))
	for t := range holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var mu sync.Mutex
	buckets := make(map[string]float64)

	s.forEachTicker(ctx, tickers, func(callCtx context.Context, ticker string) {
		history, err := s.prices.GetHistory(callCtx, ticker,
			interfaces.WithRange(spec.Range),
			interfaces.WithInterval(spec.Interval),
		)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("History fetch failed, ticker excluded from series")
			return
		}

		shares := holdings[ticker].Shares

		// Dedupe within the ticker first: the last bar wins a bucket, so
		// one ticker's value is never double counted.
		perTicker := make(map[string]float64, len(history.Bars))
		for _, bar := range history.Bars {
			perTicker[spec.bucketKey(bar.Time)] = shares * bar.Close
		}

		mu.Lock()
		for key, value := range perTicker {
			buckets[key] += value
		}
		mu.Unlock()
	})

	if len(buckets) > 0 {
		points, err := bucketsToPoints(buckets, spec)
		if err != nil {
			return nil, err
		}
		series := &models.ValueSeries{
			Window: window,
			Source: models.SeriesSourceLive,
			Points: points,
		}
		series.RangeMin, series.RangeMax = paddedRange(points)
		return series, nil
	}

	s.logger.Warn().Str("window", string(window)).Msg("No live history available, falling back to snapshots")
	return s.snapshotSeries(ctx, window, spec)
}

// snapshotSeries builds the fallback series from persisted snapshots.
func (s *Service) snapshotSeries(ctx context.Context, window models.Window, spec windowSpec) (*models.ValueSeries, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	snapshots := history.Snapshots
	if cutoff := spec.cutoff(s.now()); !cutoff.IsZero() {
		snapshots = history.Since(cutoff)
	}

	points := make([]models.ValuePoint, 0, len(snapshots))
	for _, snap := range snapshots {
		t, err := time.ParseInLocation(models.SnapshotDateLayout, snap.Date, time.UTC)
		if err != nil {
			s.logger.Warn().Str("date", snap.Date).Msg("Skipping snapshot with malformed date")
			continue
		}
		points = append(points, models.ValuePoint{Time: t, Value: snap.TotalValue})
	}

	series := &models.ValueSeries{
		Window: window,
		Source: models.SeriesSourceSnapshots,
		Points: points,
	}
	if len(points) == 0 {
		series.Source = models.SeriesSourceNone
	}
	series.RangeMin, series.RangeMax = paddedRange(points)
	return series, nil
}

// bucketsToPoints orders bucket values by time.
func bucketsToPoints(buckets map[string]float64, spec windowSpec) ([]models.ValuePoint, error) {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]models.ValuePoint, 0, len(keys))
	for _, key := range keys {
		t, err := spec.bucketTime(key)
		if err != nil {
			return nil, err
		}
		points = append(points, models.ValuePoint{Time: t, Value: buckets[key]})
	}
	return points, nil
}

// paddedRange computes the display range: 10% of the span either side,
// 5% of the value when the series is flat, floored at zero.
func paddedRange(points []models.ValuePoint) (float64, float64) {
	if len(points) == 0 {
		return 0, 0
	}
	min, max := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	pad := (max - min) * 0.10
	if pad == 0 {
		pad = max * 0.05
	}
	lo := min - pad
	if lo < 0 {
		lo = 0
	}
	return lo, max + pad
}

// Summary values the holdings in scope at current quotes. A ticker the
// provider has no quote for stays in the result with PriceKnown false and
// contributes zero value.
func (s *Service) Summary(ctx context.Context, opts interfaces.SummaryOptions) (*models.PortfolioSummary, error) {
	holdings, err := s.scopedHoldings(ctx, opts.Accounts, opts.Ticker)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(holdings))
	for t := range holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var mu sync.Mutex
	quotes := make(map[string]float64)

	s.forEachTicker(ctx, tickers, func(callCtx context.Context, ticker string) {
		quote, err := s.prices.GetQuote(callCtx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed")
			return
		}
		mu.Lock()
		quotes[ticker] = quote.Price
		mu.Unlock()
	})

	summary := &models.PortfolioSummary{Positions: make([]models.PositionSummary, 0, len(tickers))}
	for _, ticker := range tickers {
		h := holdings[ticker]
		pos := models.PositionSummary{
			Ticker: ticker,
			Shares: h.Shares,
			Cost:   h.Cost,
		}
		if h.Shares > 0 {
			pos.AvgCost = h.Cost / h.Shares
		}
		if price, ok := quotes[ticker]; ok {
			pos.PriceKnown = true
			pos.Price = price
			pos.Value = h.Shares * price
			pos.Gain = pos.Value - pos.Cost
			if pos.Cost > 0 {
				pos.GainPct = pos.Gain / pos.Cost * 100
			}
		}
		summary.TotalValue += pos.Value
		summary.TotalCost += pos.Cost
		summary.Positions = append(summary.Positions, pos)
	}

	summary.Gain = summary.TotalValue - summary.TotalCost
	if summary.TotalCost > 0 {
		summary.GainPct = summary.Gain / summary.TotalCost * 100
	}
	for i := range summary.Positions {
		if summary.TotalValue > 0 && summary.Positions[i].PriceKnown {
			summary.Positions[i].WeightPct = summary.Positions[i].Value / summary.TotalValue * 100
		}
	}
	return summary, nil
}
