package alerts

import (
	"context"
	"fmt"
	"sync"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/models"
)

// Evaluate checks every active alert against a current quote and flips
// satisfied ones to triggered. Quotes are fetched once per distinct
// ticker; a failed fetch leaves that ticker's alerts active for the next
// run and never blocks the others. Returns the alerts that triggered
// during this call.
func (s *Service) Evaluate(ctx context.Context) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.Alerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}

	active := doc.Active()
	if len(active) == 0 {
		return nil, nil
	}

	tickerSet := make(map[string]struct{})
	for _, a := range active {
		tickerSet[a.Ticker] = struct{}{}
	}
	tickers := make([]string, 0, len(tickerSet))
	for t := range tickerSet {
		tickers = append(tickers, t)
	}

	var mu sync.Mutex
	quotes := make(map[string]float64, len(tickers))

	common.ForEach(ctx, tickers, common.DefaultFetchWorkers, common.DefaultFetchTimeout, func(callCtx context.Context, ticker string) {
		quote, err := s.prices.GetQuote(callCtx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed, alerts stay active")
			return
		}
		mu.Lock()
		quotes[ticker] = quote.Price
		mu.Unlock()
	})

	now := s.now()
	triggered := make([]models.Alert, 0)
	for i := range doc.Alerts {
		a := &doc.Alerts[i]
		if a.Triggered {
			continue
		}
		price, ok := quotes[a.Ticker]
		if !ok || !a.Satisfied(price) {
			continue
		}
		a.Triggered = true
		t := now
		a.TriggeredDate = &t
		triggered = append(triggered, *a)

		s.logger.Info().
			Str("alert", a.ID).
			Str("ticker", a.Ticker).
			Str("condition", string(a.Condition)).
			Float64("target", a.TargetPrice).
			Float64("price", price).
			Msg("Alert triggered")
	}

	if len(triggered) == 0 {
		return nil, nil
	}
	if err := s.repo.SaveAlerts(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: saving alerts: %v", models.ErrPersistence, err)
	}
	return triggered, nil
}
