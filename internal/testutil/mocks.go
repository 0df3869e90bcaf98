// Package testutil provides in-memory fakes shared by service and server
// tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

// MemRepository is an in-memory Repository. Documents are stored as JSON
// so callers never share mutable state with the store, matching how a
// real document store behaves. Zero value is not usable; call
// NewMemRepository.
type MemRepository struct {
	mu   sync.Mutex
	docs map[string][]byte

	// Optional injected failures, keyed by document name.
	SaveErr map[string]error
	LoadErr map[string]error
}

var _ interfaces.Repository = (*MemRepository)(nil)

// NewMemRepository creates an empty in-memory repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{
		docs:    make(map[string][]byte),
		SaveErr: make(map[string]error),
		LoadErr: make(map[string]error),
	}
}

func (r *MemRepository) load(name string, out any, def func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.LoadErr[name]; err != nil {
		return err
	}
	data, ok := r.docs[name]
	if !ok {
		def()
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("corrupt document %s: %w", name, err)
	}
	return nil
}

func (r *MemRepository) save(name string, in any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.SaveErr[name]; err != nil {
		return err
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	r.docs[name] = data
	return nil
}

func (r *MemRepository) Portfolio(ctx context.Context) (*models.Portfolio, error) {
	p := &models.Portfolio{}
	err := r.load("portfolio", p, func() { p.Accounts = []models.Account{} })
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *MemRepository) SavePortfolio(ctx context.Context, p *models.Portfolio) error {
	return r.save("portfolio", p)
}

func (r *MemRepository) Trades(ctx context.Context) (*models.TradeLog, error) {
	l := &models.TradeLog{}
	err := r.load("trades", l, func() { l.Trades = []models.Trade{} })
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *MemRepository) SaveTrades(ctx context.Context, l *models.TradeLog) error {
	return r.save("trades", l)
}

func (r *MemRepository) History(ctx context.Context) (*models.History, error) {
	h := &models.History{}
	err := r.load("history", h, func() { h.Snapshots = []models.Snapshot{} })
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *MemRepository) SaveHistory(ctx context.Context, h *models.History) error {
	return r.save("history", h)
}

func (r *MemRepository) Alerts(ctx context.Context) (*models.Alerts, error) {
	a := &models.Alerts{}
	err := r.load("alerts", a, func() { a.Alerts = []models.Alert{} })
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *MemRepository) SaveAlerts(ctx context.Context, a *models.Alerts) error {
	return r.save("alerts", a)
}

func (r *MemRepository) Settings(ctx context.Context) (*models.Settings, error) {
	s := &models.Settings{}
	err := r.load("settings", s, func() {})
	if err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	return s, nil
}

func (r *MemRepository) SaveSettings(ctx context.Context, s *models.Settings) error {
	return r.save("settings", s)
}

func (r *MemRepository) Watchlist(ctx context.Context) (*models.Watchlist, error) {
	w := &models.Watchlist{}
	err := r.load("watchlist", w, func() { w.Tickers = []string{} })
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *MemRepository) SaveWatchlist(ctx context.Context, w *models.Watchlist) error {
	return r.save("watchlist", w)
}

func (r *MemRepository) Close() error { return nil }

// MockPriceProvider serves canned quotes and histories and records call
// counts per ticker, so tests can assert fetch deduplication.
type MockPriceProvider struct {
	mu sync.Mutex

	Quotes     map[string]models.Quote
	QuoteErrs  map[string]error
	Histories  map[string]*models.PriceHistory
	HistErrs   map[string]error
	QuoteCalls map[string]int
	HistCalls  map[string]int
}

var _ interfaces.PriceProvider = (*MockPriceProvider)(nil)

// NewMockPriceProvider creates an empty provider; unknown tickers return
// models.ErrNoData.
func NewMockPriceProvider() *MockPriceProvider {
	return &MockPriceProvider{
		Quotes:     make(map[string]models.Quote),
		QuoteErrs:  make(map[string]error),
		Histories:  make(map[string]*models.PriceHistory),
		HistErrs:   make(map[string]error),
		QuoteCalls: make(map[string]int),
		HistCalls:  make(map[string]int),
	}
}

func (m *MockPriceProvider) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuoteCalls[ticker]++
	if err := m.QuoteErrs[ticker]; err != nil {
		return nil, err
	}
	q, ok := m.Quotes[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: no quote for %s", models.ErrNoData, ticker)
	}
	return &q, nil
}

func (m *MockPriceProvider) GetHistory(ctx context.Context, ticker string, opts ...interfaces.HistoryOption) (*models.PriceHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HistCalls[ticker]++
	if err := m.HistErrs[ticker]; err != nil {
		return nil, err
	}
	h, ok := m.Histories[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: no history for %s", models.ErrNoData, ticker)
	}
	cp := *h
	return &cp, nil
}
