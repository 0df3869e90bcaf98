package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/app"
	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/models"
	"github.com/foliohq/folio/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *testutil.MemRepository, *testutil.MockPriceProvider) {
	t.Helper()
	repo := testutil.NewMemRepository()
	prices := testutil.NewMockPriceProvider()
	a := app.NewAppWithDeps(common.NewDefaultConfig(), common.NewSilentLogger(), repo, prices)
	return NewServer(a), repo, prices
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createAccount(t *testing.T, srv *Server, name string) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/accounts", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[models.Account](t, rec).ID
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestAccountEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	id := createAccount(t, srv, "Brokerage")

	rec := doJSON(t, srv, http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Accounts []models.Account `json:"accounts"`
	}](t, rec)
	require.Len(t, list.Accounts, 1)
	assert.Equal(t, "Brokerage", list.Accounts[0].Name)

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHoldingEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)
	id := createAccount(t, srv, "Brokerage")

	rec := doJSON(t, srv, http.MethodPut, "/api/accounts/"+id+"/holdings",
		models.Holding{Ticker: "vti", Shares: 10, AvgCost: 100})
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[models.Holding](t, rec)
	assert.Equal(t, "VTI", stored.Ticker)

	rec = doJSON(t, srv, http.MethodPut, "/api/accounts/"+id+"/holdings",
		models.Holding{Ticker: "VTI", Shares: -1, AvgCost: 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+id+"/holdings/VTI", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+id+"/holdings/VTI", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTradeEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)
	id := createAccount(t, srv, "Brokerage")

	trade := models.Trade{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		AccountID: id,
		Ticker:    "vti",
		Action:    models.TradeActionBuy,
		Shares:    10,
		Price:     220,
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/trades", trade)
	require.Equal(t, http.StatusCreated, rec.Code)
	stored := decode[models.Trade](t, rec)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "VTI", stored.Ticker)

	// Validation error maps to 400.
	bad := trade
	bad.Shares = -1
	rec = doJSON(t, srv, http.MethodPost, "/api/trades", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/trades?account="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Trades []models.Trade `json:"trades"`
	}](t, rec)
	assert.Len(t, list.Trades, 1)

	// Reverse it.
	rec = doJSON(t, srv, http.MethodDelete, "/api/trades/"+stored.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/trades/"+stored.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRealizedGainsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	id := createAccount(t, srv, "Brokerage")

	for _, body := range []models.Trade{
		{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), AccountID: id, Ticker: "VTI", Action: models.TradeActionBuy, Shares: 10, Price: 100},
		{Date: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), AccountID: id, Ticker: "VTI", Action: models.TradeActionSell, Shares: 4, Price: 150},
	} {
		rec := doJSON(t, srv, http.MethodPost, "/api/trades", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/trades/gains", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[struct {
		Gains map[string]models.RealizedGain `json:"gains"`
	}](t, rec)
	require.Contains(t, out.Gains, "VTI")
	assert.InDelta(t, 200.0, out.Gains["VTI"].Gain, 1e-9)
}

func TestSummaryAndSeriesEndpoints(t *testing.T) {
	srv, repo, prices := newTestServer(t)
	require.NoError(t, repo.SavePortfolio(context.Background(), &models.Portfolio{Accounts: []models.Account{{
		ID: "a1", Name: "Brokerage",
		Holdings: []models.Holding{{Ticker: "VTI", Shares: 10, AvgCost: 100}},
	}}}))
	prices.Quotes["VTI"] = models.Quote{Ticker: "VTI", Price: 150, AsOf: time.Now()}
	prices.Histories["VTI"] = &models.PriceHistory{Ticker: "VTI", Bars: []models.Bar{
		{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Close: 140},
		{Time: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Close: 150},
	}}

	rec := doJSON(t, srv, http.MethodGet, "/api/portfolio/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[models.PortfolioSummary](t, rec)
	assert.InDelta(t, 1500.0, summary.TotalValue, 1e-9)

	rec = doJSON(t, srv, http.MethodGet, "/api/portfolio/series?window=1M", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	series := decode[models.ValueSeries](t, rec)
	assert.Equal(t, models.SeriesSourceLive, series.Source)
	assert.Len(t, series.Points, 2)

	rec = doJSON(t, srv, http.MethodGet, "/api/portfolio/series/chart?window=1M", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = doJSON(t, srv, http.MethodPost, "/api/portfolio/snapshot", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	snap := decode[models.Snapshot](t, rec)
	assert.InDelta(t, 1500.0, snap.TotalValue, 1e-9)
}

func TestRebalanceEndpoints(t *testing.T) {
	srv, repo, prices := newTestServer(t)
	require.NoError(t, repo.SavePortfolio(context.Background(), &models.Portfolio{Accounts: []models.Account{{
		ID: "a1", Name: "Brokerage",
		Holdings: []models.Holding{
			{Ticker: "VTI", Shares: 70, AvgCost: 10},
			{Ticker: "BND", Shares: 30, AvgCost: 10},
		},
	}}}))
	prices.Quotes["VTI"] = models.Quote{Ticker: "VTI", Price: 10}
	prices.Quotes["BND"] = models.Quote{Ticker: "BND", Price: 10}

	rec := doJSON(t, srv, http.MethodPost, "/api/rebalance/targets", map[string]any{"ticker": "VTI", "percent": 60})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, srv, http.MethodPost, "/api/rebalance/targets", map[string]any{"ticker": "BND", "percent": 40})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/rebalance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	advice := decode[models.RebalanceAdvice](t, rec)
	assert.True(t, advice.Applicable)
	assert.Len(t, advice.Suggestions, 2)

	rec = doJSON(t, srv, http.MethodPut, "/api/rebalance/threshold", map[string]any{"percent": 15})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decode[models.Settings](t, rec)
	assert.Equal(t, 15.0, settings.RebalanceThreshold)

	rec = doJSON(t, srv, http.MethodDelete, "/api/rebalance/targets/VTI", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, srv, http.MethodDelete, "/api/rebalance/targets/VTI", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertEndpoints(t *testing.T) {
	srv, _, prices := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/alerts", models.Alert{
		Ticker: "nvda", Condition: models.AlertAbove, TargetPrice: 200,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Alert](t, rec)
	assert.Equal(t, "NVDA", created.Ticker)

	prices.Quotes["NVDA"] = models.Quote{Ticker: "NVDA", Price: 210}
	rec = doJSON(t, srv, http.MethodPost, "/api/alerts/evaluate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[struct {
		Triggered []models.Alert `json:"triggered"`
	}](t, rec)
	require.Len(t, out.Triggered, 1)

	// Second evaluation triggers nothing.
	rec = doJSON(t, srv, http.MethodPost, "/api/alerts/evaluate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[struct {
		Triggered []models.Alert `json:"triggered"`
	}](t, rec)
	assert.Empty(t, out.Triggered)

	rec = doJSON(t, srv, http.MethodDelete, "/api/alerts/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWatchlistEndpoints(t *testing.T) {
	srv, _, prices := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/watchlist", map[string]string{"ticker": "nvda"})
	require.Equal(t, http.StatusCreated, rec.Code)
	w := decode[models.Watchlist](t, rec)
	assert.Equal(t, []string{"NVDA"}, w.Tickers)

	prices.Histories["NVDA"] = &models.PriceHistory{Ticker: "NVDA", Bars: []models.Bar{
		{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Close: 200},
		{Time: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Close: 210},
	}}
	rec = doJSON(t, srv, http.MethodGet, "/api/watchlist/summaries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[struct {
		Summaries []models.QuoteSummary `json:"summaries"`
	}](t, rec)
	require.Len(t, out.Summaries, 1)
	assert.Equal(t, 210.0, out.Summaries[0].Price)

	rec = doJSON(t, srv, http.MethodDelete, "/api/watchlist/NVDA", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodDelete, "/api/watchlist/NVDA", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for path, method := range map[string]string{
		"/api/health":    http.MethodDelete,
		"/api/rebalance": http.MethodPost,
		"/api/settings":  http.MethodPut,
	} {
		rec := doJSON(t, srv, method, path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, fmt.Sprintf("%s %s", method, path))
	}
}
