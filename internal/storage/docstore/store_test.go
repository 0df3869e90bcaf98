package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUnsavedDocumentsReturnDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.Portfolio(ctx)
	require.NoError(t, err)
	assert.NotNil(t, p.Accounts)
	assert.Empty(t, p.Accounts)

	l, err := store.Trades(ctx)
	require.NoError(t, err)
	assert.NotNil(t, l.Trades)

	h, err := store.History(ctx)
	require.NoError(t, err)
	assert.NotNil(t, h.Snapshots)

	a, err := store.Alerts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, a.Alerts)

	w, err := store.Watchlist(ctx)
	require.NoError(t, err)
	assert.NotNil(t, w.Tickers)

	s, err := store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRebalanceThreshold, s.RebalanceThreshold)
	assert.NotNil(t, s.TargetAllocations)
}

func TestPortfolioRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := &models.Portfolio{Accounts: []models.Account{{
		ID:   "a1",
		Name: "Brokerage",
		Holdings: []models.Holding{
			{Ticker: "VTI", Shares: 10.5, AvgCost: 220.25},
		},
	}}}
	require.NoError(t, store.SavePortfolio(ctx, in))

	out, err := store.Portfolio(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTradeLogRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := &models.TradeLog{Trades: []models.Trade{{
		ID:        "t1",
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		AccountID: "a1",
		Ticker:    "VTI",
		Action:    models.TradeActionBuy,
		Shares:    10,
		Price:     220,
		Fees:      1.5,
		Notes:     "initial position",
	}}}
	require.NoError(t, store.SaveTrades(ctx, in))

	out, err := store.Trades(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSettingsPartialDocumentGetsDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Saved with targets but no threshold; the load boundary fills it.
	require.NoError(t, store.SaveSettings(ctx, &models.Settings{
		TargetAllocations: map[string]float64{"VTI": 60},
	}))

	out, err := store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60.0, out.TargetAllocations["VTI"])
	assert.Equal(t, models.DefaultRebalanceThreshold, out.RebalanceThreshold)
}

func TestDocumentsSurviveReopen(t *testing.T) {
	path := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(common.NewSilentLogger(), path)
	require.NoError(t, err)
	require.NoError(t, store.SaveWatchlist(ctx, &models.Watchlist{Tickers: []string{"NVDA", "VTI"}}))
	require.NoError(t, store.SaveHistory(ctx, &models.History{Snapshots: []models.Snapshot{
		{Date: "2026-03-01", TotalValue: 1000, TotalCost: 900},
	}}))
	require.NoError(t, store.Close())

	store, err = NewStore(common.NewSilentLogger(), path)
	require.NoError(t, err)
	defer store.Close()

	w, err := store.Watchlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"NVDA", "VTI"}, w.Tickers)

	h, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, h.Snapshots, 1)
	assert.Equal(t, 1000.0, h.Snapshots[0].TotalValue)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveWatchlist(ctx, &models.Watchlist{Tickers: []string{"NVDA"}}))
	require.NoError(t, store.SaveWatchlist(ctx, &models.Watchlist{Tickers: []string{"VTI"}}))

	w, err := store.Watchlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"VTI"}, w.Tickers)
}

func TestAlertsRoundTripPreservesTriggeredState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	triggeredAt := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	in := &models.Alerts{Alerts: []models.Alert{
		{ID: "al1", Ticker: "NVDA", Condition: models.AlertAbove, TargetPrice: 200, CreatedDate: triggeredAt.AddDate(0, 0, -7)},
		{ID: "al2", Ticker: "BND", Condition: models.AlertBelow, TargetPrice: 65, CreatedDate: triggeredAt.AddDate(0, 0, -3), Triggered: true, TriggeredDate: &triggeredAt},
	}}
	require.NoError(t, store.SaveAlerts(ctx, in))

	out, err := store.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, out.Alerts, 2)
	assert.Len(t, out.Active(), 1)
	assert.Len(t, out.TriggeredAlerts(), 1)
	require.NotNil(t, out.Alerts[1].TriggeredDate)
	assert.True(t, out.Alerts[1].TriggeredDate.Equal(triggeredAt))
}
