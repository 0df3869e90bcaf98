package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)

	// Accounts
	mux.HandleFunc("/api/accounts", s.routeAccounts)
	mux.HandleFunc("/api/accounts/", s.routeAccountSubtree)

	// Trades
	mux.HandleFunc("/api/trades", s.routeTrades)
	mux.HandleFunc("/api/trades/gains", s.handleRealizedGains)
	mux.HandleFunc("/api/trades/", s.handleTradeReverse)

	// Valuation
	mux.HandleFunc("/api/portfolio/summary", s.handleSummary)
	mux.HandleFunc("/api/portfolio/series", s.handleSeries)
	mux.HandleFunc("/api/portfolio/series/chart", s.handleSeriesChart)
	mux.HandleFunc("/api/portfolio/snapshot", s.handleSnapshot)

	// Rebalance
	mux.HandleFunc("/api/rebalance", s.handleRebalanceAdvice)
	mux.HandleFunc("/api/rebalance/targets", s.handleTargetSet)
	mux.HandleFunc("/api/rebalance/targets/", s.handleTargetRemove)
	mux.HandleFunc("/api/rebalance/threshold", s.handleThresholdSet)
	mux.HandleFunc("/api/settings", s.handleSettings)

	// Alerts
	mux.HandleFunc("/api/alerts", s.routeAlerts)
	mux.HandleFunc("/api/alerts/evaluate", s.handleAlertEvaluate)
	mux.HandleFunc("/api/alerts/", s.handleAlertDelete)

	// Watchlist
	mux.HandleFunc("/api/watchlist", s.routeWatchlist)
	mux.HandleFunc("/api/watchlist/summaries", s.handleWatchlistSummaries)
	mux.HandleFunc("/api/watchlist/", s.handleWatchlistRemove)
}
