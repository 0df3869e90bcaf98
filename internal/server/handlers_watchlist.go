package server

import "net/http"

// routeWatchlist handles GET and POST /api/watchlist.
func (s *Server) routeWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		watchlist, err := s.app.Watchlist.Get(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, watchlist)

	case http.MethodPost:
		var req struct {
			Ticker string `json:"ticker"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		watchlist, err := s.app.Watchlist.AddTicker(r.Context(), req.Ticker)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, watchlist)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleWatchlistRemove handles DELETE /api/watchlist/{ticker}.
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	ticker := PathParam(r, "/api/watchlist/", "")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}
	watchlist, err := s.app.Watchlist.RemoveTicker(r.Context(), ticker)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, watchlist)
}

// handleWatchlistSummaries handles GET /api/watchlist/summaries.
func (s *Server) handleWatchlistSummaries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	summaries, err := s.app.Watchlist.QuoteSummaries(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"summaries": summaries})
}
