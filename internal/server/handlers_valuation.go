package server

import (
	"net/http"

	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
	"github.com/foliohq/folio/internal/services/valuation"
)

func seriesOptions(r *http.Request) interfaces.SeriesOptions {
	window := models.Window(r.URL.Query().Get("window"))
	if window == "" {
		window = models.Window1M
	}
	return interfaces.SeriesOptions{
		Window:   window,
		Accounts: queryList(r, "accounts"),
		Ticker:   r.URL.Query().Get("ticker"),
	}
}

// handleSummary handles GET /api/portfolio/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	summary, err := s.app.Valuation.Summary(r.Context(), interfaces.SummaryOptions{
		Accounts: queryList(r, "accounts"),
		Ticker:   r.URL.Query().Get("ticker"),
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleSeries handles GET /api/portfolio/series.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	series, err := s.app.Valuation.ValueSeries(r.Context(), seriesOptions(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleSeriesChart handles GET /api/portfolio/series/chart, returning a
// rendered PNG.
func (s *Server) handleSeriesChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	series, err := s.app.Valuation.ValueSeries(r.Context(), seriesOptions(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	png, err := valuation.RenderSeriesChart(series)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleSnapshot handles POST /api/portfolio/snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	snapshot, err := s.app.Valuation.RecordSnapshot(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, snapshot)
}
