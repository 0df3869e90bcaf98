package server

import (
	"net/http"
)

// handleRebalanceAdvice handles GET /api/rebalance.
func (s *Server) handleRebalanceAdvice(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	advice, err := s.app.Rebalance.Advise(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, advice)
}

// handleTargetSet handles POST /api/rebalance/targets.
func (s *Server) handleTargetSet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Ticker  string  `json:"ticker"`
		Percent float64 `json:"percent"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := s.app.Rebalance.SetTarget(r.Context(), req.Ticker, req.Percent); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTargetRemove handles DELETE /api/rebalance/targets/{ticker}.
func (s *Server) handleTargetRemove(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	ticker := PathParam(r, "/api/rebalance/targets/", "")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}
	if err := s.app.Rebalance.RemoveTarget(r.Context(), ticker); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleThresholdSet handles PUT /api/rebalance/threshold.
func (s *Server) handleThresholdSet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	var req struct {
		Percent float64 `json:"percent"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := s.app.Rebalance.SetThreshold(r.Context(), req.Percent); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSettings handles GET /api/settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	settings, err := s.app.Rebalance.GetSettings(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}
