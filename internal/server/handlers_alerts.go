package server

import (
	"net/http"

	"github.com/foliohq/folio/internal/models"
)

// routeAlerts handles GET and POST /api/alerts.
func (s *Server) routeAlerts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc, err := s.app.Alerts.ListAlerts(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, doc)

	case http.MethodPost:
		var alert models.Alert
		if !DecodeJSON(w, r, &alert) {
			return
		}
		created, err := s.app.Alerts.CreateAlert(r.Context(), alert)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAlertDelete handles DELETE /api/alerts/{id}.
func (s *Server) handleAlertDelete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	id := PathParam(r, "/api/alerts/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Alert id is required")
		return
	}
	if err := s.app.Alerts.DeleteAlert(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAlertEvaluate handles POST /api/alerts/evaluate.
func (s *Server) handleAlertEvaluate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	triggered, err := s.app.Alerts.Evaluate(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if triggered == nil {
		triggered = []models.Alert{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"triggered": triggered})
}
