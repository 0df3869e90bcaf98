package server

import (
	"net/http"
	"strings"

	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

// routeAccounts handles GET and POST /api/accounts.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := s.app.Ledger.ListAccounts(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		account, err := s.app.Ledger.CreateAccount(r.Context(), req.Name)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, account)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeAccountSubtree handles DELETE /api/accounts/{id},
// PUT /api/accounts/{id}/holdings, and
// DELETE /api/accounts/{id}/holdings/{ticker}.
func (s *Server) routeAccountSubtree(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/accounts/", "/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Account id is required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/"+id)
	switch {
	case rest == "" || rest == "/":
		if !RequireMethod(w, r, http.MethodDelete) {
			return
		}
		if err := s.app.Ledger.DeleteAccount(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case rest == "/holdings":
		if !RequireMethod(w, r, http.MethodPut) {
			return
		}
		var holding models.Holding
		if !DecodeJSON(w, r, &holding) {
			return
		}
		stored, err := s.app.Ledger.SetHolding(r.Context(), id, holding)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, stored)

	case strings.HasPrefix(rest, "/holdings/"):
		if !RequireMethod(w, r, http.MethodDelete) {
			return
		}
		ticker := strings.TrimPrefix(rest, "/holdings/")
		if ticker == "" {
			WriteError(w, http.StatusBadRequest, "Ticker is required")
			return
		}
		if err := s.app.Ledger.RemoveHolding(r.Context(), id, ticker); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeTrades handles GET and POST /api/trades.
func (s *Server) routeTrades(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := interfaces.TradeFilter{
			AccountID: r.URL.Query().Get("account"),
			Ticker:    r.URL.Query().Get("ticker"),
			Action:    models.TradeAction(r.URL.Query().Get("action")),
		}
		trades, err := s.app.Ledger.ListTrades(r.Context(), filter)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"trades": trades})

	case http.MethodPost:
		var trade models.Trade
		if !DecodeJSON(w, r, &trade) {
			return
		}
		stored, err := s.app.Ledger.ApplyTrade(r.Context(), trade)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, stored)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTradeReverse handles DELETE /api/trades/{id}.
func (s *Server) handleTradeReverse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	id := PathParam(r, "/api/trades/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Trade id is required")
		return
	}
	if err := s.app.Ledger.ReverseTrade(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRealizedGains handles GET /api/trades/gains.
func (s *Server) handleRealizedGains(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	gains, err := s.app.Ledger.RealizedGains(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"gains": gains})
}
