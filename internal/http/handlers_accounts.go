package http

import (
	"net/http"
	"strings"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// handleAccounts serves /api/accounts. The GET response carries running
// balances derived from the currently filtered transactions, so they move
// with the period the client is looking at.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, state.AccountBalances(s.tracker.State()))
	case http.MethodPost:
		var acc core.Account
		if !decodeJSON(w, r, &acc) {
			return
		}
		created, err := s.tracker.AddAccount(r.Context(), acc)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleAccountByID serves PUT and DELETE on /api/accounts/{id}.
func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var acc core.Account
		if !decodeJSON(w, r, &acc) {
			return
		}
		acc.ID = id
		if err := s.tracker.UpdateAccount(r.Context(), acc); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := s.tracker.DeleteAccount(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
