package http

import (
	"net/http"
	"strings"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// handleBudgets serves /api/budgets. Unlike the other collections, budget
// writes wait for the remote store, so a 201 here means the row is durable.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, state.BudgetStatuses(s.tracker.State()))
	case http.MethodPost:
		var b core.Budget
		if !decodeJSON(w, r, &b) {
			return
		}
		created, err := s.tracker.AddBudget(r.Context(), b)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBudgetByID serves PUT and DELETE on /api/budgets/{id}.
func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/budgets/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var b core.Budget
		if !decodeJSON(w, r, &b) {
			return
		}
		b.ID = id
		if err := s.tracker.UpdateBudget(r.Context(), b); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := s.tracker.DeleteBudget(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
