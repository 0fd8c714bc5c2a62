package http

import (
	"net/http"
	"strings"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// handleTransactions serves /api/transactions: GET lists the rows matching
// the current filter, POST records a new transaction and answers with the
// optimistic row before the remote write settles.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, state.FilteredTransactions(s.tracker.State()))
	case http.MethodPost:
		var txn core.Transaction
		if !decodeJSON(w, r, &txn) {
			return
		}
		created, err := s.tracker.AddTransaction(r.Context(), txn)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTransactionByID serves PUT and DELETE on /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var txn core.Transaction
		if !decodeJSON(w, r, &txn) {
			return
		}
		txn.ID = id
		if err := s.tracker.UpdateTransaction(r.Context(), txn); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := s.tracker.DeleteTransaction(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
