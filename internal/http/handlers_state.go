package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// stateResponse is the raw session snapshot plus the derived view a client
// would otherwise recompute: filtered rows, totals, balances and budget
// statuses under the current filter.
type stateResponse struct {
	state.State
	View viewModel `json:"view"`
}

type viewModel struct {
	PeriodLabel  string                `json:"period_label"`
	Transactions []core.Transaction    `json:"transactions"`
	Totals       state.Totals          `json:"totals"`
	Accounts     []state.AccountStatus `json:"accounts"`
	Budgets      []state.BudgetStatus  `json:"budgets"`
}

func buildStateResponse(s state.State) stateResponse {
	return stateResponse{
		State: s,
		View: viewModel{
			PeriodLabel:  state.CurrentPeriodLabel(s),
			Transactions: state.FilteredTransactions(s),
			Totals:       state.FilteredTotals(s),
			Accounts:     state.AccountBalances(s),
			Budgets:      state.BudgetStatuses(s),
		},
	}
}

// handleState serves GET /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, buildStateResponse(s.tracker.State()))
}

// handleRefresh serves POST /api/state/refresh. It reloads all four
// collections from the remote store and returns the new snapshot. Partial
// failures still produce a snapshot; they surface as per-resource errors.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.tracker.LoadAll(r.Context()); err != nil {
		if errors.Is(err, remote.ErrUnauthenticated) {
			respondError(w, err)
			return
		}
		slog.WarnContext(r.Context(), "Refresh completed with errors", "error", err)
	}
	writeJSON(w, http.StatusOK, buildStateResponse(s.tracker.State()))
}

type filterResponse struct {
	Filter      state.Filter `json:"filter"`
	PeriodLabel string       `json:"period_label"`
}

// handleFilter serves PATCH /api/filter. Absent fields keep their value;
// the resolved start/end dates come back recomputed.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var patch state.FilterPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	s.tracker.PatchFilter(patch)

	snapshot := s.tracker.State()
	writeJSON(w, http.StatusOK, filterResponse{
		Filter:      snapshot.Filter,
		PeriodLabel: state.CurrentPeriodLabel(snapshot),
	})
}

// handleReferenceDate serves PUT /api/filter/reference-date, moving the
// anchor the period window is computed from.
func (s *Server) handleReferenceDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, err)
		return
	}

	s.tracker.SetReferenceDate(date)

	snapshot := s.tracker.State()
	writeJSON(w, http.StatusOK, filterResponse{
		Filter:      snapshot.Filter,
		PeriodLabel: state.CurrentPeriodLabel(snapshot),
	})
}
