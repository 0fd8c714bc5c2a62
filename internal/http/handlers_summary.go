package http

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// summaryResponse aggregates the filtered window for the dashboard: headline
// totals, the expense breakdown by category, and a zero-filled daily series.
type summaryResponse struct {
	PeriodLabel string          `json:"period_label"`
	StartDate   core.Date       `json:"start_date"`
	EndDate     core.Date       `json:"end_date"`
	Totals      state.Totals    `json:"totals"`
	Categories  []categoryShare `json:"categories"`
	Daily       []core.DayTotal `json:"daily"`
}

type categoryShare struct {
	Name    string          `json:"name"`
	Total   decimal.Decimal `json:"total"`
	Percent decimal.Decimal `json:"percent"`
}

var oneHundred = decimal.NewFromInt(100)

func buildSummary(s state.State) summaryResponse {
	filtered := state.FilteredTransactions(s)
	income := core.TotalIncome(filtered)
	expense := core.TotalExpense(filtered)

	byCategory := core.ExpenseByCategory(filtered)
	shares := make([]categoryShare, 0, len(byCategory))
	for _, ct := range byCategory {
		percent := decimal.Zero
		if expense.IsPositive() {
			percent = ct.Total.Div(expense).Mul(oneHundred).Round(1)
		}
		shares = append(shares, categoryShare{Name: ct.Name, Total: ct.Total, Percent: percent})
	}

	return summaryResponse{
		PeriodLabel: state.CurrentPeriodLabel(s),
		StartDate:   s.Filter.StartDate,
		EndDate:     s.Filter.EndDate,
		Totals:      state.Totals{Income: income, Expense: expense, Balance: income.Sub(expense)},
		Categories:  shares,
		Daily:       core.DailyTotals(filtered, s.Filter.StartDate, s.Filter.EndDate),
	}
}

// handleSummary serves GET /api/summary. Responses are cached per store
// revision: any dispatch moves the revision, so a cached entry can never
// outlive the data it was computed from.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot, revision := s.tracker.Snapshot()
	key := strconv.FormatUint(revision, 10)
	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary := buildSummary(snapshot)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}
