package state

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
)

type (
	// Totals summarizes the filtered transaction set.
	Totals struct {
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
		Balance decimal.Decimal `json:"balance"`
	}

	// AccountStatus pairs an account with its derived balance.
	AccountStatus struct {
		core.Account
		Balance decimal.Decimal `json:"balance"`
	}

	// BudgetStatus decorates a budget with its category name and the
	// spent/remaining amounts derived from the transaction set.
	BudgetStatus struct {
		core.Budget
		Category  string          `json:"category"`
		Spent     decimal.Decimal `json:"spent"`
		Remaining decimal.Decimal `json:"remaining"`
	}
)

// FilteredTransactions returns the transactions whose date falls inside the
// filter range, inclusive on both ends, and that match the search query. The
// query is a case-insensitive substring match against the note or the
// category name; a transaction without a note never matches on the note
// side. Recomputed on every call, the collections are user-scale.
func FilteredTransactions(s State) []core.Transaction {
	query := strings.ToLower(strings.TrimSpace(s.Filter.Query))
	out := make([]core.Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if t.Date.Before(s.Filter.StartDate.Time) || t.Date.After(s.Filter.EndDate.Time) {
			continue
		}
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesQuery(t core.Transaction, query string) bool {
	if t.Note != "" && strings.Contains(strings.ToLower(t.Note), query) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Category), query)
}

// CurrentPeriodLabel renders the display string for the active filter.
func CurrentPeriodLabel(s State) string {
	return core.PeriodLabel(s.Filter.Period, s.Filter.ReferenceDate)
}

// CategoriesByKind returns the categories of one kind, in collection order.
// Listings are scoped: an expense listing never includes income categories.
func CategoriesByKind(s State, kind core.CategoryKind) []core.Category {
	out := make([]core.Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FilteredTotals computes income, expense and balance over the filtered set.
func FilteredTotals(s State) Totals {
	filtered := FilteredTransactions(s)
	income := core.TotalIncome(filtered)
	expense := core.TotalExpense(filtered)
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// AccountBalances derives every account's balance over the currently
// filtered transaction set.
func AccountBalances(s State) []AccountStatus {
	filtered := FilteredTransactions(s)
	out := make([]AccountStatus, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		out = append(out, AccountStatus{Account: a, Balance: core.AccountBalance(a, filtered)})
	}
	return out
}

// BudgetStatuses derives spent/remaining for every budget. Spending is
// summed over the budget's own month from the full transaction set, not the
// filtered one. A budget whose category no longer exists reports zero spent.
func BudgetStatuses(s State) []BudgetStatus {
	names := make(map[string]string, len(s.Categories))
	for _, c := range s.Categories {
		names[c.ID] = c.Name
	}
	out := make([]BudgetStatus, 0, len(s.Budgets))
	for _, b := range s.Budgets {
		name := names[b.CategoryID]
		spent := core.BudgetSpent(b, name, s.Transactions)
		out = append(out, BudgetStatus{
			Budget:    b,
			Category:  name,
			Spent:     spent,
			Remaining: b.Limit.Sub(spent),
		})
	}
	return out
}
