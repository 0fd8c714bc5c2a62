package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal is an expense amount aggregated by category name.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// DayTotal holds income and expense sums for one calendar day.
type DayTotal struct {
	Date    Date            `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// TotalIncome sums the amounts of income transactions. Transfers and
// expenses contribute nothing.
func TotalIncome(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.Kind == Income {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalExpense sums the amounts of expense transactions.
func TotalExpense(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.Kind == Expense {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Balance is total income minus total expense. Transfers are excluded from
// both sides.
func Balance(txns []Transaction) decimal.Decimal {
	return TotalIncome(txns).Sub(TotalExpense(txns))
}

// AccountBalance derives an account's current balance from its initial
// balance and the transactions referencing it. Transfers do not move the
// balance; the from/to account model and the balance derivation were never
// reconciled upstream, so transfer impact stays unresolved here rather than
// guessed at.
func AccountBalance(account Account, txns []Transaction) decimal.Decimal {
	balance := account.InitialBalance
	for _, t := range txns {
		if t.Account != account.Name {
			continue
		}
		switch t.Kind {
		case Income:
			balance = balance.Add(t.Amount)
		case Expense:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// BudgetSpent sums expense transactions matching the given category name
// inside the budget's month. The match is by name because transactions
// store category names, not identifiers.
func BudgetSpent(b Budget, categoryName string, txns []Transaction) decimal.Decimal {
	if categoryName == "" {
		return decimal.Zero
	}
	spent := decimal.Zero
	for _, t := range txns {
		if t.Kind == Expense && t.Category == categoryName && b.Month.Contains(t.Date) {
			spent = spent.Add(t.Amount)
		}
	}
	return spent
}

// ExpenseByCategory aggregates expense amounts per category name, sorted by
// descending total (ties by name) so chart slices render in a stable order.
func ExpenseByCategory(txns []Transaction) []CategoryTotal {
	byName := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Kind != Expense {
			continue
		}
		byName[t.Category] = byName[t.Category].Add(t.Amount)
	}
	totals := make([]CategoryTotal, 0, len(byName))
	for name, total := range byName {
		totals = append(totals, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Name < totals[j].Name
	})
	return totals
}

// DailyTotals buckets income and expense sums per calendar day across the
// inclusive start..end range, zero-filling days without transactions so a
// time-series chart gets one point per day.
func DailyTotals(txns []Transaction, start, end Date) []DayTotal {
	if start.IsZero() || end.IsZero() || start.After(end.Time) {
		return nil
	}
	income := make(map[string]decimal.Decimal)
	expense := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Date.Before(start.Time) || t.Date.After(end.Time) {
			continue
		}
		key := t.Date.String()
		switch t.Kind {
		case Income:
			income[key] = income[key].Add(t.Amount)
		case Expense:
			expense[key] = expense[key].Add(t.Amount)
		}
	}
	var days []DayTotal
	for d := start; !d.After(end.Time); d = (Date{Time: d.AddDate(0, 0, 1)}) {
		key := d.String()
		days = append(days, DayTotal{Date: d, Income: income[key], Expense: expense[key]})
	}
	return days
}
