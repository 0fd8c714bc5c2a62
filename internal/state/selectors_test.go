package state

import (
	"testing"
	"time"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
)

// marchState filters monthly on March 2024 and carries the scenario data the
// aggregate selectors are checked against.
func marchState(t *testing.T) State {
	t.Helper()
	s := New(core.NewDate(2024, time.March, 15))
	s = Apply(s, SetTransactions{Items: []core.Transaction{
		{ID: "t1", Kind: core.Income, Amount: amt(t, "2000"), Category: "Salary", Account: "Cash", Date: core.NewDate(2024, time.March, 1)},
		{ID: "t2", Kind: core.Expense, Amount: amt(t, "50"), Category: "Food", Account: "Cash", Date: core.NewDate(2024, time.March, 15), Note: "groceries run"},
		{ID: "t3", Kind: core.Expense, Amount: amt(t, "75"), Category: "Food", Account: "Cash", Date: core.NewDate(2024, time.April, 2)},
		{ID: "t4", Kind: core.Transfer, Amount: amt(t, "300"), FromAccount: "Cash", ToAccount: "Savings", Date: core.NewDate(2024, time.March, 20)},
	}})
	s = Apply(s, SetCategories{Items: []core.Category{
		{ID: "c1", Name: "Food", Kind: core.CategoryExpense},
		{ID: "c2", Name: "Salary", Kind: core.CategoryIncome},
	}})
	s = Apply(s, SetAccounts{Items: []core.Account{
		{ID: "a1", Name: "Cash", InitialBalance: amt(t, "100")},
	}})
	s = Apply(s, SetBudgets{Items: []core.Budget{
		{ID: "b1", CategoryID: "c1", Month: core.NewYearMonth(2024, time.March), Limit: amt(t, "200")},
	}})
	return s
}

func TestFilteredTransactionsDateRange(t *testing.T) {
	s := marchState(t)

	got := FilteredTransactions(s)
	if len(got) != 3 {
		t.Fatalf("expected 3 transactions in March, got %d: %v", len(got), got)
	}
	for _, tx := range got {
		if tx.ID == "t3" {
			t.Fatalf("April transaction leaked into March filter")
		}
	}

	// Inclusive on both ends.
	s = Apply(s, AddTransaction{Item: core.Transaction{ID: "t5", Kind: core.Expense, Amount: amt(t, "1"), Category: "Food", Account: "Cash", Date: core.NewDate(2024, time.March, 31)}})
	if got := FilteredTransactions(s); len(got) != 4 {
		t.Fatalf("expected the range end to be inclusive, got %d", len(got))
	}
}

func TestFilteredTransactionsQuery(t *testing.T) {
	s := marchState(t)

	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"note match (case-insensitive)", "GROCERIES", []string{"t2"}},
		{"category match", "sal", []string{"t1"}},
		{"note or category", "food", []string{"t2"}},
		{"no note and no category never match", "savings", nil},
		{"empty query keeps the range subset", "", []string{"t1", "t2", "t4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.query
			filtered := Apply(s, PatchFilter{Patch: FilterPatch{Query: &q}})
			got := FilteredTransactions(filtered)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d matches, got %d: %v", len(tc.want), len(got), got)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("expected %s at position %d, got %s", id, i, got[i].ID)
				}
			}
		})
	}
}

func TestCurrentPeriodLabel(t *testing.T) {
	s := marchState(t)
	if got := CurrentPeriodLabel(s); got != "March 2024" {
		t.Fatalf("expected label March 2024, got %q", got)
	}
	weekly := core.PeriodWeekly
	s = Apply(s, PatchFilter{Patch: FilterPatch{Period: &weekly}})
	if got := CurrentPeriodLabel(s); got != "Mar 10, 2024 - Mar 16, 2024" {
		t.Fatalf("unexpected weekly label %q", got)
	}
}

func TestCategoriesByKindScoped(t *testing.T) {
	s := marchState(t)
	expense := CategoriesByKind(s, core.CategoryExpense)
	if len(expense) != 1 || expense[0].Name != "Food" {
		t.Fatalf("unexpected expense categories: %v", expense)
	}
	income := CategoriesByKind(s, core.CategoryIncome)
	if len(income) != 1 || income[0].Name != "Salary" {
		t.Fatalf("unexpected income categories: %v", income)
	}
}

func TestFilteredTotalsScenario(t *testing.T) {
	s := marchState(t)
	totals := FilteredTotals(s)
	if !totals.Income.Equal(amt(t, "2000")) || !totals.Expense.Equal(amt(t, "50")) || !totals.Balance.Equal(amt(t, "1950")) {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestAccountBalancesUseFilteredSet(t *testing.T) {
	s := marchState(t)
	balances := AccountBalances(s)
	if len(balances) != 1 {
		t.Fatalf("expected one account, got %d", len(balances))
	}
	// 100 initial + 2000 income - 50 expense; the April expense is filtered
	// out and the transfer does not move the balance.
	if !balances[0].Balance.Equal(amt(t, "2050")) {
		t.Fatalf("expected balance 2050, got %s", balances[0].Balance)
	}
}

func TestBudgetStatuses(t *testing.T) {
	s := marchState(t)

	statuses := BudgetStatuses(s)
	if len(statuses) != 1 {
		t.Fatalf("expected one budget, got %d", len(statuses))
	}
	b := statuses[0]
	if b.Category != "Food" || !b.Spent.Equal(amt(t, "50")) || !b.Remaining.Equal(amt(t, "150")) {
		t.Fatalf("unexpected budget status: %+v", b)
	}

	// Spending is anchored to the budget's own month even when the filter
	// looks elsewhere.
	moved := Apply(s, SetReferenceDate{Date: core.NewDate(2024, time.April, 10)})
	if got := BudgetStatuses(moved)[0]; !got.Spent.Equal(amt(t, "50")) {
		t.Fatalf("budget spent should not follow the filter, got %s", got.Spent)
	}

	// A budget whose category is gone reports zero spent.
	orphaned := Apply(s, RemoveCategory{ID: "c1"})
	if got := BudgetStatuses(orphaned)[0]; !got.Spent.IsZero() || !got.Remaining.Equal(amt(t, "200")) {
		t.Fatalf("orphaned budget should report zero spent: %+v", got)
	}
}
