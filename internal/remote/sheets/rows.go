package sheets

import (
	"time"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
)

// Tab layouts. Column A is always the identifier.
//
//	Transactions: id kind amount category account from_account to_account date note created_at updated_at
//	Categories:   id name kind created_at updated_at
//	Accounts:     id name initial_balance created_at updated_at
//	Budgets:      id category_id month limit created_at updated_at
//
// Parsing is best-effort: rows missing required cells or with unparseable
// amounts/dates are skipped, never fatal. Cleared (blank) rows fall out the
// same way.

func transactionToRow(t core.Transaction) []any {
	return []any{
		t.ID, string(t.Kind), t.Amount.String(),
		t.Category, t.Account, t.FromAccount, t.ToAccount,
		t.Date.String(), t.Note,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	}
}

func rowToTransaction(cols []string) (core.Transaction, bool) {
	id := safeGet(cols, 0)
	kind := core.TransactionKind(safeGet(cols, 1))
	if id == "" || !kind.IsValid() {
		return core.Transaction{}, false
	}
	amount, err := core.ParseAmount(safeGet(cols, 2))
	if err != nil {
		return core.Transaction{}, false
	}
	date, err := core.ParseDate(safeGet(cols, 7))
	if err != nil {
		return core.Transaction{}, false
	}
	return core.Transaction{
		ID:          id,
		Kind:        kind,
		Amount:      amount,
		Category:    safeGet(cols, 3),
		Account:     safeGet(cols, 4),
		FromAccount: safeGet(cols, 5),
		ToAccount:   safeGet(cols, 6),
		Date:        date,
		Note:        safeGet(cols, 8),
		CreatedAt:   parseTime(safeGet(cols, 9)),
		UpdatedAt:   parseTime(safeGet(cols, 10)),
	}, true
}

func categoryToRow(c core.Category) []any {
	return []any{c.ID, c.Name, string(c.Kind), formatTime(c.CreatedAt), formatTime(c.UpdatedAt)}
}

func rowToCategory(cols []string) (core.Category, bool) {
	id := safeGet(cols, 0)
	name := safeGet(cols, 1)
	kind := core.CategoryKind(safeGet(cols, 2))
	if id == "" || name == "" || !kind.IsValid() {
		return core.Category{}, false
	}
	return core.Category{
		ID:        id,
		Name:      name,
		Kind:      kind,
		CreatedAt: parseTime(safeGet(cols, 3)),
		UpdatedAt: parseTime(safeGet(cols, 4)),
	}, true
}

func accountToRow(a core.Account) []any {
	return []any{a.ID, a.Name, a.InitialBalance.String(), formatTime(a.CreatedAt), formatTime(a.UpdatedAt)}
}

func rowToAccount(cols []string) (core.Account, bool) {
	id := safeGet(cols, 0)
	name := safeGet(cols, 1)
	if id == "" || name == "" {
		return core.Account{}, false
	}
	balance, err := core.ParseSignedAmount(safeGet(cols, 2))
	if err != nil {
		return core.Account{}, false
	}
	return core.Account{
		ID:             id,
		Name:           name,
		InitialBalance: balance,
		CreatedAt:      parseTime(safeGet(cols, 3)),
		UpdatedAt:      parseTime(safeGet(cols, 4)),
	}, true
}

func budgetToRow(b core.Budget) []any {
	return []any{b.ID, b.CategoryID, b.Month.String(), b.Limit.String(), formatTime(b.CreatedAt), formatTime(b.UpdatedAt)}
}

func rowToBudget(cols []string) (core.Budget, bool) {
	id := safeGet(cols, 0)
	categoryID := safeGet(cols, 1)
	if id == "" || categoryID == "" {
		return core.Budget{}, false
	}
	month, err := core.ParseYearMonth(safeGet(cols, 2))
	if err != nil {
		return core.Budget{}, false
	}
	limit, err := core.ParseAmount(safeGet(cols, 3))
	if err != nil {
		return core.Budget{}, false
	}
	return core.Budget{
		ID:         id,
		CategoryID: categoryID,
		Month:      month,
		Limit:      limit,
		CreatedAt:  parseTime(safeGet(cols, 4)),
		UpdatedAt:  parseTime(safeGet(cols, 5)),
	}, true
}

func safeGet(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return cols[idx]
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTime is best-effort; timestamps are informational in the sheet.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
