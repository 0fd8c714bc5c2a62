package state

import "github.com/RhisavRay/Wallet-Wizard/internal/core"

// Apply returns the state after one action. It is pure: the same state and
// action always yield the same result, and the input state (including its
// slices and maps) is never mutated, so snapshots taken earlier stay valid.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case SetTransactions:
		s.Transactions = cloneSlice(a.Items)
	case SetCategories:
		s.Categories = cloneSlice(a.Items)
	case SetAccounts:
		s.Accounts = cloneSlice(a.Items)
	case SetBudgets:
		s.Budgets = cloneSlice(a.Items)

	case AddTransaction:
		s.Transactions = prepend(s.Transactions, a.Item)
	case AddCategory:
		s.Categories = appendOne(s.Categories, a.Item)
	case AddAccount:
		s.Accounts = appendOne(s.Accounts, a.Item)
	case AddBudget:
		s.Budgets = appendOne(s.Budgets, a.Item)

	case UpdateTransaction:
		s.Transactions = replaceByID(s.Transactions, a.Item, transactionID)
	case UpdateCategory:
		s.Categories = replaceByID(s.Categories, a.Item, categoryID)
	case UpdateAccount:
		s.Accounts = replaceByID(s.Accounts, a.Item, accountID)
	case UpdateBudget:
		s.Budgets = replaceByID(s.Budgets, a.Item, budgetID)

	case RemoveTransaction:
		s.Transactions = removeByID(s.Transactions, a.ID, transactionID)
	case RemoveCategory:
		s.Categories = removeByID(s.Categories, a.ID, categoryID)
	case RemoveAccount:
		s.Accounts = removeByID(s.Accounts, a.ID, accountID)
	case RemoveBudget:
		s.Budgets = removeByID(s.Budgets, a.ID, budgetID)

	case PatchFilter:
		f := s.Filter
		if a.Patch.Period != nil {
			f.Period = *a.Patch.Period
		}
		if a.Patch.ShowBalance != nil {
			f.ShowBalance = *a.Patch.ShowBalance
		}
		if a.Patch.CarryOver != nil {
			f.CarryOver = *a.Patch.CarryOver
		}
		if a.Patch.Query != nil {
			f.Query = *a.Patch.Query
		}
		s.Filter = resolveRange(f)

	case SetReferenceDate:
		f := s.Filter
		f.ReferenceDate = a.Date
		s.Filter = resolveRange(f)

	case SetLoading:
		loading := cloneMap(s.Loading)
		loading[a.Resource] = a.Loading
		s.Loading = loading

	case SetResourceError:
		errs := cloneMap(s.Errors)
		if a.Message == "" {
			delete(errs, a.Resource)
		} else {
			errs[a.Resource] = a.Message
		}
		s.Errors = errs
	}
	return s
}

func resolveRange(f Filter) Filter {
	f.StartDate, f.EndDate = core.PeriodRange(f.Period, f.ReferenceDate)
	return f
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func cloneMap[V any](src map[core.Resource]V) map[core.Resource]V {
	dst := make(map[core.Resource]V, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func appendOne[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func replaceByID[T any](items []T, item T, idOf func(T) string) []T {
	out := cloneSlice(items)
	id := idOf(item)
	for i := range out {
		if idOf(out[i]) == id {
			out[i] = item
		}
	}
	return out
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

func transactionID(t core.Transaction) string { return t.ID }
func categoryID(c core.Category) string       { return c.ID }
func accountID(a core.Account) string         { return a.ID }
func budgetID(b core.Budget) string           { return b.ID }
