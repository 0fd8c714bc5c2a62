// Package remote defines the boundary to the hosted store that holds the
// durable copy of the user's data. Implementations live in the rest, sheets,
// sqlite and memory subpackages; all of them are scoped to the single
// authenticated owner.
package remote

import (
	"context"
	"errors"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
)

var (
	// ErrUnauthenticated is returned when a data operation is attempted
	// without an active session. For error reporting it is treated exactly
	// like any other remote failure.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned by update/delete when no row matches the
	// identifier.
	ErrNotFound = errors.New("not found")
)

// Ports for outbound adapters, one per resource. Update carries the full
// entity; adapters may persist it as a row patch. None of them compute
// derived fields (balances, spent/remaining); that stays on this side of
// the boundary.
type (
	TransactionStore interface {
		FetchTransactions(ctx context.Context) ([]core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryStore interface {
		FetchCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
		DeleteCategory(ctx context.Context, id string) error
	}

	AccountStore interface {
		FetchAccounts(ctx context.Context) ([]core.Account, error)
		CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
		UpdateAccount(ctx context.Context, a core.Account) (core.Account, error)
		DeleteAccount(ctx context.Context, id string) error
	}

	BudgetStore interface {
		FetchBudgets(ctx context.Context) ([]core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id string) error
	}

	// Store is the full adapter surface the session core talks to.
	Store interface {
		TransactionStore
		CategoryStore
		AccountStore
		BudgetStore
	}
)
