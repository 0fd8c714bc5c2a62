package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/events"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// AddTransaction validates, applies the transaction locally and forwards the
// create in the background. The returned value carries the client-generated
// ID so callers can reference the row before the remote write completes.
func (t *Tracker) AddTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := t.gate(ctx, core.ResourceTransactions, "create"); err != nil {
		return core.Transaction{}, err
	}
	now := time.Now().UTC()
	txn.ID = uuid.NewString()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	t.store.Dispatch(state.AddTransaction{Item: txn})
	t.forward(core.ResourceTransactions, events.OpCreate, txn.ID, func(ctx context.Context) (state.Action, error) {
		canonical, err := t.remote.CreateTransaction(ctx, txn)
		if err != nil {
			return nil, err
		}
		return state.UpdateTransaction{Item: canonical}, nil
	})
	return txn, nil
}

func (t *Tracker) UpdateTransaction(ctx context.Context, txn core.Transaction) error {
	if strings.TrimSpace(txn.ID) == "" {
		return ErrMissingID
	}
	if err := txn.Validate(); err != nil {
		return err
	}
	if err := t.gate(ctx, core.ResourceTransactions, "update"); err != nil {
		return err
	}
	if txn.CreatedAt.IsZero() {
		for _, existing := range t.store.State().Transactions {
			if existing.ID == txn.ID {
				txn.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	txn.UpdatedAt = time.Now().UTC()
	t.store.Dispatch(state.UpdateTransaction{Item: txn})
	t.forward(core.ResourceTransactions, events.OpUpdate, txn.ID, func(ctx context.Context) (state.Action, error) {
		canonical, err := t.remote.UpdateTransaction(ctx, txn)
		if err != nil {
			return nil, err
		}
		return state.UpdateTransaction{Item: canonical}, nil
	})
	return nil
}

func (t *Tracker) DeleteTransaction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := t.gate(ctx, core.ResourceTransactions, "delete"); err != nil {
		return err
	}
	t.store.Dispatch(state.RemoveTransaction{ID: id})
	t.forward(core.ResourceTransactions, events.OpDelete, id, func(ctx context.Context) (state.Action, error) {
		return nil, t.remote.DeleteTransaction(ctx, id)
	})
	return nil
}

// AddCategory returns the created category immediately so callers can select
// it (the inline create-and-pick flow on the transaction form).
func (t *Tracker) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := t.gate(ctx, core.ResourceCategories, "create"); err != nil {
		return core.Category{}, err
	}
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	t.store.Dispatch(state.AddCategory{Item: c})
	t.forward(core.ResourceCategories, events.OpCreate, c.ID, func(ctx context.Context) (state.Action, error) {
		canonical, err := t.remote.CreateCategory(ctx, c)
		if err != nil {
			return nil, err
		}
		return state.UpdateCategory{Item: canonical}, nil
	})
	return c, nil
}

func (t *Tracker) UpdateCategory(ctx context.Context, c core.Category) error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrMissingID
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := t.gate(ctx, core.ResourceCategories, "update"); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		for _, existing := range t.store.State().Categories {
			if existing.ID == c.ID {
				c.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	c.UpdatedAt = time.Now().UTC()
	t.store.Dispatch(state.UpdateCategory{Item: c})
	t.forward(core.ResourceCategories, events.OpUpdate, c.ID, func(ctx context.Context) (state.Action, error) {
		canonical, err := t.remote.UpdateCategory(ctx, c)
		if err != nil {
			return nil, err
		}
		return state.UpdateCategory{Item: canonical}, nil
	})
	return nil
}

// DeleteCategory removes only the category row. Transactions that reference
// the name keep it and budgets keep the dangling category id; see the
// selectors for how both read sides handle that.
func (t *Tracker) DeleteCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := t.gate(ctx, core.ResourceCategories, "delete"); err != nil {
		return err
	}
	t.store.Dispatch(state.RemoveCategory{ID: id})
	t.forward(core.ResourceCategories, events.OpDelete, id, func(ctx context.Context) (state.Action, error) {
		return nil, t.remote.DeleteCategory(ctx, id)
	})
	return nil
}

func (t *Tracker) AddAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := t.gate(ctx, core.ResourceAccounts, "create"); err != nil {
		return core.Account{}, err
	}
	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	t.store.Dispatch(state.AddAccount{Item: a})
	t.forward(core.ResourceAccounts, events.OpCreate, a.ID, func(ctx context.Context) (state.Action, error) {
		canonical, err := t.remote.CreateAccount(ctx, a)
		if err != nil {
			return nil, err
		}
		return state.UpdateAccount{Item: canonical}, nil
	})
	return a, nil
}

func (t *Tracker) UpdateAccount(ctx context.Context, a core.Account) error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrMissingID
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := t.gate(ctx, core.ResourceAccounts, "update"); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		for _, existing := range t.store.State().Accounts {
			if existing.ID == a.ID {
				a.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	a.UpdatedAt = time.Now().UTC()
	t.store.Dispatch(state.UpdateAccount{Item: a})
	t.forward(core.ResourceAccounts, events.OpUpdate, a.ID, func(ctx context.Context) (state.Action, error) {
		canonical, err := t.remote.UpdateAccount(ctx, a)
		if err != nil {
			return nil, err
		}
		return state.UpdateAccount{Item: canonical}, nil
	})
	return nil
}

func (t *Tracker) DeleteAccount(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := t.gate(ctx, core.ResourceAccounts, "delete"); err != nil {
		return err
	}
	t.store.Dispatch(state.RemoveAccount{ID: id})
	t.forward(core.ResourceAccounts, events.OpDelete, id, func(ctx context.Context) (state.Action, error) {
		return nil, t.remote.DeleteAccount(ctx, id)
	})
	return nil
}

// AddBudget is pessimistic: the rules are checked against the current
// snapshot, the remote write runs synchronously, and only the canonical row
// reaches the state. Nothing changes locally on failure.
func (t *Tracker) AddBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := t.checkBudgetRules(b); err != nil {
		return core.Budget{}, err
	}
	if err := t.gate(ctx, core.ResourceBudgets, "create"); err != nil {
		return core.Budget{}, err
	}
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	canonical, err := t.remote.CreateBudget(ctx, b)
	if err != nil {
		t.fail(ctx, core.ResourceBudgets, "create", err)
		return core.Budget{}, err
	}
	t.store.Dispatch(state.AddBudget{Item: canonical})
	t.clearError(core.ResourceBudgets)
	t.publish(ctx, core.ResourceBudgets, events.OpCreate, canonical.ID)
	return canonical, nil
}

func (t *Tracker) UpdateBudget(ctx context.Context, b core.Budget) error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrMissingID
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if err := t.checkBudgetRules(b); err != nil {
		return err
	}
	if err := t.gate(ctx, core.ResourceBudgets, "update"); err != nil {
		return err
	}
	b.UpdatedAt = time.Now().UTC()
	canonical, err := t.remote.UpdateBudget(ctx, b)
	if err != nil {
		t.fail(ctx, core.ResourceBudgets, "update", err)
		return err
	}
	t.store.Dispatch(state.UpdateBudget{Item: canonical})
	t.clearError(core.ResourceBudgets)
	t.publish(ctx, core.ResourceBudgets, events.OpUpdate, canonical.ID)
	return nil
}

func (t *Tracker) DeleteBudget(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := t.gate(ctx, core.ResourceBudgets, "delete"); err != nil {
		return err
	}
	if err := t.remote.DeleteBudget(ctx, id); err != nil {
		t.fail(ctx, core.ResourceBudgets, "delete", err)
		return err
	}
	t.store.Dispatch(state.RemoveBudget{ID: id})
	t.clearError(core.ResourceBudgets)
	t.publish(ctx, core.ResourceBudgets, events.OpDelete, id)
	return nil
}

// checkBudgetRules enforces the budget invariants against the current
// snapshot: the category must exist, be an expense category, and carry at
// most one budget per month. Rows sharing the budget's own ID are ignored
// so updates can keep their slot.
func (t *Tracker) checkBudgetRules(b core.Budget) error {
	snapshot := t.store.State()
	var category *core.Category
	for i := range snapshot.Categories {
		if snapshot.Categories[i].ID == b.CategoryID {
			category = &snapshot.Categories[i]
			break
		}
	}
	if category == nil {
		return ErrUnknownCategory
	}
	if category.Kind != core.CategoryExpense {
		return ErrNotExpenseCategory
	}
	for _, existing := range snapshot.Budgets {
		if existing.ID != b.ID && existing.CategoryID == b.CategoryID && existing.Month == b.Month {
			return ErrDuplicateBudget
		}
	}
	return nil
}
