// Package memory is an in-memory remote.Store. It is the development
// default and doubles as the fake in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
)

// Store keeps every collection in process memory. Client-chosen identifiers
// are respected so optimistic rows reconcile to themselves; rows arriving
// without one get a UUID.
type Store struct {
	mu           sync.RWMutex
	transactions []core.Transaction
	categories   []core.Category
	accounts     []core.Account
	budgets      []core.Budget
}

var _ remote.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == t.ID {
			t.CreatedAt = s.transactions[i].CreatedAt
			t.UpdatedAt = time.Now().UTC()
			s.transactions[i] = t
			return t, nil
		}
	}
	return core.Transaction{}, remote.ErrNotFound
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return remote.ErrNotFound
}

func (s *Store) FetchCategories(ctx context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			c.CreatedAt = s.categories[i].CreatedAt
			c.UpdatedAt = time.Now().UTC()
			s.categories[i] = c
			return c, nil
		}
	}
	return core.Category{}, remote.ErrNotFound
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return remote.ErrNotFound
}

func (s *Store) FetchAccounts(ctx context.Context) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == a.ID {
			a.CreatedAt = s.accounts[i].CreatedAt
			a.UpdatedAt = time.Now().UTC()
			s.accounts[i] = a
			return a, nil
		}
	}
	return core.Account{}, remote.ErrNotFound
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return remote.ErrNotFound
}

func (s *Store) FetchBudgets(ctx context.Context) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out, nil
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == b.ID {
			b.CreatedAt = s.budgets[i].CreatedAt
			b.UpdatedAt = time.Now().UTC()
			s.budgets[i] = b
			return b, nil
		}
	}
	return core.Budget{}, remote.ErrNotFound
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return remote.ErrNotFound
}

func stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
