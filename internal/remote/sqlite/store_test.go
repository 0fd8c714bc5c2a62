package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "wallet.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTransactionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTransaction(ctx, core.Transaction{
		Kind:     core.Expense,
		Amount:   decimal.RequireFromString("12.34"),
		Category: "Food",
		Account:  "Cash",
		Date:     core.NewDate(2024, time.March, 15),
		Note:     "lunch",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("create should stamp id and timestamps: %+v", created)
	}

	got, err := s.FetchTransactions(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("fetch: %v err=%v", got, err)
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("amount should round-trip exactly, got %s", got[0].Amount)
	}
	if got[0].Date.String() != "2024-03-15" || got[0].Note != "lunch" {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestFetchTransactionsOrdersByDateDesc(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, d := range []string{"2024-03-02", "2024-03-20", "2024-03-10"} {
		date, _ := core.ParseDate(d)
		if _, err := s.CreateTransaction(ctx, core.Transaction{
			Kind: core.Expense, Amount: decimal.NewFromInt(1), Category: "Misc", Account: "Cash", Date: date,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.FetchTransactions(ctx)
	if err != nil || len(got) != 3 {
		t.Fatalf("fetch: %v err=%v", got, err)
	}
	if got[0].Date.String() != "2024-03-20" || got[2].Date.String() != "2024-03-02" {
		t.Fatalf("expected date desc order, got %s %s %s", got[0].Date, got[1].Date, got[2].Date)
	}
}

func TestUpdateReturnsCanonicalRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateAccount(ctx, core.Account{Name: "Cash", InitialBalance: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Name = "Wallet"
	created.InitialBalance = decimal.RequireFromString("-42.5")
	updated, err := s.UpdateAccount(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Wallet" || !updated.InitialBalance.Equal(decimal.RequireFromString("-42.5")) {
		t.Fatalf("unexpected account: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update must not move created_at: %v vs %v", updated.CreatedAt, created.CreatedAt)
	}
}

func TestUpdateAndDeleteMissingReturnNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateCategory(ctx, core.Category{ID: "missing", Name: "Ghost", Kind: core.CategoryExpense})
	if !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "missing"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBudgetRoundTripAndUniqueMonth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBudget(ctx, core.Budget{
		CategoryID: "c1",
		Month:      core.NewYearMonth(2024, time.March),
		Limit:      decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FetchBudgets(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("fetch: %v err=%v", got, err)
	}
	if got[0].ID != created.ID || got[0].Month.String() != "2024-03" || !got[0].Limit.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected budget: %+v", got[0])
	}

	// Same category and month again trips the unique constraint.
	if _, err := s.CreateBudget(ctx, core.Budget{
		CategoryID: "c1",
		Month:      core.NewYearMonth(2024, time.March),
		Limit:      decimal.NewFromInt(300),
	}); err == nil {
		t.Fatalf("expected duplicate budget to fail")
	}

	// A different month is fine.
	if _, err := s.CreateBudget(ctx, core.Budget{
		CategoryID: "c1",
		Month:      core.NewYearMonth(2024, time.April),
		Limit:      decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("create for another month: %v", err)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, core.Category{Name: "Food", Kind: core.CategoryExpense})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.FetchCategories(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty table, got %v err=%v", got, err)
	}
}
