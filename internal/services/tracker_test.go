package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RhisavRay/Wallet-Wizard/internal/auth"
	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/events"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote/memory"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

// flakyStore wraps the in-memory store and fails selected operations.
type flakyStore struct {
	*memory.Store
	failCreateTransaction bool
	failDeleteTransaction bool
	failFetchTransactions bool
	failCreateBudget      bool
	budgetCreates         int
}

func (f *flakyStore) CreateTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	if f.failCreateTransaction {
		return core.Transaction{}, errors.New("remote store unavailable")
	}
	return f.Store.CreateTransaction(ctx, txn)
}

func (f *flakyStore) DeleteTransaction(ctx context.Context, id string) error {
	if f.failDeleteTransaction {
		return errors.New("remote store unavailable")
	}
	return f.Store.DeleteTransaction(ctx, id)
}

func (f *flakyStore) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	if f.failFetchTransactions {
		return nil, errors.New("remote store unavailable")
	}
	return f.Store.FetchTransactions(ctx)
}

func (f *flakyStore) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	f.budgetCreates++
	if f.failCreateBudget {
		return core.Budget{}, errors.New("remote store unavailable")
	}
	return f.Store.CreateBudget(ctx, b)
}

// blockingStore holds selected creates until release is closed, keeping the
// remote write in flight while the test inspects local state.
type blockingStore struct {
	*memory.Store
	release chan struct{}
}

func (b *blockingStore) CreateTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	<-b.release
	return b.Store.CreateTransaction(ctx, txn)
}

func (b *blockingStore) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	<-b.release
	return b.Store.CreateCategory(ctx, c)
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []events.Change
}

func (p *recordingPublisher) Publish(_ context.Context, c events.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) recorded() []events.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Change(nil), p.changes...)
}

func newTracker(rs remote.Store, pub events.Publisher) *Tracker {
	st := state.NewStore(state.New(core.NewDate(2024, time.March, 15)))
	return NewTracker(st, rs, auth.NewStaticProvider("tester"), pub)
}

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse amount %q: %v", s, err)
	}
	return d
}

func expenseTxn(t *testing.T) core.Transaction {
	t.Helper()
	return core.Transaction{
		Kind:     core.Expense,
		Amount:   amt(t, "12.50"),
		Category: "Food",
		Account:  "Cash",
		Date:     core.NewDate(2024, time.March, 15),
	}
}

func TestAddTransactionVisibleBeforeRemoteCompletes(t *testing.T) {
	rs := &blockingStore{Store: memory.New(), release: make(chan struct{})}
	tr := newTracker(rs, nil)
	ctx := context.Background()

	created, err := tr.AddTransaction(ctx, expenseTxn(t))
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a client-generated id")
	}

	// The remote create is still blocked; the row must already be local.
	snapshot := tr.State()
	if len(snapshot.Transactions) != 1 || snapshot.Transactions[0].ID != created.ID {
		t.Fatalf("expected optimistic row %s, got %+v", created.ID, snapshot.Transactions)
	}

	close(rs.release)
	tr.Wait()

	snapshot = tr.State()
	if len(snapshot.Transactions) != 1 || snapshot.Transactions[0].ID != created.ID {
		t.Fatalf("expected reconciled row %s, got %+v", created.ID, snapshot.Transactions)
	}
	if msg := snapshot.Errors[core.ResourceTransactions]; msg != "" {
		t.Fatalf("expected no resource error, got %q", msg)
	}
}

func TestAddTransactionRemoteFailureKeepsRow(t *testing.T) {
	rs := &flakyStore{Store: memory.New(), failCreateTransaction: true}
	tr := newTracker(rs, nil)
	ctx := context.Background()

	created, err := tr.AddTransaction(ctx, expenseTxn(t))
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	tr.Wait()

	snapshot := tr.State()
	if len(snapshot.Transactions) != 1 || snapshot.Transactions[0].ID != created.ID {
		t.Fatalf("expected the optimistic row to survive, got %+v", snapshot.Transactions)
	}
	if msg := snapshot.Errors[core.ResourceTransactions]; !strings.Contains(msg, "remote store unavailable") {
		t.Fatalf("expected resource error, got %q", msg)
	}
}

func TestAddTransactionValidationLeavesStateUntouched(t *testing.T) {
	tr := newTracker(memory.New(), nil)
	ctx := context.Background()

	invalid := expenseTxn(t)
	invalid.Category = ""

	rev := tr.Revision()
	if _, err := tr.AddTransaction(ctx, invalid); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	tr.Wait()
	if tr.Revision() != rev {
		t.Fatal("validation failure must not dispatch any action")
	}
	if n := len(tr.State().Transactions); n != 0 {
		t.Fatalf("expected no transactions, got %d", n)
	}
}

func TestMutationsRequireSession(t *testing.T) {
	provider := auth.NewStaticProvider("tester")
	st := state.NewStore(state.New(core.NewDate(2024, time.March, 15)))
	tr := NewTracker(st, memory.New(), provider, nil)
	ctx := context.Background()

	if err := provider.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := tr.AddTransaction(ctx, expenseTxn(t)); !errors.Is(err, remote.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	snapshot := tr.State()
	if n := len(snapshot.Transactions); n != 0 {
		t.Fatalf("expected no local row, got %d", n)
	}
	if snapshot.Errors[core.ResourceTransactions] == "" {
		t.Fatal("expected a resource error to be recorded")
	}
}

func TestUpdateTransactionReconcilesCanonicalRow(t *testing.T) {
	tr := newTracker(memory.New(), nil)
	ctx := context.Background()

	created, err := tr.AddTransaction(ctx, expenseTxn(t))
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	tr.Wait()

	edited := created
	edited.Note = "lunch with the team"
	edited.CreatedAt = time.Time{} // clients rarely echo server timestamps
	if err := tr.UpdateTransaction(ctx, edited); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	tr.Wait()

	snapshot := tr.State()
	if len(snapshot.Transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(snapshot.Transactions))
	}
	got := snapshot.Transactions[0]
	if got.Note != "lunch with the team" {
		t.Fatalf("expected updated note, got %q", got.Note)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected created_at %v to survive the update, got %v", created.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateTransactionRequiresID(t *testing.T) {
	tr := newTracker(memory.New(), nil)
	if err := tr.UpdateTransaction(context.Background(), expenseTxn(t)); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestDeleteTransactionStaysRemovedOnRemoteFailure(t *testing.T) {
	rs := &flakyStore{Store: memory.New()}
	tr := newTracker(rs, nil)
	ctx := context.Background()

	created, err := tr.AddTransaction(ctx, expenseTxn(t))
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	tr.Wait()

	rs.failDeleteTransaction = true
	if err := tr.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if n := len(tr.State().Transactions); n != 0 {
		t.Fatalf("expected immediate local removal, got %d rows", n)
	}
	tr.Wait()

	snapshot := tr.State()
	if n := len(snapshot.Transactions); n != 0 {
		t.Fatalf("expected the removal to stick, got %d rows", n)
	}
	if snapshot.Errors[core.ResourceTransactions] == "" {
		t.Fatal("expected a resource error after the remote delete failed")
	}
}

func TestAddCategoryUsableBeforeRemoteCompletes(t *testing.T) {
	rs := &blockingStore{Store: memory.New(), release: make(chan struct{})}
	tr := newTracker(rs, nil)
	ctx := context.Background()

	created, err := tr.AddCategory(ctx, core.Category{Name: "Food", Kind: core.CategoryExpense})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	// The category's remote write is still blocked, yet a budget can
	// already reference it because the rules read the local snapshot.
	budget := core.Budget{
		CategoryID: created.ID,
		Month:      core.NewYearMonth(2024, time.March),
		Limit:      amt(t, "200"),
	}
	createdBudget, err := tr.AddBudget(ctx, budget)
	if err != nil {
		t.Fatalf("AddBudget: %v", err)
	}

	close(rs.release)
	tr.Wait()

	snapshot := tr.State()
	if len(snapshot.Budgets) != 1 || snapshot.Budgets[0].ID != createdBudget.ID {
		t.Fatalf("expected budget %s, got %+v", createdBudget.ID, snapshot.Budgets)
	}
	if snapshot.Budgets[0].CategoryID != created.ID {
		t.Fatalf("expected budget to reference %s, got %s", created.ID, snapshot.Budgets[0].CategoryID)
	}
}

func TestAddBudgetRules(t *testing.T) {
	rs := &flakyStore{Store: memory.New()}
	tr := newTracker(rs, nil)
	ctx := context.Background()

	food, err := tr.AddCategory(ctx, core.Category{Name: "Food", Kind: core.CategoryExpense})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	salary, err := tr.AddCategory(ctx, core.Category{Name: "Salary", Kind: core.CategoryIncome})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	tr.Wait()

	march := core.NewYearMonth(2024, time.March)
	if _, err := tr.AddBudget(ctx, core.Budget{CategoryID: food.ID, Month: march, Limit: amt(t, "200")}); err != nil {
		t.Fatalf("AddBudget: %v", err)
	}

	cases := []struct {
		name   string
		budget core.Budget
		want   error
	}{
		{
			name:   "unknown category",
			budget: core.Budget{CategoryID: "nope", Month: march, Limit: amt(t, "50")},
			want:   ErrUnknownCategory,
		},
		{
			name:   "income category",
			budget: core.Budget{CategoryID: salary.ID, Month: march, Limit: amt(t, "50")},
			want:   ErrNotExpenseCategory,
		},
		{
			name:   "duplicate month",
			budget: core.Budget{CategoryID: food.ID, Month: march, Limit: amt(t, "50")},
			want:   ErrDuplicateBudget,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rev := tr.Revision()
			creates := rs.budgetCreates
			if _, err := tr.AddBudget(ctx, tc.budget); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tr.Revision() != rev {
				t.Fatal("rejected budget must not change state")
			}
			if rs.budgetCreates != creates {
				t.Fatal("rejected budget must not reach the remote store")
			}
		})
	}
}

func TestAddBudgetRemoteFailureLeavesNoRow(t *testing.T) {
	rs := &flakyStore{Store: memory.New()}
	tr := newTracker(rs, nil)
	ctx := context.Background()

	food, err := tr.AddCategory(ctx, core.Category{Name: "Food", Kind: core.CategoryExpense})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	tr.Wait()

	rs.failCreateBudget = true
	budget := core.Budget{CategoryID: food.ID, Month: core.NewYearMonth(2024, time.March), Limit: amt(t, "200")}
	if _, err := tr.AddBudget(ctx, budget); err == nil {
		t.Fatal("expected the budget create to fail")
	}
	if rs.budgetCreates != 1 {
		t.Fatalf("expected one remote attempt, got %d", rs.budgetCreates)
	}

	snapshot := tr.State()
	if n := len(snapshot.Budgets); n != 0 {
		t.Fatalf("expected no local budget after a remote failure, got %d", n)
	}
	if snapshot.Errors[core.ResourceBudgets] == "" {
		t.Fatal("expected a resource error to be recorded")
	}
}

func TestUpdateBudgetKeepsItsOwnSlot(t *testing.T) {
	tr := newTracker(memory.New(), nil)
	ctx := context.Background()

	food, err := tr.AddCategory(ctx, core.Category{Name: "Food", Kind: core.CategoryExpense})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	tr.Wait()

	created, err := tr.AddBudget(ctx, core.Budget{
		CategoryID: food.ID,
		Month:      core.NewYearMonth(2024, time.March),
		Limit:      amt(t, "200"),
	})
	if err != nil {
		t.Fatalf("AddBudget: %v", err)
	}

	created.Limit = amt(t, "250")
	if err := tr.UpdateBudget(ctx, created); err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}

	snapshot := tr.State()
	if len(snapshot.Budgets) != 1 {
		t.Fatalf("expected one budget, got %d", len(snapshot.Budgets))
	}
	if !snapshot.Budgets[0].Limit.Equal(amt(t, "250")) {
		t.Fatalf("expected limit 250, got %s", snapshot.Budgets[0].Limit)
	}
}

func TestLoadAllKeepsResourcesIndependent(t *testing.T) {
	rs := &flakyStore{Store: memory.New(), failFetchTransactions: true}
	ctx := context.Background()
	if _, err := rs.Store.CreateCategory(ctx, core.Category{Name: "Food", Kind: core.CategoryExpense}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := rs.Store.CreateAccount(ctx, core.Account{Name: "Cash", InitialBalance: amt(t, "100")}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	tr := newTracker(rs, nil)
	if err := tr.LoadAll(ctx); err == nil {
		t.Fatal("expected LoadAll to report the transaction fetch failure")
	}

	snapshot := tr.State()
	if snapshot.Errors[core.ResourceTransactions] == "" {
		t.Fatal("expected a transactions error")
	}
	if msg := snapshot.Errors[core.ResourceCategories]; msg != "" {
		t.Fatalf("expected categories to load cleanly, got error %q", msg)
	}
	if len(snapshot.Categories) != 1 || len(snapshot.Accounts) != 1 {
		t.Fatalf("expected the other resources to load, got %d categories and %d accounts",
			len(snapshot.Categories), len(snapshot.Accounts))
	}
	for _, r := range core.Resources() {
		if snapshot.Loading[r] {
			t.Fatalf("expected loading flag for %s to be cleared", r)
		}
	}
}

func TestLoadAllUnauthenticated(t *testing.T) {
	provider := auth.NewStaticProvider("tester")
	st := state.NewStore(state.New(core.NewDate(2024, time.March, 15)))
	tr := NewTracker(st, memory.New(), provider, nil)
	ctx := context.Background()

	if err := provider.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if err := tr.LoadAll(ctx); !errors.Is(err, remote.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	snapshot := tr.State()
	for _, r := range core.Resources() {
		if snapshot.Errors[r] == "" {
			t.Fatalf("expected an error for %s", r)
		}
	}
}

func TestSignOutClearsDataKeepsFilter(t *testing.T) {
	tr := newTracker(memory.New(), nil)
	ctx := context.Background()

	if _, err := tr.AddTransaction(ctx, expenseTxn(t)); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	tr.Wait()

	query := "coffee"
	tr.PatchFilter(state.FilterPatch{Query: &query})

	if err := tr.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	snapshot := tr.State()
	if len(snapshot.Transactions)+len(snapshot.Categories)+len(snapshot.Accounts)+len(snapshot.Budgets) != 0 {
		t.Fatalf("expected all collections cleared, got %+v", snapshot)
	}
	if snapshot.Filter.Query != "coffee" {
		t.Fatalf("expected the filter to survive sign-out, got query %q", snapshot.Filter.Query)
	}
	if _, err := tr.AddTransaction(ctx, expenseTxn(t)); !errors.Is(err, remote.ErrUnauthenticated) {
		t.Fatalf("expected mutations to fail after sign-out, got %v", err)
	}
}

func TestPublisherReceivesChanges(t *testing.T) {
	pub := &recordingPublisher{}
	tr := newTracker(memory.New(), pub)
	ctx := context.Background()

	created, err := tr.AddTransaction(ctx, expenseTxn(t))
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	tr.Wait()
	if err := tr.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	tr.Wait()

	changes := pub.recorded()
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d: %+v", len(changes), changes)
	}
	if changes[0].Op != events.OpCreate || changes[0].ID != created.ID || changes[0].Resource != core.ResourceTransactions {
		t.Fatalf("unexpected first change: %+v", changes[0])
	}
	if changes[1].Op != events.OpDelete || changes[1].ID != created.ID {
		t.Fatalf("unexpected second change: %+v", changes[1])
	}
}
