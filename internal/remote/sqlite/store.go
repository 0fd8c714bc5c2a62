// Package sqlite implements remote.Store on a local SQLite file for the
// self-hosted mode. Amounts, dates and months are stored as text so decimal
// values round-trip exactly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
)

type Store struct {
	db *sql.DB
}

var _ remote.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, amount, category, account, from_account, to_account, date, note, created_at, updated_at
		FROM transactions
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, kind, amount, category, account, from_account, to_account, date, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Kind), t.Amount.String(), t.Category, t.Account, t.FromAccount, t.ToAccount,
		t.Date.String(), t.Note, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET kind = ?, amount = ?, category = ?, account = ?, from_account = ?, to_account = ?, date = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		string(t.Kind), t.Amount.String(), t.Category, t.Account, t.FromAccount, t.ToAccount,
		t.Date.String(), t.Note, formatTime(time.Now().UTC()), t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := checkAffected(res, "transactions", t.ID); err != nil {
		return core.Transaction{}, err
	}
	return s.getTransaction(ctx, t.ID)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return checkAffected(res, "transactions", id)
}

func (s *Store) getTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, amount, category, account, from_account, to_account, date, note, created_at, updated_at
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transactions %s: %w", id, remote.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func scanTransaction(r rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date, createdAt, updatedAt string
	if err := r.Scan(&t.ID, &t.Kind, &t.Amount, &t.Category, &t.Account, &t.FromAccount, &t.ToAccount,
		&date, &t.Note, &createdAt, &updatedAt); err != nil {
		return core.Transaction{}, err
	}
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.Date = parsed
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func (s *Store) FetchCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, created_at, updated_at
		FROM categories
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, kind, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Kind), formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, kind = ?, updated_at = ? WHERE id = ?`,
		c.Name, string(c.Kind), formatTime(time.Now().UTC()), c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if err := checkAffected(res, "categories", c.ID); err != nil {
		return core.Category{}, err
	}
	return s.getCategory(ctx, c.ID)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return checkAffected(res, "categories", id)
}

func (s *Store) getCategory(ctx context.Context, id string) (core.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, kind, created_at, updated_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("categories %s: %w", id, remote.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func scanCategory(r rowScanner) (core.Category, error) {
	var c core.Category
	var createdAt, updatedAt string
	if err := r.Scan(&c.ID, &c.Name, &c.Kind, &createdAt, &updatedAt); err != nil {
		return core.Category{}, err
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

func (s *Store) FetchAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, initial_balance, created_at, updated_at
		FROM accounts
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, initial_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.InitialBalance.String(), formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, initial_balance = ?, updated_at = ? WHERE id = ?`,
		a.Name, a.InitialBalance.String(), formatTime(time.Now().UTC()), a.ID)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", err)
	}
	if err := checkAffected(res, "accounts", a.ID); err != nil {
		return core.Account{}, err
	}
	return s.getAccount(ctx, a.ID)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return checkAffected(res, "accounts", id)
}

func (s *Store) getAccount(ctx context.Context, id string) (core.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, initial_balance, created_at, updated_at FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("accounts %s: %w", id, remote.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func scanAccount(r rowScanner) (core.Account, error) {
	var a core.Account
	var createdAt, updatedAt string
	if err := r.Scan(&a.ID, &a.Name, &a.InitialBalance, &createdAt, &updatedAt); err != nil {
		return core.Account{}, err
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

func (s *Store) FetchBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, month, limit_amount, created_at, updated_at
		FROM budgets
		ORDER BY month DESC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	stamp(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, category_id, month, limit_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.CategoryID, b.Month.String(), b.Limit.String(), formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	return b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE budgets SET category_id = ?, month = ?, limit_amount = ?, updated_at = ? WHERE id = ?`,
		b.CategoryID, b.Month.String(), b.Limit.String(), formatTime(time.Now().UTC()), b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if err := checkAffected(res, "budgets", b.ID); err != nil {
		return core.Budget{}, err
	}
	return s.getBudget(ctx, b.ID)
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return checkAffected(res, "budgets", id)
}

func (s *Store) getBudget(ctx context.Context, id string) (core.Budget, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category_id, month, limit_amount, created_at, updated_at FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budgets %s: %w", id, remote.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func scanBudget(r rowScanner) (core.Budget, error) {
	var b core.Budget
	var month, createdAt, updatedAt string
	if err := r.Scan(&b.ID, &b.CategoryID, &month, &b.Limit, &createdAt, &updatedAt); err != nil {
		return core.Budget{}, err
	}
	parsed, err := core.ParseYearMonth(month)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	b.Month = parsed
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return b, nil
}

func checkAffected(res sql.Result, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, remote.ErrNotFound)
	}
	return nil
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

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
