// Package sheets implements remote.Store on a Google spreadsheet, one tab
// per resource with a header row. Rows are matched by the identifier in
// column A; deletes clear the row in place and the readers skip blanks.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
)

const (
	tabTransactions = "Transactions"
	tabCategories   = "Categories"
	tabAccounts     = "Accounts"
	tabBudgets      = "Budgets"
)

type Config struct {
	SpreadsheetID string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ remote.Store = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id required")
	}

	var credentials []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentials = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		buf, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = buf
	default:
		return nil, errors.New("sheets: missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

func (c *Client) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := c.readRows(ctx, tabTransactions)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, cols := range rows {
		if t, ok := rowToTransaction(cols); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := c.appendRow(ctx, tabTransactions, transactionToRow(t)); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := c.updateRow(ctx, tabTransactions, t.ID, transactionToRow(t)); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.clearRow(ctx, tabTransactions, id)
}

func (c *Client) FetchCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := c.readRows(ctx, tabCategories)
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, 0, len(rows))
	for _, cols := range rows {
		if cat, ok := rowToCategory(cols); ok {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	if err := c.appendRow(ctx, tabCategories, categoryToRow(cat)); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	if err := c.updateRow(ctx, tabCategories, cat.ID, categoryToRow(cat)); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.clearRow(ctx, tabCategories, id)
}

func (c *Client) FetchAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := c.readRows(ctx, tabAccounts)
	if err != nil {
		return nil, err
	}
	out := make([]core.Account, 0, len(rows))
	for _, cols := range rows {
		if a, ok := rowToAccount(cols); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (c *Client) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := c.appendRow(ctx, tabAccounts, accountToRow(a)); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (c *Client) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := c.updateRow(ctx, tabAccounts, a.ID, accountToRow(a)); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.clearRow(ctx, tabAccounts, id)
}

func (c *Client) FetchBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := c.readRows(ctx, tabBudgets)
	if err != nil {
		return nil, err
	}
	out := make([]core.Budget, 0, len(rows))
	for _, cols := range rows {
		if b, ok := rowToBudget(cols); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := c.appendRow(ctx, tabBudgets, budgetToRow(b)); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (c *Client) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := c.updateRow(ctx, tabBudgets, b.ID, budgetToRow(b)); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.clearRow(ctx, tabBudgets, id)
}

// readRows returns every data row of a tab as trimmed strings, skipping the
// header row.
func (c *Client) readRows(ctx context.Context, tab string) ([][]string, error) {
	rng := fmt.Sprintf("%s!A2:K", tab)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func (c *Client) appendRow(ctx context.Context, tab string, values []any) error {
	rng := fmt.Sprintf("%s!A:K", tab)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", tab, err)
	}
	return nil
}

func (c *Client) updateRow(ctx context.Context, tab, id string, values []any) error {
	row, err := c.findRow(ctx, tab, id)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:K%d", tab, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// clearRow blanks the matched row instead of deleting it; row deletion needs
// the numeric sheet id and a batch update, and the readers skip blank rows
// anyway.
func (c *Client) clearRow(ctx context.Context, tab, id string) error {
	row, err := c.findRow(ctx, tab, id)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:K%d", tab, row, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// findRow locates the 1-based sheet row whose column A equals the id.
func (c *Client) findRow(ctx context.Context, tab, id string) (int, error) {
	rng := fmt.Sprintf("%s!A:A", tab)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%s %s: %w", tab, id, remote.ErrNotFound)
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
