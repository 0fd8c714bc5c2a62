// Package rest talks to the hosted relational store over its JSON row API
// (PostgREST dialect: one route per table, eq filters, Prefer
// return=representation on writes).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
)

const (
	tableTransactions = "transactions"
	tableCategories   = "categories"
	tableAccounts     = "accounts"
	tableBudgets      = "budgets"

	defaultTimeout = 30 * time.Second
)

type Config struct {
	// BaseURL is the row API root, e.g. https://x.example.co/rest/v1.
	BaseURL string
	// APIKey is sent as the apikey header on every request.
	APIKey string
	// AuthToken is the session bearer token; the hosted store scopes every
	// row to its owner. The API key doubles as the bearer when empty.
	AuthToken string
	Timeout   time.Duration
}

// Client implements remote.Store against the hosted row API.
type Client struct {
	baseURL    string
	apiKey     string
	authToken  string
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("rest: base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	authToken := cfg.AuthToken
	if authToken == "" {
		authToken = cfg.APIKey
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// budgetRow is the hosted shape of a budget. The schema cannot name a column
// "limit" (reserved word), so the API exposes the cap as "amount"; it is
// mapped back to Limit on every read.
type budgetRow struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id"`
	Month      core.YearMonth  `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func budgetToRow(b core.Budget) budgetRow {
	return budgetRow{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Month:      b.Month,
		Amount:     b.Limit,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func rowToBudget(r budgetRow) core.Budget {
	return core.Budget{
		ID:         r.ID,
		CategoryID: r.CategoryID,
		Month:      r.Month,
		Limit:      r.Amount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (c *Client) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	var rows []core.Transaction
	if err := c.do(ctx, http.MethodGet, tableTransactions, "select=*&order=date.desc", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return createRow(ctx, c, tableTransactions, t)
}

func (c *Client) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return updateRow(ctx, c, tableTransactions, t.ID, t)
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.deleteRow(ctx, tableTransactions, id)
}

func (c *Client) FetchCategories(ctx context.Context) ([]core.Category, error) {
	var rows []core.Category
	if err := c.do(ctx, http.MethodGet, tableCategories, "select=*&order=created_at.asc", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	return createRow(ctx, c, tableCategories, cat)
}

func (c *Client) UpdateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	return updateRow(ctx, c, tableCategories, cat.ID, cat)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.deleteRow(ctx, tableCategories, id)
}

func (c *Client) FetchAccounts(ctx context.Context) ([]core.Account, error) {
	var rows []core.Account
	if err := c.do(ctx, http.MethodGet, tableAccounts, "select=*&order=created_at.asc", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	return createRow(ctx, c, tableAccounts, a)
}

func (c *Client) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	return updateRow(ctx, c, tableAccounts, a.ID, a)
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.deleteRow(ctx, tableAccounts, id)
}

func (c *Client) FetchBudgets(ctx context.Context) ([]core.Budget, error) {
	var rows []budgetRow
	if err := c.do(ctx, http.MethodGet, tableBudgets, "select=*&order=month.desc", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]core.Budget, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToBudget(r))
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	row, err := createRow(ctx, c, tableBudgets, budgetToRow(b))
	if err != nil {
		return core.Budget{}, err
	}
	return rowToBudget(row), nil
}

func (c *Client) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	row, err := updateRow(ctx, c, tableBudgets, b.ID, budgetToRow(b))
	if err != nil {
		return core.Budget{}, err
	}
	return rowToBudget(row), nil
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.deleteRow(ctx, tableBudgets, id)
}

// createRow posts one row and returns the canonical representation the store
// echoes back.
func createRow[T any](ctx context.Context, c *Client, table string, row T) (T, error) {
	var zero T
	var rows []T
	if err := c.do(ctx, http.MethodPost, table, "", row, &rows); err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("%s: empty create response", table)
	}
	return rows[0], nil
}

// updateRow patches the row matching the id with the full entity. An empty
// representation means no row matched.
func updateRow[T any](ctx context.Context, c *Client, table, id string, row T) (T, error) {
	var zero T
	var rows []T
	if err := c.do(ctx, http.MethodPatch, table, "id=eq."+url.QueryEscape(id), row, &rows); err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("%s %s: %w", table, id, remote.ErrNotFound)
	}
	return rows[0], nil
}

func (c *Client) deleteRow(ctx context.Context, table, id string) error {
	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodDelete, table, "id=eq."+url.QueryEscape(id), nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %s: %w", table, id, remote.ErrNotFound)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, table, query string, body, out any) error {
	endpoint := c.baseURL + "/" + table
	if query != "" {
		endpoint += "?" + query
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s row: %w", table, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", table, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", table, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", table, remote.ErrUnauthenticated)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", table, remote.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote store %s: %d - %s", table, resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}
