package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income   TransactionKind = "income"
	Expense  TransactionKind = "expense"
	Transfer TransactionKind = "transfer"

	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

type (
	TransactionKind string

	CategoryKind string

	// Date is a calendar date with no time-of-day component, stored as
	// midnight UTC.
	Date struct {
		time.Time
	}

	// YearMonth identifies the calendar month a budget applies to.
	YearMonth struct {
		Year  int
		Month time.Month
	}

	Transaction struct {
		ID          string          `json:"id"`
		Kind        TransactionKind `json:"kind"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category,omitempty"`     // income/expense only
		Account     string          `json:"account,omitempty"`      // income/expense only
		FromAccount string          `json:"from_account,omitempty"` // transfer only
		ToAccount   string          `json:"to_account,omitempty"`   // transfer only
		Date        Date            `json:"date"`
		Note        string          `json:"note,omitempty"`
		CreatedAt   time.Time       `json:"created_at"`
		UpdatedAt   time.Time       `json:"updated_at"`
	}

	Category struct {
		ID        string       `json:"id"`
		Name      string       `json:"name"`
		Kind      CategoryKind `json:"kind"`
		CreatedAt time.Time    `json:"created_at"`
		UpdatedAt time.Time    `json:"updated_at"`
	}

	Account struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
		CreatedAt      time.Time       `json:"created_at"`
		UpdatedAt      time.Time       `json:"updated_at"`
	}

	// Budget caps spending for one expense category in one month. Spent and
	// remaining amounts are never stored; read paths derive them from the
	// transaction set.
	Budget struct {
		ID         string          `json:"id"`
		CategoryID string          `json:"category_id"`
		Month      YearMonth       `json:"month"`
		Limit      decimal.Decimal `json:"limit"`
		CreatedAt  time.Time       `json:"created_at"`
		UpdatedAt  time.Time       `json:"updated_at"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrNameTooShort  = errors.New("name too short")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyAccount  = errors.New("empty account")
	ErrEmptyMonth    = errors.New("empty month")
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrNoteTooLong   = errors.New("note too long (max 200 characters)")
)

func (k TransactionKind) IsValid() bool {
	switch k {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (k CategoryKind) IsValid() bool {
	switch k {
	case CategoryIncome, CategoryExpense:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in ISO form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

func YearMonthOf(d Date) YearMonth {
	return YearMonth{Year: d.Time.Year(), Month: d.Time.Month()}
}

// ParseYearMonth parses a month in ISO form (2006-01).
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return YearMonth{}, ErrEmptyMonth
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

func (ym YearMonth) String() string {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Contains reports whether the date falls inside this calendar month.
func (ym YearMonth) Contains(d Date) bool {
	return d.Time.Year() == ym.Year && d.Time.Month() == ym.Month
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	if ym.IsZero() {
		return []byte(""), nil
	}
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*ym = YearMonth{}
		return nil
	}
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	switch t.Kind {
	case Transfer:
		if strings.TrimSpace(t.FromAccount) == "" || strings.TrimSpace(t.ToAccount) == "" {
			return ErrEmptyAccount
		}
	default:
		if strings.TrimSpace(t.Category) == "" {
			return ErrEmptyCategory
		}
		if strings.TrimSpace(t.Account) == "" {
			return ErrEmptyAccount
		}
	}
	if len(t.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) < 2 {
		return ErrNameTooShort
	}
	if !c.Kind.IsValid() {
		return ErrInvalidKind
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) < 2 {
		return ErrNameTooShort
	}
	// Initial balance may be negative (overdrawn account).
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if b.Month.IsZero() {
		return ErrEmptyMonth
	}
	if !b.Limit.IsPositive() {
		return ErrInvalidLimit
	}
	return nil
}
