// Package state holds the in-memory session state: the four synced
// collections, the active filter, and per-resource loading/error bookkeeping.
// The state is a value; the only way to produce a new one is applying an
// Action through the reducer, and the only shared instance lives inside a
// Store.
package state

import (
	"github.com/RhisavRay/Wallet-Wizard/internal/core"
)

type (
	// Filter controls which transactions the derived views consider.
	// StartDate and EndDate are always resolved from Period and
	// ReferenceDate; they are never set directly. CarryOver is kept in
	// state for the client but no computation consumes it yet.
	Filter struct {
		Period        core.PeriodKind `json:"period"`
		ReferenceDate core.Date       `json:"reference_date"`
		StartDate     core.Date       `json:"start_date"`
		EndDate       core.Date       `json:"end_date"`
		ShowBalance   bool            `json:"show_balance"`
		CarryOver     bool            `json:"carry_over"`
		Query         string          `json:"query"`
	}

	// FilterPatch is a partial filter update. Nil fields keep their
	// current value. The reference date changes through its own action,
	// not through a patch.
	FilterPatch struct {
		Period      *core.PeriodKind `json:"period,omitempty"`
		ShowBalance *bool            `json:"show_balance,omitempty"`
		CarryOver   *bool            `json:"carry_over,omitempty"`
		Query       *string          `json:"query,omitempty"`
	}

	// State is one immutable snapshot of the session.
	State struct {
		Transactions []core.Transaction       `json:"transactions"`
		Categories   []core.Category          `json:"categories"`
		Accounts     []core.Account           `json:"accounts"`
		Budgets      []core.Budget            `json:"budgets"`
		Filter       Filter                   `json:"filter"`
		Loading      map[core.Resource]bool   `json:"loading"`
		Errors       map[core.Resource]string `json:"errors"`
	}
)

// New builds the initial session state: empty collections and a monthly
// filter anchored on the given reference date.
func New(ref core.Date) State {
	start, end := core.PeriodRange(core.PeriodMonthly, ref)
	return State{
		Transactions: []core.Transaction{},
		Categories:   []core.Category{},
		Accounts:     []core.Account{},
		Budgets:      []core.Budget{},
		Filter: Filter{
			Period:        core.PeriodMonthly,
			ReferenceDate: ref,
			StartDate:     start,
			EndDate:       end,
			ShowBalance:   true,
		},
		Loading: map[core.Resource]bool{},
		Errors:  map[core.Resource]string{},
	}
}
