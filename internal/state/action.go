package state

import "github.com/RhisavRay/Wallet-Wizard/internal/core"

// Action is one unit of state transition. The set is closed: the reducer
// handles every variant below and nothing else may mutate a State.
type Action interface {
	action()
}

type (
	// Replace a whole collection, used after a fetch.
	SetTransactions struct{ Items []core.Transaction }
	SetCategories   struct{ Items []core.Category }
	SetAccounts     struct{ Items []core.Account }
	SetBudgets      struct{ Items []core.Budget }

	// Insert one entity. Transactions go to the front so the newest entry
	// lists first; everything else appends.
	AddTransaction struct{ Item core.Transaction }
	AddCategory    struct{ Item core.Category }
	AddAccount     struct{ Item core.Account }
	AddBudget      struct{ Item core.Budget }

	// Replace one entity by identifier. No-op when absent.
	UpdateTransaction struct{ Item core.Transaction }
	UpdateCategory    struct{ Item core.Category }
	UpdateAccount     struct{ Item core.Account }
	UpdateBudget      struct{ Item core.Budget }

	// Remove one entity by identifier. No-op when absent.
	RemoveTransaction struct{ ID string }
	RemoveCategory    struct{ ID string }
	RemoveAccount     struct{ ID string }
	RemoveBudget      struct{ ID string }

	// PatchFilter merges non-nil patch fields into the filter and
	// re-resolves the date range.
	PatchFilter struct{ Patch FilterPatch }

	// SetReferenceDate moves the period anchor and re-resolves the range.
	SetReferenceDate struct{ Date core.Date }

	// SetLoading flags a resource as being fetched.
	SetLoading struct {
		Resource core.Resource
		Loading  bool
	}

	// SetResourceError records the last error message for a resource. An
	// empty message clears it.
	SetResourceError struct {
		Resource core.Resource
		Message  string
	}
)

func (SetTransactions) action()   {}
func (SetCategories) action()     {}
func (SetAccounts) action()       {}
func (SetBudgets) action()        {}
func (AddTransaction) action()    {}
func (AddCategory) action()       {}
func (AddAccount) action()        {}
func (AddBudget) action()         {}
func (UpdateTransaction) action() {}
func (UpdateCategory) action()    {}
func (UpdateAccount) action()     {}
func (UpdateBudget) action()      {}
func (RemoveTransaction) action() {}
func (RemoveCategory) action()    {}
func (RemoveAccount) action()     {}
func (RemoveBudget) action()      {}
func (PatchFilter) action()       {}
func (SetReferenceDate) action()  {}
func (SetLoading) action()        {}
func (SetResourceError) action()  {}
