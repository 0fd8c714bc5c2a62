package core

// Resource names one of the four synced collections. Loading flags and
// error messages are tracked per resource.
type Resource string

const (
	ResourceTransactions Resource = "transactions"
	ResourceCategories   Resource = "categories"
	ResourceAccounts     Resource = "accounts"
	ResourceBudgets      Resource = "budgets"
)

// Resources lists all synced resources in a stable order.
func Resources() []Resource {
	return []Resource{ResourceTransactions, ResourceCategories, ResourceAccounts, ResourceBudgets}
}

func (r Resource) String() string {
	return string(r)
}

func (r Resource) IsValid() bool {
	switch r {
	case ResourceTransactions, ResourceCategories, ResourceAccounts, ResourceBudgets:
		return true
	}
	return false
}
