package budget_item

import (
	"time"

	"github.com/centava/centava/pkg/cadence"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBills         Category = "bills"
	CategorySavings       Category = "savings"
	CategoryDebt          Category = "debt"
	CategoryGiving        Category = "giving"
	CategoryDiscretionary Category = "discretionary"
	CategoryOther         Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBills, CategorySavings, CategoryDebt, CategoryGiving, CategoryDiscretionary, CategoryOther:
		return true
	}
	return false
}

// CalcType selects the rule deriving an item's expected amount. The set is
// closed: values are validated at the API boundary and the calculator
// switches over it exhaustively.
type CalcType string

const (
	// CalcFixed allocates Value as an absolute amount.
	CalcFixed CalcType = "fixed"
	// CalcGrossPercent allocates Value percent of the income source's gross amount.
	CalcGrossPercent CalcType = "gross_percent"
	// CalcNetPercent allocates Value percent of the income source's net amount.
	CalcNetPercent CalcType = "net_percent"
	// CalcRemainingPercent allocates Value percent of what remains of the net
	// amount after all items in DependsOn have been allocated.
	CalcRemainingPercent CalcType = "remaining_percent"
)

func (t CalcType) Valid() bool {
	switch t {
	case CalcFixed, CalcGrossPercent, CalcNetPercent, CalcRemainingPercent:
		return true
	}
	return false
}

// IsPercentage reports whether Value is interpreted as a percentage in (0, 100].
func (t CalcType) IsPercentage() bool {
	return t == CalcGrossPercent || t == CalcNetPercent || t == CalcRemainingPercent
}

type BudgetItem struct {
	Id       int
	Name     string
	Category Category
	CalcType CalcType
	// Value is an absolute amount for CalcFixed and a percentage otherwise.
	Value   decimal.Decimal
	Cadence cadence.Cadence
	// DependsOn lists ids of items that must be allocated before this one.
	// Order is preserved as entered by the user.
	DependsOn []int
	// Priority orders processing; lower values are allocated earlier.
	Priority int
	IsActive bool
	// EndDate is optional; the zero value means the item never expires.
	EndDate time.Time
}

// DependsOnItem reports whether id is listed as a dependency.
func (b BudgetItem) DependsOnItem(id int) bool {
	for _, depId := range b.DependsOn {
		if depId == id {
			return true
		}
	}
	return false
}
