package allocation

import (
	"github.com/shopspring/decimal"
)

// Result is the computed allocation for a single budget item. Results are
// transient: they are recomputed on demand from the current item snapshot and
// only persisted when a pay period is opened.
type Result struct {
	BudgetItemId   int
	ExpectedAmount decimal.Decimal
	Details        Details
}

// Details exposes the inputs the calculator used, mostly for UI breakdowns.
type Details struct {
	// BaseAmount is the amount the percentage was applied to. For fixed
	// items it equals the expected amount.
	BaseAmount decimal.Decimal
	// Percentage is zero for fixed items.
	Percentage decimal.Decimal
	// DependencyTotal is the summed expected amount of resolved
	// dependencies; only non-zero for remaining-percent items.
	DependencyTotal decimal.Decimal
}

type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthWarning   HealthStatus = "warning"
	HealthDanger    HealthStatus = "danger"
)

// Summary aggregates a full allocation pass against one income source.
type Summary struct {
	TotalAllocated   decimal.Decimal
	Remaining        decimal.Decimal
	PercentAllocated decimal.Decimal
	HealthScore      int
	Status           HealthStatus
}
