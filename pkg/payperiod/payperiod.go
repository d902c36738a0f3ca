package payperiod

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusCompleted Status = "COMPLETED"
)

type AllocationStatus string

const (
	AllocationUnpaid AllocationStatus = "UNPAID"
	AllocationPaid   AllocationStatus = "PAID"
)

// PayPeriod is one paycheck cycle. Expected figures are snapshotted from the
// allocation engine when the period is created; actuals are recorded as money
// moves and stay nil until then.
type PayPeriod struct {
	Id          int
	StartDate   time.Time
	EndDate     time.Time
	ExpectedNet decimal.Decimal
	ActualNet   *decimal.Decimal
	Status      Status
}

// Allocation is the snapshot of one budget item's expected amount within a
// pay period. The item name is copied at snapshot time so reports survive
// later renames and deletions.
type Allocation struct {
	Id             int
	PayPeriodId    int
	BudgetItemId   int
	BudgetItemName string
	ExpectedAmount decimal.Decimal
	ActualAmount   *decimal.Decimal
	Status         AllocationStatus
}
