package payperiod

import (
	"github.com/shopspring/decimal"
)

type ReconciliationStatus string

const (
	ReconciliationPerfect       ReconciliationStatus = "perfect"
	ReconciliationMinorVariance ReconciliationStatus = "minor_variance"
	ReconciliationMajorVariance ReconciliationStatus = "major_variance"
	// ReconciliationIncomplete means actuals are still missing and no verdict
	// can be given yet.
	ReconciliationIncomplete ReconciliationStatus = "incomplete"
)

// Absolute variance, in percent of the expected amount, up to which a
// non-zero deviation still counts as minor.
var minorVarianceLimit = decimal.NewFromInt(5)

type ReconciliationLine struct {
	BudgetItemId       int
	BudgetItemName     string
	ExpectedAmount     decimal.Decimal
	ActualAmount       *decimal.Decimal
	Variance           decimal.Decimal
	VariancePercentage decimal.Decimal
	Status             ReconciliationStatus
}

type ReconciliationReport struct {
	PayPeriodId        int
	Status             ReconciliationStatus
	ExpectedNet        decimal.Decimal
	ActualNet          *decimal.Decimal
	NetVariance        decimal.Decimal
	NetVariancePercent decimal.Decimal
	Lines              []ReconciliationLine
	// UnallocatedAmount is actual net income minus the sum of actual
	// allocations, i.e. money that arrived but was not assigned anywhere.
	UnallocatedAmount decimal.Decimal
}

// Reconcile compares a pay period's expected figures against the recorded
// actuals. It is a pure function over the snapshot: no repository access, no
// mutation of its inputs.
//
// The report status reflects the net income variance alone; individual lines
// carry their own status. A period without a recorded actual net is
// incomplete as a whole.
func Reconcile(period PayPeriod, allocations []Allocation) ReconciliationReport {
	report := ReconciliationReport{
		PayPeriodId: period.Id,
		ExpectedNet: period.ExpectedNet,
		ActualNet:   period.ActualNet,
	}

	actualTotal := decimal.Zero
	for _, allocation := range allocations {
		line := ReconciliationLine{
			BudgetItemId:   allocation.BudgetItemId,
			BudgetItemName: allocation.BudgetItemName,
			ExpectedAmount: allocation.ExpectedAmount,
			ActualAmount:   allocation.ActualAmount,
		}
		if allocation.ActualAmount == nil {
			line.Status = ReconciliationIncomplete
		} else {
			line.Variance = allocation.ActualAmount.Sub(allocation.ExpectedAmount)
			line.VariancePercentage = variancePercent(line.Variance, allocation.ExpectedAmount)
			line.Status = varianceStatus(line.VariancePercentage)
			actualTotal = actualTotal.Add(*allocation.ActualAmount)
		}
		report.Lines = append(report.Lines, line)
	}

	if period.ActualNet == nil {
		report.Status = ReconciliationIncomplete
		return report
	}

	report.NetVariance = period.ActualNet.Sub(period.ExpectedNet)
	report.NetVariancePercent = variancePercent(report.NetVariance, period.ExpectedNet)
	report.UnallocatedAmount = period.ActualNet.Sub(actualTotal)
	report.Status = varianceStatus(report.NetVariancePercent)
	return report
}

func variancePercent(variance, expected decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		if variance.IsZero() {
			return decimal.Zero
		}
		// Any variance against a zero expectation is maximal.
		return decimal.NewFromInt(100)
	}
	return variance.Div(expected).Mul(decimal.NewFromInt(100)).Round(2)
}

func varianceStatus(variancePercent decimal.Decimal) ReconciliationStatus {
	abs := variancePercent.Abs()
	switch {
	case abs.IsZero():
		return ReconciliationPerfect
	case abs.LessThanOrEqual(minorVarianceLimit):
		return ReconciliationMinorVariance
	default:
		return ReconciliationMajorVariance
	}
}
