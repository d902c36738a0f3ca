package allocation

import (
	"github.com/centava/centava/pkg/income"
	"github.com/shopspring/decimal"
)

// Health score bands, keyed on the allocated percentage of net income.
// Status follows the band, not the exact score.
var (
	fullyAllocated  = decimal.NewFromInt(100)
	warningBand     = decimal.NewFromInt(95)
	goodBand        = decimal.NewFromInt(85)
	underAllocation = decimal.NewFromInt(70)
)

// Summarize aggregates calculator results into budget totals and a health
// score between 0 and 100.
func Summarize(results []Result, source income.Source) Summary {
	totalAllocated := decimal.Zero
	for _, result := range results {
		totalAllocated = totalAllocated.Add(result.ExpectedAmount)
	}

	remaining := source.NetAmount.Sub(totalAllocated)

	percentAllocated := decimal.Zero
	if source.NetAmount.IsPositive() {
		percentAllocated = totalAllocated.Div(source.NetAmount).Mul(fullyAllocated)
	}

	score, status := healthScore(percentAllocated)

	return Summary{
		TotalAllocated:   totalAllocated,
		Remaining:        remaining,
		PercentAllocated: percentAllocated,
		HealthScore:      score,
		Status:           status,
	}
}

func healthScore(percentAllocated decimal.Decimal) (int, HealthStatus) {
	switch {
	case percentAllocated.GreaterThan(fullyAllocated):
		// Over-allocation: lose two points per percent over, down to zero.
		overage := percentAllocated.Sub(fullyAllocated)
		score := decimal.NewFromInt(100).Sub(overage.Mul(decimal.NewFromInt(2)))
		if score.IsNegative() {
			score = decimal.Zero
		}
		return int(score.Round(0).IntPart()), HealthDanger
	case percentAllocated.GreaterThanOrEqual(warningBand):
		return 85, HealthWarning
	case percentAllocated.GreaterThanOrEqual(goodBand):
		return 95, HealthGood
	case percentAllocated.LessThan(underAllocation):
		// Under-allocation is informational: gentle linear penalty, never
		// below 70.
		gap := underAllocation.Sub(percentAllocated)
		score := decimal.NewFromInt(100).Sub(gap.Div(decimal.NewFromInt(2)))
		floor := decimal.NewFromInt(70)
		if score.LessThan(floor) {
			score = floor
		}
		return int(score.Round(0).IntPart()), HealthGood
	default:
		return 100, HealthExcellent
	}
}
