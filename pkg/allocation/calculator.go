package allocation

import (
	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/income"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Calculate computes the expected allocation for one item. prior must hold
// the results of all items ordered before this one (see ResolveOrder);
// dependency ids without a prior result contribute zero.
//
// Negative intermediate values are not an error: a remaining-percent item
// whose dependencies already exceed net income yields a negative expected
// amount, which the summary surfaces as over-allocation.
func Calculate(item budget_item.BudgetItem, source income.Source, prior []Result) Result {
	var expected decimal.Decimal
	var details Details

	switch item.CalcType {
	case budget_item.CalcFixed:
		expected = item.Value
		details.BaseAmount = item.Value
	case budget_item.CalcGrossPercent:
		expected = source.GrossAmount.Mul(item.Value).Div(oneHundred)
		details.BaseAmount = source.GrossAmount
		details.Percentage = item.Value
	case budget_item.CalcNetPercent:
		expected = source.NetAmount.Mul(item.Value).Div(oneHundred)
		details.BaseAmount = source.NetAmount
		details.Percentage = item.Value
	case budget_item.CalcRemainingPercent:
		dependencyTotal := sumDependencies(item.DependsOn, prior)
		remaining := source.NetAmount.Sub(dependencyTotal)
		expected = remaining.Mul(item.Value).Div(oneHundred)
		details.BaseAmount = remaining
		details.Percentage = item.Value
		details.DependencyTotal = dependencyTotal
	default:
		// Unknown values can only come from storage written by an older or
		// newer schema; allocate nothing and let validation flag the item.
		log.Warnf("unknown calc type %q on budget item %d, allocating 0", item.CalcType, item.Id)
	}

	return Result{
		BudgetItemId:   item.Id,
		ExpectedAmount: expected.Round(2),
		Details:        details,
	}
}

// CalculateAll runs the calculator over an already ordered item list, feeding
// each item the results computed before it.
func CalculateAll(ordered []budget_item.BudgetItem, source income.Source) []Result {
	results := make([]Result, 0, len(ordered))
	for _, item := range ordered {
		results = append(results, Calculate(item, source, results))
	}
	return results
}

func sumDependencies(dependsOn []int, prior []Result) decimal.Decimal {
	byId := make(map[int]decimal.Decimal, len(prior))
	for _, result := range prior {
		byId[result.BudgetItemId] = result.ExpectedAmount
	}

	total := decimal.Zero
	for _, depId := range dependsOn {
		// Unresolved dependencies (cycles, dangling references) contribute 0.
		total = total.Add(byId[depId])
	}
	return total
}
