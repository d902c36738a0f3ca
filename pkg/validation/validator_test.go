package validation

import (
	"testing"

	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/cadence"
	"github.com/centava/centava/pkg/income"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var salary = income.Source{
	Id:          1,
	Name:        "Salary",
	GrossAmount: decimal.NewFromInt(1000),
	NetAmount:   decimal.NewFromInt(800),
	Cadence:     cadence.Biweekly,
	IsActive:    true,
}

func item(id int, name string, calcType budget_item.CalcType, value int64, priority int, dependsOn ...int) budget_item.BudgetItem {
	return budget_item.BudgetItem{
		Id:        id,
		Name:      name,
		Category:  budget_item.CategoryBills,
		CalcType:  calcType,
		Value:     decimal.NewFromInt(value),
		Cadence:   cadence.Biweekly,
		Priority:  priority,
		DependsOn: dependsOn,
		IsActive:  true,
	}
}

func findIssue(result Result, kind IssueKind) (Issue, bool) {
	for _, issue := range result.Issues {
		if issue.Kind == kind {
			return issue, true
		}
	}
	return Issue{}, false
}

func TestValidate_HealthyBudget(t *testing.T) {
	// given: 700 of 800 net, nothing wrong
	items := []budget_item.BudgetItem{
		item(1, "Rent", budget_item.CalcFixed, 500, 1),
		item(2, "Groceries", budget_item.CalcFixed, 200, 2),
	}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 0, result.Summary.Errors)
	assert.True(t, result.Summary.TotalAllocated.Equal(decimal.NewFromInt(700)))
}

func TestValidate_NoActiveIncomeSource(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, "Rent", budget_item.CalcFixed, 500, 1)}, nil)

	// then
	issue, found := findIssue(result, KindMissingIncomeSource)
	assert.True(t, found)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.False(t, result.IsValid)
	// no allocation pass without a source
	assert.True(t, result.Summary.TotalAllocated.IsZero())
}

func TestValidate_NoBudgetItemsIsOnlyInformational(t *testing.T) {
	// when
	result := Validate(nil, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindNoBudgetItems)
	assert.True(t, found)
	assert.Equal(t, SeverityInfo, issue.Severity)
	assert.True(t, result.IsValid)
}

func TestValidate_InactiveEntriesAreIgnored(t *testing.T) {
	// given
	inactive := item(1, "Old item", budget_item.CalcFixed, -5, 1)
	inactive.IsActive = false

	// when
	result := Validate([]budget_item.BudgetItem{inactive}, []income.Source{salary})

	// then: the invalid value on the inactive item is not reported
	_, found := findIssue(result, KindInvalidValue)
	assert.False(t, found)
}

func TestValidate_ValueMustBePositive(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, "Rent", budget_item.CalcFixed, 0, 1)}, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindInvalidValue)
	assert.True(t, found)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Equal(t, []int{1}, issue.AffectedItems)
	assert.False(t, result.IsValid)
}

func TestValidate_PercentageAbove100(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, "Savings", budget_item.CalcNetPercent, 150, 1)}, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindPercentageTooHigh)
	assert.True(t, found)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.True(t, issue.AutoFixable)
}

func TestValidate_HighPercentageIsAWarning(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, "Savings", budget_item.CalcNetPercent, 60, 1)}, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindHighPercentage)
	assert.True(t, found)
	assert.Equal(t, SeverityWarning, issue.Severity)
	assert.True(t, result.IsValid)
}

func TestValidate_RemainingPercentNeedsDependencies(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, "Leftovers", budget_item.CalcRemainingPercent, 50, 1)}, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindMissingDependencies)
	assert.True(t, found)
	assert.Equal(t, SeverityError, issue.Severity)
}

func TestValidate_ShortName(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, " x ", budget_item.CalcFixed, 100, 1)}, []income.Source{salary})

	// then
	_, found := findIssue(result, KindShortName)
	assert.True(t, found)
}

func TestValidate_MissingDependencyReference(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, "Rent", budget_item.CalcFixed, 100, 1, 99)}, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindMissingDependencyReference)
	assert.True(t, found)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.True(t, issue.AutoFixable)
}

func TestValidate_SelfDependency(t *testing.T) {
	// when
	result := Validate([]budget_item.BudgetItem{item(1, "Rent", budget_item.CalcFixed, 100, 1, 1)}, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindSelfDependency)
	assert.True(t, found)
	assert.True(t, issue.AutoFixable)
}

func TestValidate_DependencyPriorityConflict(t *testing.T) {
	// given: item 1 (priority 1) depends on item 2 (priority 5)
	items := []budget_item.BudgetItem{
		item(1, "Leftovers", budget_item.CalcFixed, 100, 1, 2),
		item(2, "Rent", budget_item.CalcFixed, 100, 5),
	}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindPriorityConflict)
	assert.True(t, found)
	assert.Equal(t, SeverityWarning, issue.Severity)
	assert.Equal(t, []int{1, 2}, issue.AffectedItems)
	assert.True(t, result.IsValid)
}

func TestValidate_CircularDependency(t *testing.T) {
	// given: 1 -> 2 -> 3 -> 1
	items := []budget_item.BudgetItem{
		item(1, "A", budget_item.CalcFixed, 100, 1, 2),
		item(2, "B", budget_item.CalcFixed, 100, 2, 3),
		item(3, "C", budget_item.CalcFixed, 100, 3, 1),
	}

	// when
	result := Validate(items, []income.Source{salary})

	// then: one issue naming every item on the cycle
	issue, found := findIssue(result, KindCircularDependency)
	assert.True(t, found)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Equal(t, []int{1, 2, 3}, issue.AffectedItems)
	assert.False(t, issue.AutoFixable)
	assert.False(t, result.IsValid)
}

func TestValidate_OverAllocation(t *testing.T) {
	// given: 960 of 800 net = 120%
	items := []budget_item.BudgetItem{item(1, "Rent", budget_item.CalcFixed, 960, 1)}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindOverAllocation)
	assert.True(t, found)
	assert.Equal(t, SeverityWarning, issue.Severity)
	assert.True(t, result.IsValid)
}

func TestValidate_UnderAllocation(t *testing.T) {
	// given: 100 of 800 net = 12.5%
	items := []budget_item.BudgetItem{item(1, "Rent", budget_item.CalcFixed, 100, 1)}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindUnderAllocation)
	assert.True(t, found)
	assert.Equal(t, SeverityInfo, issue.Severity)
}

func TestValidate_ZeroAllocation(t *testing.T) {
	// given: item 2 gets 50% of nothing
	items := []budget_item.BudgetItem{
		item(1, "Everything", budget_item.CalcFixed, 800, 1),
		item(2, "Leftovers", budget_item.CalcRemainingPercent, 50, 2, 1),
	}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindZeroAllocation)
	assert.True(t, found)
	assert.Equal(t, []int{2}, issue.AffectedItems)
}

func TestValidate_DuplicateNames(t *testing.T) {
	// given: names differ only in case and spacing
	items := []budget_item.BudgetItem{
		item(1, "Rent", budget_item.CalcFixed, 100, 1),
		item(2, "  rent ", budget_item.CalcFixed, 100, 2),
	}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindDuplicateNames)
	assert.True(t, found)
	assert.Equal(t, []int{1, 2}, issue.AffectedItems)
}

func TestValidate_SharedPriority(t *testing.T) {
	// given
	items := []budget_item.BudgetItem{
		item(1, "Rent", budget_item.CalcFixed, 100, 1),
		item(2, "Groceries", budget_item.CalcFixed, 100, 1),
	}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	issue, found := findIssue(result, KindSamePriority)
	assert.True(t, found)
	assert.Equal(t, SeverityInfo, issue.Severity)
	assert.True(t, issue.AutoFixable)
}

func TestValidate_IsDeterministic(t *testing.T) {
	// given: a snapshot with several kinds of problems
	items := []budget_item.BudgetItem{
		item(1, "A", budget_item.CalcNetPercent, 150, 1),
		item(2, "B", budget_item.CalcFixed, 100, 1, 99),
		item(3, "b", budget_item.CalcFixed, 100, 2),
	}

	// when
	first := Validate(items, []income.Source{salary})
	second := Validate(items, []income.Source{salary})

	// then: identical issues, identical ids, identical order
	assert.Equal(t, first, second)
}

func TestValidate_SummaryCountsBySeverity(t *testing.T) {
	// given: one error (bad value), one warning (short name on another item)
	items := []budget_item.BudgetItem{
		item(1, "Rent", budget_item.CalcFixed, 0, 1),
		item(2, "x", budget_item.CalcFixed, 700, 2),
	}

	// when
	result := Validate(items, []income.Source{salary})

	// then
	assert.Equal(t, 1, result.Summary.Errors)
	assert.GreaterOrEqual(t, result.Summary.Warnings, 1)
	assert.False(t, result.IsValid)
}
