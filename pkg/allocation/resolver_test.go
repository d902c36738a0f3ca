package allocation

import (
	"testing"

	"github.com/centava/centava/pkg/budget_item"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fixedItem(id int, name string, priority int, dependsOn ...int) budget_item.BudgetItem {
	return budget_item.BudgetItem{
		Id:        id,
		Name:      name,
		Category:  budget_item.CategoryBills,
		CalcType:  budget_item.CalcFixed,
		Value:     decimal.NewFromInt(100),
		Priority:  priority,
		DependsOn: dependsOn,
		IsActive:  true,
	}
}

func orderedIds(items []budget_item.BudgetItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Id)
	}
	return ids
}

func TestResolveOrder_SortsByPriority(t *testing.T) {
	// given
	items := []budget_item.BudgetItem{
		fixedItem(1, "Savings", 3),
		fixedItem(2, "Rent", 1),
		fixedItem(3, "Groceries", 2),
	}

	// when
	ordered := ResolveOrder(items)

	// then
	assert.Equal(t, []int{2, 3, 1}, orderedIds(ordered))
}

func TestResolveOrder_EqualPriorityKeepsInputOrder(t *testing.T) {
	// given
	items := []budget_item.BudgetItem{
		fixedItem(5, "First", 1),
		fixedItem(3, "Second", 1),
		fixedItem(9, "Third", 1),
	}

	// when
	ordered := ResolveOrder(items)

	// then
	assert.Equal(t, []int{5, 3, 9}, orderedIds(ordered))
}

func TestResolveOrder_DependenciesComeFirst(t *testing.T) {
	// given: item 1 has the lowest priority but depends on 2 and 3
	items := []budget_item.BudgetItem{
		fixedItem(1, "Leftovers", 1, 2, 3),
		fixedItem(2, "Rent", 2),
		fixedItem(3, "Utilities", 3),
	}

	// when
	ordered := ResolveOrder(items)

	// then
	assert.Equal(t, []int{2, 3, 1}, orderedIds(ordered))
}

func TestResolveOrder_ChainedDependencies(t *testing.T) {
	// given: 3 -> 2 -> 1
	items := []budget_item.BudgetItem{
		fixedItem(3, "C", 1, 2),
		fixedItem(2, "B", 2, 1),
		fixedItem(1, "A", 3),
	}

	// when
	ordered := ResolveOrder(items)

	// then
	assert.Equal(t, []int{1, 2, 3}, orderedIds(ordered))
}

func TestResolveOrder_CycleTerminatesAndKeepsAllItems(t *testing.T) {
	// given: 1 and 2 depend on each other
	items := []budget_item.BudgetItem{
		fixedItem(1, "A", 1, 2),
		fixedItem(2, "B", 2, 1),
		fixedItem(3, "Independent", 3),
	}

	// when
	ordered := ResolveOrder(items)

	// then: the independent item resolves, the cycle is appended as-is
	assert.Len(t, ordered, 3)
	assert.Equal(t, []int{3, 1, 2}, orderedIds(ordered))
}

func TestResolveOrder_DanglingReferenceFallsBackToInputOrder(t *testing.T) {
	// given: item 1 references an id that does not exist
	items := []budget_item.BudgetItem{
		fixedItem(1, "A", 1, 99),
		fixedItem(2, "B", 2),
	}

	// when
	ordered := ResolveOrder(items)

	// then: every item survives, the unresolvable one goes last
	assert.Equal(t, []int{2, 1}, orderedIds(ordered))
}

func TestResolveOrder_EmptyInput(t *testing.T) {
	assert.Empty(t, ResolveOrder(nil))
}
