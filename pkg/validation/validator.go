package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/centava/centava/pkg/allocation"
	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/income"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

var (
	maxPercentage      = decimal.NewFromInt(100)
	highPercentage     = decimal.NewFromInt(50)
	overAllocationPct  = decimal.NewFromInt(100)
	underAllocationPct = decimal.NewFromInt(80)
)

// Validate runs all structural and semantic checks over the given snapshot of
// budget items and income sources. Inactive entries are ignored. The function
// is pure and deterministic: the same snapshot always produces the same
// issues in the same order with the same ids.
func Validate(items []budget_item.BudgetItem, sources []income.Source) Result {
	activeItems := make([]budget_item.BudgetItem, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			activeItems = append(activeItems, item)
		}
	}
	activeSources := make([]income.Source, 0, len(sources))
	for _, source := range sources {
		if source.IsActive {
			activeSources = append(activeSources, source)
		}
	}

	var issues []Issue
	issues = append(issues, checkPreconditions(activeItems, activeSources)...)
	issues = append(issues, checkItemValues(activeItems)...)
	issues = append(issues, checkDependencies(activeItems)...)
	issues = append(issues, checkCycles(activeItems)...)

	var allocSummary allocation.Summary
	if len(activeItems) > 0 && len(activeSources) > 0 {
		var allocIssues []Issue
		allocIssues, allocSummary = checkAllocations(activeItems, activeSources[0])
		issues = append(issues, allocIssues...)
	}

	issues = append(issues, checkConflicts(activeItems)...)

	summary := Summary{
		TotalAllocated:   allocSummary.TotalAllocated,
		Remaining:        allocSummary.Remaining,
		PercentAllocated: allocSummary.PercentAllocated,
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			summary.Errors++
		case SeverityWarning:
			summary.Warnings++
		case SeverityInfo:
			summary.Infos++
		}
	}

	return Result{
		IsValid: summary.Errors == 0,
		Issues:  issues,
		Summary: summary,
	}
}

func checkPreconditions(items []budget_item.BudgetItem, sources []income.Source) []Issue {
	var issues []Issue
	if len(sources) == 0 {
		issues = append(issues, Issue{
			Id:           issueId(KindMissingIncomeSource),
			Kind:         KindMissingIncomeSource,
			Severity:     SeverityError,
			Category:     CategoryCalculation,
			Title:        "No active income source",
			Message:      "Allocations cannot be calculated without an active income source.",
			SuggestedFix: "Add an income source or activate an existing one.",
		})
	}
	if len(items) == 0 {
		issues = append(issues, Issue{
			Id:       issueId(KindNoBudgetItems),
			Kind:     KindNoBudgetItems,
			Severity: SeverityInfo,
			Category: CategoryAllocation,
			Title:    "No budget items",
			Message:  "There is nothing to allocate yet.",
		})
	}
	return issues
}

func checkItemValues(items []budget_item.BudgetItem) []Issue {
	var issues []Issue
	for _, item := range items {
		if !item.Value.IsPositive() {
			issues = append(issues, Issue{
				Id:            issueId(KindInvalidValue, item.Id),
				Kind:          KindInvalidValue,
				Severity:      SeverityError,
				Category:      CategoryCalculation,
				Title:         "Invalid value",
				Message:       fmt.Sprintf("%q must have a value greater than zero.", item.Name),
				AffectedItems: []int{item.Id},
			})
		} else if item.CalcType.IsPercentage() && item.Value.GreaterThan(maxPercentage) {
			issues = append(issues, Issue{
				Id:            issueId(KindPercentageTooHigh, item.Id),
				Kind:          KindPercentageTooHigh,
				Severity:      SeverityError,
				Category:      CategoryCalculation,
				Title:         "Percentage above 100",
				Message:       fmt.Sprintf("%q allocates %s%% which is more than the whole base amount.", item.Name, item.Value),
				AffectedItems: []int{item.Id},
				SuggestedFix:  "Clamp the percentage to 100.",
				AutoFixable:   true,
			})
		} else if item.CalcType.IsPercentage() && item.Value.GreaterThan(highPercentage) {
			issues = append(issues, Issue{
				Id:            issueId(KindHighPercentage, item.Id),
				Kind:          KindHighPercentage,
				Severity:      SeverityWarning,
				Category:      CategoryCalculation,
				Title:         "High percentage",
				Message:       fmt.Sprintf("%q allocates more than half of its base amount.", item.Name),
				AffectedItems: []int{item.Id},
				SuggestedFix:  "Consider splitting this item or lowering the percentage.",
			})
		}

		if item.CalcType == budget_item.CalcRemainingPercent && len(item.DependsOn) == 0 {
			issues = append(issues, Issue{
				Id:            issueId(KindMissingDependencies, item.Id),
				Kind:          KindMissingDependencies,
				Severity:      SeverityError,
				Category:      CategoryDependency,
				Title:         "Remaining-percent item without dependencies",
				Message:       fmt.Sprintf("%q allocates a share of the remainder but does not declare what it comes after.", item.Name),
				AffectedItems: []int{item.Id},
				SuggestedFix:  "Add at least one dependency or switch the calculation type.",
			})
		}

		if len(strings.TrimSpace(item.Name)) < 2 {
			issues = append(issues, Issue{
				Id:            issueId(KindShortName, item.Id),
				Kind:          KindShortName,
				Severity:      SeverityWarning,
				Category:      CategoryConflict,
				Title:         "Very short name",
				Message:       "Budget item names shorter than 2 characters are hard to tell apart.",
				AffectedItems: []int{item.Id},
			})
		}
	}
	return issues
}

func checkDependencies(items []budget_item.BudgetItem) []Issue {
	activeIds := make(map[int]budget_item.BudgetItem, len(items))
	for _, item := range items {
		activeIds[item.Id] = item
	}

	var issues []Issue
	for _, item := range items {
		var missing []int
		for _, depId := range item.DependsOn {
			if depId == item.Id {
				issues = append(issues, Issue{
					Id:            issueId(KindSelfDependency, item.Id),
					Kind:          KindSelfDependency,
					Severity:      SeverityError,
					Category:      CategoryDependency,
					Title:         "Self-dependency",
					Message:       fmt.Sprintf("%q depends on itself.", item.Name),
					AffectedItems: []int{item.Id},
					SuggestedFix:  "Remove the item from its own dependency list.",
					AutoFixable:   true,
				})
				continue
			}
			dep, ok := activeIds[depId]
			if !ok {
				missing = append(missing, depId)
				continue
			}
			if dep.Priority >= item.Priority {
				issues = append(issues, Issue{
					Id:            issueId(KindPriorityConflict, item.Id, depId),
					Kind:          KindPriorityConflict,
					Severity:      SeverityWarning,
					Category:      CategoryDependency,
					Title:         "Dependency with equal or higher priority",
					Message:       fmt.Sprintf("%q depends on %q, which is not prioritized before it. Processing order is still correct, but priorities are misleading.", item.Name, dep.Name),
					AffectedItems: []int{item.Id, depId},
					SuggestedFix:  "Reorder priorities so dependencies come first.",
					AutoFixable:   true,
				})
			}
		}
		if len(missing) > 0 {
			issues = append(issues, Issue{
				Id:            issueId(KindMissingDependencyReference, item.Id),
				Kind:          KindMissingDependencyReference,
				Severity:      SeverityError,
				Category:      CategoryDependency,
				Title:         "Dependency does not exist",
				Message:       fmt.Sprintf("%q references %d dependency item(s) that are missing or inactive.", item.Name, len(missing)),
				AffectedItems: []int{item.Id},
				SuggestedFix:  "Clear the dependency list.",
				AutoFixable:   true,
			})
		}
	}
	return issues
}

// checkCycles flags every item that sits on a dependency cycle. It walks the
// dependency relation with an explicit stack (no recursion, item sets can be
// arbitrarily large) tracking the in-progress path, the classic
// white/grey/black scheme.
func checkCycles(items []budget_item.BudgetItem) []Issue {
	adjacency := make(map[int][]int, len(items))
	for _, item := range items {
		for _, depId := range item.DependsOn {
			// Self references and dangling references are reported separately
			// and cannot close a multi-item cycle.
			if depId == item.Id || !containsItem(items, depId) {
				continue
			}
			adjacency[item.Id] = append(adjacency[item.Id], depId)
		}
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[int]int, len(items))
	onCycle := make(map[int]bool)

	type frame struct {
		id   int
		next int
	}

	for _, item := range items {
		if color[item.Id] != white {
			continue
		}
		stack := []frame{{id: item.Id}}
		color[item.Id] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := adjacency[top.id]
			if top.next < len(neighbors) {
				next := neighbors[top.next]
				top.next++
				switch color[next] {
				case white:
					color[next] = grey
					stack = append(stack, frame{id: next})
				case grey:
					// Back edge: everything on the stack from `next` up is
					// part of a cycle.
					for i := len(stack) - 1; i >= 0; i-- {
						onCycle[stack[i].id] = true
						if stack[i].id == next {
							break
						}
					}
				}
			} else {
				color[top.id] = black
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(onCycle) == 0 {
		return nil
	}

	cyclicIds := make([]int, 0, len(onCycle))
	for id := range onCycle {
		cyclicIds = append(cyclicIds, id)
	}
	sort.Ints(cyclicIds)

	return []Issue{{
		Id:            issueId(KindCircularDependency, cyclicIds...),
		Kind:          KindCircularDependency,
		Severity:      SeverityError,
		Category:      CategoryDependency,
		Title:         "Circular dependency",
		Message:       fmt.Sprintf("%d budget item(s) depend on each other in a cycle; their allocations cannot be ordered.", len(cyclicIds)),
		AffectedItems: cyclicIds,
		SuggestedFix:  "Break the cycle by removing one of the dependencies.",
	}}
}

// checkAllocations re-derives allocations through the calculator and checks
// the aggregate outcome. Unexpected calculator faults are contained here and
// reported as a single calculation-error issue instead of propagating.
func checkAllocations(items []budget_item.BudgetItem, source income.Source) (issues []Issue, summary allocation.Summary) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("allocation pass failed during validation: %v", r)
			allIds := make([]int, 0, len(items))
			for _, item := range items {
				allIds = append(allIds, item.Id)
			}
			sort.Ints(allIds)
			issues = []Issue{{
				Id:            issueId(KindCalculationError),
				Kind:          KindCalculationError,
				Severity:      SeverityError,
				Category:      CategoryCalculation,
				Title:         "Calculation failed",
				Message:       fmt.Sprintf("Allocations could not be calculated: %v", r),
				AffectedItems: allIds,
			}}
			summary = allocation.Summary{}
		}
	}()

	ordered := allocation.ResolveOrder(items)
	results := allocation.CalculateAll(ordered, source)
	summary = allocation.Summarize(results, source)

	if summary.PercentAllocated.GreaterThan(overAllocationPct) {
		issues = append(issues, Issue{
			Id:           issueId(KindOverAllocation),
			Kind:         KindOverAllocation,
			Severity:     SeverityWarning,
			Category:     CategoryAllocation,
			Title:        "Budget over-allocated",
			Message:      fmt.Sprintf("Allocations add up to %s%% of net income.", summary.PercentAllocated.Round(1)),
			SuggestedFix: "Reduce fixed amounts or percentages until the total fits within net income.",
		})
	} else if summary.PercentAllocated.LessThan(underAllocationPct) {
		issues = append(issues, Issue{
			Id:       issueId(KindUnderAllocation),
			Kind:     KindUnderAllocation,
			Severity: SeverityInfo,
			Category: CategoryAllocation,
			Title:    "Budget under-allocated",
			Message:  fmt.Sprintf("Only %s%% of net income is allocated.", summary.PercentAllocated.Round(1)),
		})
	}

	namesById := make(map[int]string, len(items))
	for _, item := range items {
		namesById[item.Id] = item.Name
	}
	for _, result := range results {
		if result.ExpectedAmount.IsZero() {
			issues = append(issues, Issue{
				Id:            issueId(KindZeroAllocation, result.BudgetItemId),
				Kind:          KindZeroAllocation,
				Severity:      SeverityWarning,
				Category:      CategoryAllocation,
				Title:         "Zero allocation",
				Message:       fmt.Sprintf("%q receives nothing under the current configuration.", namesById[result.BudgetItemId]),
				AffectedItems: []int{result.BudgetItemId},
			})
		}
	}

	return issues, summary
}

func checkConflicts(items []budget_item.BudgetItem) []Issue {
	var issues []Issue

	byName := make(map[string][]int)
	nameOrder := make([]string, 0, len(items))
	for _, item := range items {
		normalized := strings.ToLower(strings.Join(strings.Fields(item.Name), " "))
		if _, seen := byName[normalized]; !seen {
			nameOrder = append(nameOrder, normalized)
		}
		byName[normalized] = append(byName[normalized], item.Id)
	}
	for _, name := range nameOrder {
		ids := byName[name]
		if len(ids) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Id:            issueId(KindDuplicateNames, ids...),
			Kind:          KindDuplicateNames,
			Severity:      SeverityWarning,
			Category:      CategoryConflict,
			Title:         "Duplicate item names",
			Message:       fmt.Sprintf("%d budget items share the name %q.", len(ids), name),
			AffectedItems: ids,
			SuggestedFix:  "Rename the items so they can be told apart.",
		})
	}

	byPriority := make(map[int][]int)
	priorityOrder := make([]int, 0, len(items))
	for _, item := range items {
		if _, seen := byPriority[item.Priority]; !seen {
			priorityOrder = append(priorityOrder, item.Priority)
		}
		byPriority[item.Priority] = append(byPriority[item.Priority], item.Id)
	}
	for _, priority := range priorityOrder {
		ids := byPriority[priority]
		if len(ids) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Id:            issueId(KindSamePriority, ids...),
			Kind:          KindSamePriority,
			Severity:      SeverityInfo,
			Category:      CategoryConflict,
			Title:         "Shared priority",
			Message:       fmt.Sprintf("%d budget items share priority %d; their relative order follows insertion order.", len(ids), priority),
			AffectedItems: ids,
			SuggestedFix:  "Renumber priorities sequentially.",
			AutoFixable:   true,
		})
	}

	return issues
}

func containsItem(items []budget_item.BudgetItem, id int) bool {
	for _, item := range items {
		if item.Id == id {
			return true
		}
	}
	return false
}
