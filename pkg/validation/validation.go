package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Category string

const (
	CategoryDependency  Category = "dependency"
	CategoryCalculation Category = "calculation"
	CategoryAllocation  Category = "allocation"
	CategoryConflict    Category = "conflict"
	CategoryPerformance Category = "performance"
)

// IssueKind is a closed discriminator for validation findings. The conflict
// resolution generator matches on it exhaustively; issue ids are display
// handles only and are never parsed.
type IssueKind string

const (
	KindMissingIncomeSource        IssueKind = "missing_income_source"
	KindNoBudgetItems              IssueKind = "no_budget_items"
	KindInvalidValue               IssueKind = "invalid_value"
	KindPercentageTooHigh          IssueKind = "percentage_too_high"
	KindHighPercentage             IssueKind = "high_percentage"
	KindMissingDependencies        IssueKind = "missing_dependencies"
	KindShortName                  IssueKind = "short_name"
	KindMissingDependencyReference IssueKind = "missing_dependency_reference"
	KindSelfDependency             IssueKind = "self_dependency"
	KindPriorityConflict           IssueKind = "priority_conflict"
	KindCircularDependency         IssueKind = "circular_dependency"
	KindOverAllocation             IssueKind = "over_allocation"
	KindUnderAllocation            IssueKind = "under_allocation"
	KindZeroAllocation             IssueKind = "zero_allocation"
	KindCalculationError           IssueKind = "calculation_error"
	KindDuplicateNames             IssueKind = "duplicate_names"
	KindSamePriority               IssueKind = "same_priority"
)

// Issue is one validation finding. Issues are data, never errors: the
// validator reports every problem it finds and leaves acting on them to the
// user or to the conflict resolver.
type Issue struct {
	// Id is deterministic for a given input snapshot, so re-validating
	// unchanged data yields structurally identical results.
	Id            string
	Kind          IssueKind
	Severity      Severity
	Category      Category
	Title         string
	Message       string
	AffectedItems []int
	SuggestedFix  string
	AutoFixable   bool
}

type Summary struct {
	Errors           int
	Warnings         int
	Infos            int
	TotalAllocated   decimal.Decimal
	Remaining        decimal.Decimal
	PercentAllocated decimal.Decimal
}

type Result struct {
	// IsValid is true when no error-severity issue was found; warnings and
	// infos do not invalidate a budget.
	IsValid bool
	Issues  []Issue
	Summary Summary
}

func issueId(kind IssueKind, itemIds ...int) string {
	if len(itemIds) == 0 {
		return string(kind)
	}
	parts := make([]string, 0, len(itemIds))
	for _, id := range itemIds {
		parts = append(parts, strconv.Itoa(id))
	}
	return fmt.Sprintf("%s-%s", kind, strings.Join(parts, "-"))
}
