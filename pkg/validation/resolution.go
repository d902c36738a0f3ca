package validation

import (
	"fmt"
	"sort"

	"github.com/centava/centava/pkg/budget_item"
	"github.com/shopspring/decimal"
)

type ResolutionType string

const (
	ResolutionAdjustValues       ResolutionType = "adjust_values"
	ResolutionReorderPriorities  ResolutionType = "reorder_priorities"
	ResolutionRemoveDependencies ResolutionType = "remove_dependencies"
	// ResolutionSplitItems exists for clients that craft their own fixes; the
	// generator never proposes it because splitting needs human judgement.
	ResolutionSplitItems ResolutionType = "split_items"
)

// FieldChange is one concrete edit to a budget item. Values are kept loosely
// typed so a single change list can carry decimals, ints and id slices.
type FieldChange struct {
	ItemId   int
	Field    string
	OldValue any
	NewValue any
}

// Resolution is a proposed fix for one auto-fixable issue. Applying it is a
// separate, explicit step.
type Resolution struct {
	IssueId     string
	Type        ResolutionType
	Description string
	Changes     []FieldChange
}

// GenerateResolutions proposes a fix for every auto-fixable issue in the
// result. Issues the generator cannot fix mechanically are skipped.
func GenerateResolutions(result Result, items []budget_item.BudgetItem) []Resolution {
	itemsById := make(map[int]budget_item.BudgetItem, len(items))
	for _, item := range items {
		itemsById[item.Id] = item
	}

	var resolutions []Resolution
	for _, issue := range result.Issues {
		if !issue.AutoFixable {
			continue
		}
		if resolution, ok := resolveIssue(issue, itemsById); ok {
			resolutions = append(resolutions, resolution)
		}
	}
	return resolutions
}

func resolveIssue(issue Issue, itemsById map[int]budget_item.BudgetItem) (Resolution, bool) {
	switch issue.Kind {
	case KindPercentageTooHigh:
		item, ok := itemsById[issue.AffectedItems[0]]
		if !ok {
			return Resolution{}, false
		}
		return Resolution{
			IssueId:     issue.Id,
			Type:        ResolutionAdjustValues,
			Description: fmt.Sprintf("Clamp %q to 100%%", item.Name),
			Changes: []FieldChange{{
				ItemId:   item.Id,
				Field:    "value",
				OldValue: item.Value,
				NewValue: decimal.NewFromInt(100),
			}},
		}, true

	case KindMissingDependencyReference:
		item, ok := itemsById[issue.AffectedItems[0]]
		if !ok {
			return Resolution{}, false
		}
		return Resolution{
			IssueId:     issue.Id,
			Type:        ResolutionRemoveDependencies,
			Description: fmt.Sprintf("Clear dependencies of %q", item.Name),
			Changes: []FieldChange{{
				ItemId:   item.Id,
				Field:    "depends_on",
				OldValue: append([]int(nil), item.DependsOn...),
				NewValue: []int{},
			}},
		}, true

	case KindSelfDependency:
		item, ok := itemsById[issue.AffectedItems[0]]
		if !ok {
			return Resolution{}, false
		}
		trimmed := make([]int, 0, len(item.DependsOn))
		for _, depId := range item.DependsOn {
			if depId != item.Id {
				trimmed = append(trimmed, depId)
			}
		}
		return Resolution{
			IssueId:     issue.Id,
			Type:        ResolutionRemoveDependencies,
			Description: fmt.Sprintf("Remove %q from its own dependency list", item.Name),
			Changes: []FieldChange{{
				ItemId:   item.Id,
				Field:    "depends_on",
				OldValue: append([]int(nil), item.DependsOn...),
				NewValue: trimmed,
			}},
		}, true

	case KindPriorityConflict:
		if len(issue.AffectedItems) < 2 {
			return Resolution{}, false
		}
		dependent, okDep := itemsById[issue.AffectedItems[0]]
		dependency, okOn := itemsById[issue.AffectedItems[1]]
		if !okDep || !okOn {
			return Resolution{}, false
		}
		return Resolution{
			IssueId:     issue.Id,
			Type:        ResolutionReorderPriorities,
			Description: fmt.Sprintf("Move %q after %q", dependent.Name, dependency.Name),
			Changes: []FieldChange{{
				ItemId:   dependent.Id,
				Field:    "priority",
				OldValue: dependent.Priority,
				NewValue: dependency.Priority + 1,
			}},
		}, true

	case KindSamePriority:
		// Renumber the whole group sequentially starting at the shared
		// priority, in id order so the outcome is stable.
		ids := append([]int(nil), issue.AffectedItems...)
		sort.Ints(ids)
		first, ok := itemsById[ids[0]]
		if !ok {
			return Resolution{}, false
		}
		changes := make([]FieldChange, 0, len(ids))
		next := first.Priority
		for _, id := range ids {
			item, ok := itemsById[id]
			if !ok {
				return Resolution{}, false
			}
			changes = append(changes, FieldChange{
				ItemId:   item.Id,
				Field:    "priority",
				OldValue: item.Priority,
				NewValue: next,
			})
			next++
		}
		return Resolution{
			IssueId:     issue.Id,
			Type:        ResolutionReorderPriorities,
			Description: fmt.Sprintf("Renumber %d items with shared priority", len(ids)),
			Changes:     changes,
		}, true
	}

	return Resolution{}, false
}

// ApplyResolution returns a copy of the items with the resolution's changes
// applied. The input slice and its items are never mutated. Changes against
// unknown items or fields are reported as errors so callers never persist a
// half-applied fix.
func ApplyResolution(items []budget_item.BudgetItem, resolution Resolution) ([]budget_item.BudgetItem, error) {
	updated := make([]budget_item.BudgetItem, len(items))
	for i, item := range items {
		updated[i] = item
		updated[i].DependsOn = append([]int(nil), item.DependsOn...)
	}
	indexById := make(map[int]int, len(updated))
	for i, item := range updated {
		indexById[item.Id] = i
	}

	for _, change := range resolution.Changes {
		idx, ok := indexById[change.ItemId]
		if !ok {
			return nil, fmt.Errorf("resolution %s references unknown budget item %d", resolution.IssueId, change.ItemId)
		}
		item := &updated[idx]
		switch change.Field {
		case "value":
			value, err := toDecimal(change.NewValue)
			if err != nil {
				return nil, fmt.Errorf("resolution %s: %w", resolution.IssueId, err)
			}
			item.Value = value
		case "priority":
			priority, ok := change.NewValue.(int)
			if !ok {
				return nil, fmt.Errorf("resolution %s: priority must be an integer", resolution.IssueId)
			}
			item.Priority = priority
		case "depends_on":
			dependsOn, ok := change.NewValue.([]int)
			if !ok {
				return nil, fmt.Errorf("resolution %s: depends_on must be an id list", resolution.IssueId)
			}
			item.DependsOn = append([]int(nil), dependsOn...)
		default:
			return nil, fmt.Errorf("resolution %s changes unsupported field %q", resolution.IssueId, change.Field)
		}
	}

	return updated, nil
}

func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("value must be numeric, got %T", value)
	}
}
