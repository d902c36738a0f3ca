package allocation

import (
	"sort"

	"github.com/centava/centava/pkg/budget_item"
)

// ResolveOrder reorders active budget items so that every item appears after
// all items it depends on. Items are first sorted by ascending priority with
// a stable sort, so items sharing a priority keep their input order.
//
// The resolver never fails: when the remaining items form one or more cycles
// they are appended in their current order and the calculator treats their
// unresolved dependency terms as zero. Reporting the cycle to the user is the
// validator's job, not the resolver's.
func ResolveOrder(items []budget_item.BudgetItem) []budget_item.BudgetItem {
	pending := make([]budget_item.BudgetItem, len(items))
	copy(pending, items)
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Priority < pending[j].Priority
	})

	resolved := make([]budget_item.BudgetItem, 0, len(pending))
	resolvedIds := make(map[int]struct{}, len(pending))

	for len(pending) > 0 {
		// Scan back-to-front so removal by index stays safe.
		var readyIdx []int
		for i := len(pending) - 1; i >= 0; i-- {
			if dependenciesResolved(pending[i], resolvedIds) {
				readyIdx = append(readyIdx, i)
			}
		}

		if len(readyIdx) == 0 {
			resolved = append(resolved, pending...)
			break
		}

		// readyIdx is collected back-to-front; append in pending order so the
		// stable priority sort survives.
		for i := len(readyIdx) - 1; i >= 0; i-- {
			item := pending[readyIdx[i]]
			resolved = append(resolved, item)
			resolvedIds[item.Id] = struct{}{}
		}
		for _, idx := range readyIdx {
			pending = append(pending[:idx], pending[idx+1:]...)
		}
	}

	return resolved
}

// dependenciesResolved reports whether every dependency of the item is already
// in the resolved set. Dependency ids pointing outside the item set never
// become resolvable and keep the item pending until the cycle fallback kicks
// in; the validator flags those references separately.
func dependenciesResolved(item budget_item.BudgetItem, resolvedIds map[int]struct{}) bool {
	for _, depId := range item.DependsOn {
		if _, ok := resolvedIds[depId]; !ok {
			return false
		}
	}
	return true
}
