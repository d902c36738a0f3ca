package event_bus

const (
	// BudgetItemUpdated is published after any create/update/delete of a budget item.
	BudgetItemUpdated EventType = "budget_item.updated"
	// IncomeSourceUpdated is published after any create/update/delete of an income source.
	IncomeSourceUpdated EventType = "income_source.updated"
)

// BudgetItemChanged is the payload for BudgetItemUpdated. ItemId is 0 for
// deletions where only the owner matters to subscribers.
type BudgetItemChanged struct {
	UserId int
	ItemId int
}

// IncomeSourceChanged is the payload for IncomeSourceUpdated.
type IncomeSourceChanged struct {
	UserId   int
	SourceId int
}
