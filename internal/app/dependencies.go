package app

import (
	"github.com/centava/centava/internal/event_bus"
	"github.com/centava/centava/internal/utils"
	"github.com/centava/centava/pkg/allocation"
	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/income"
	"github.com/centava/centava/pkg/payperiod"
	"github.com/centava/centava/pkg/user"
	"github.com/centava/centava/pkg/validation"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	IncomeRepo    income.Repository
	IncomeService *income.ServiceImpl
	IncomeHandler *income.Handler

	BudgetItemRepo    budget_item.Repository
	BudgetItemService *budget_item.ServiceImpl
	BudgetItemHandler *budget_item.Handler

	AllocationService *allocation.ServiceImpl
	AllocationHandler *allocation.Handler

	ValidationService *validation.ServiceImpl
	ValidationHandler *validation.Handler

	PayPeriodRepo     payperiod.Repository
	PayPeriodService  *payperiod.ServiceImpl
	CsvReconciliation *payperiod.CsvReconciliationRendererImpl
	PayPeriodHandler  *payperiod.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.IncomeRepo = income.NewRepository(db)
	deps.IncomeService = income.NewService(deps.IncomeRepo, deps.EventBus)
	deps.IncomeHandler = income.NewHandler(deps.IncomeService)

	deps.BudgetItemRepo = budget_item.NewRepository(db)
	deps.BudgetItemService = budget_item.NewService(deps.BudgetItemRepo, deps.EventBus)
	deps.BudgetItemHandler = budget_item.NewHandler(deps.BudgetItemService)

	deps.AllocationService = allocation.NewService(deps.BudgetItemRepo, deps.IncomeRepo)
	deps.AllocationHandler = allocation.NewHandler(deps.AllocationService)

	deps.ValidationService = validation.NewService(deps.BudgetItemRepo, deps.IncomeRepo, deps.BudgetItemService, deps.EventBus)
	deps.ValidationHandler = validation.NewHandler(deps.ValidationService)

	deps.Clock = &utils.SystemClock{}
	deps.PayPeriodRepo = payperiod.NewRepository(db)
	deps.PayPeriodService = payperiod.NewService(deps.PayPeriodRepo, deps.AllocationService, deps.Clock)
	deps.CsvReconciliation = payperiod.NewCsvReconciliationRenderer()
	deps.PayPeriodHandler = payperiod.NewHandler(deps.PayPeriodService, deps.CsvReconciliation)

	return deps
}
