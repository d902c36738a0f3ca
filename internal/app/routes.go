package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Income sources
	r.HandleFunc("/api/income", deps.IncomeHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/income", deps.IncomeHandler.Create).Methods("POST")
	r.HandleFunc("/api/income/{id}", deps.IncomeHandler.Update).Methods("PUT")
	r.HandleFunc("/api/income/{id}", deps.IncomeHandler.Delete).Methods("DELETE")

	// Budget items
	r.HandleFunc("/api/item", deps.BudgetItemHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/item", deps.BudgetItemHandler.Create).Methods("POST")
	r.HandleFunc("/api/item/{id}", deps.BudgetItemHandler.Update).Methods("PUT")
	r.HandleFunc("/api/item/{id}", deps.BudgetItemHandler.Delete).Methods("DELETE")

	// Allocation engine
	r.HandleFunc("/api/allocation/preview", deps.AllocationHandler.Preview).Methods("GET")

	// Validation and conflict resolution
	r.HandleFunc("/api/validation", deps.ValidationHandler.Validate).Methods("GET")
	r.HandleFunc("/api/validation/resolutions", deps.ValidationHandler.Resolutions).Methods("GET")
	r.HandleFunc("/api/validation/resolutions/apply", deps.ValidationHandler.ApplyResolutions).Methods("POST")

	// Pay periods
	r.HandleFunc("/api/payperiod", deps.PayPeriodHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/payperiod", deps.PayPeriodHandler.Create).Methods("POST")
	r.HandleFunc("/api/payperiod/{id}", deps.PayPeriodHandler.Get).Methods("GET")
	r.HandleFunc("/api/payperiod/{id}/actual", deps.PayPeriodHandler.RecordActualNet).Methods("PUT")
	r.HandleFunc("/api/payperiod/{id}/allocations/{allocationId}/actual", deps.PayPeriodHandler.RecordAllocationActual).Methods("PUT")
	r.HandleFunc("/api/payperiod/{id}/complete", deps.PayPeriodHandler.Complete).Methods("POST")
	r.HandleFunc("/api/payperiod/{id}/reconciliation", deps.PayPeriodHandler.Reconciliation).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
}
