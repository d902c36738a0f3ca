package payperiod

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/centava/centava/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

// ReconciliationRenderer renders a reconciliation report in an alternative
// representation (currently CSV).
type ReconciliationRenderer interface {
	RenderReport(report ReconciliationReport) (string, error)
}

type PayPeriodDTO struct {
	Id          int              `json:"id"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	ExpectedNet decimal.Decimal  `json:"expectedNet"`
	ActualNet   *decimal.Decimal `json:"actualNet,omitempty"`
	Status      string           `json:"status"`
}

type AllocationDTO struct {
	Id             int              `json:"id"`
	BudgetItemId   int              `json:"budgetItemId"`
	BudgetItemName string           `json:"budgetItemName"`
	ExpectedAmount decimal.Decimal  `json:"expectedAmount"`
	ActualAmount   *decimal.Decimal `json:"actualAmount,omitempty"`
	Status         string           `json:"status"`
}

type PayPeriodDetailsDTO struct {
	PayPeriodDTO
	Allocations []AllocationDTO `json:"allocations"`
}

type CreateRequestDTO struct {
	StartDate string `json:"startDate"`
}

type ActualAmountDTO struct {
	Amount decimal.Decimal `json:"amount"`
}

type ReconciliationLineDTO struct {
	BudgetItemId       int              `json:"budgetItemId"`
	BudgetItemName     string           `json:"budgetItemName"`
	ExpectedAmount     decimal.Decimal  `json:"expectedAmount"`
	ActualAmount       *decimal.Decimal `json:"actualAmount,omitempty"`
	Variance           decimal.Decimal  `json:"variance"`
	VariancePercentage decimal.Decimal  `json:"variancePercentage"`
	Status             string           `json:"status"`
}

type ReconciliationReportDTO struct {
	PayPeriodId        int                     `json:"payPeriodId"`
	Status             string                  `json:"status"`
	ExpectedNet        decimal.Decimal         `json:"expectedNet"`
	ActualNet          *decimal.Decimal        `json:"actualNet,omitempty"`
	NetVariance        decimal.Decimal         `json:"netVariance"`
	NetVariancePercent decimal.Decimal         `json:"netVariancePercent"`
	Lines              []ReconciliationLineDTO `json:"lines"`
	UnallocatedAmount  decimal.Decimal         `json:"unallocatedAmount"`
}

const dateLayout = "2006-01-02"

type Handler struct {
	service     Service
	csvRenderer ReconciliationRenderer
}

func NewHandler(service Service, csvRenderer ReconciliationRenderer) *Handler {
	return &Handler{service, csvRenderer}
}

// Create godoc
// @Summary Open a new pay period
// @Description Open a pay period starting at the given date (today when omitted) and snapshot the expected allocations
// @Tags PayPeriod
// @Accept json
// @Produce json
// @Param request body CreateRequestDTO true "Pay period start"
// @Success 201 {object} PayPeriodDetailsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 403 {string} string "User not found"
// @Failure 409 {string} string "No active income source"
// @Router /api/payperiod [post]
// @Security XUserId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating pay period")
	w.Header().Set("Content-Type", "application/json")

	var request CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var startDate time.Time
	if request.StartDate != "" {
		var err error
		startDate, err = time.Parse(dateLayout, request.StartDate)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid startDate format",
				Details: "startDate must be in YYYY-MM-DD format",
			}); encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
	}

	period, allocations, err := h.service.Create(r.Context(), startDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(detailsToDTO(period, allocations)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetAll godoc
// @Summary List pay periods
// @Tags PayPeriod
// @Produce json
// @Success 200 {array} PayPeriodDTO
// @Failure 403 {string} string "User not found"
// @Router /api/payperiod [get]
// @Security XUserId
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	periods, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]PayPeriodDTO, 0, len(periods))
	for _, period := range periods {
		dtos = append(dtos, periodToDTO(period))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Get godoc
// @Summary Get a pay period with its allocations
// @Tags PayPeriod
// @Produce json
// @Param id path int true "Pay period id"
// @Success 200 {object} PayPeriodDetailsDTO
// @Failure 403 {string} string "User not found"
// @Failure 404 {string} string "Pay period not found"
// @Router /api/payperiod/{id} [get]
// @Security XUserId
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := pathId(w, r, "id")
	if !ok {
		return
	}

	period, allocations, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPeriodNotFound) {
			http.Error(w, "Pay period not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(detailsToDTO(period, allocations)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RecordActualNet godoc
// @Summary Record the actual net income received for a pay period
// @Tags PayPeriod
// @Accept json
// @Produce json
// @Param id path int true "Pay period id"
// @Param request body ActualAmountDTO true "Actual amount"
// @Success 200 {object} PayPeriodDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 404 {string} string "Pay period not found"
// @Failure 409 {string} string "Pay period is already completed"
// @Router /api/payperiod/{id}/actual [put]
// @Security XUserId
func (h *Handler) RecordActualNet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := pathId(w, r, "id")
	if !ok {
		return
	}

	var request ActualAmountDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	period, err := h.service.RecordActualNet(r.Context(), id, request.Amount)
	if err != nil {
		writePeriodError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(periodToDTO(period)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RecordAllocationActual godoc
// @Summary Record the actual amount paid for one allocation
// @Tags PayPeriod
// @Accept json
// @Produce json
// @Param id path int true "Pay period id"
// @Param allocationId path int true "Allocation id"
// @Param request body ActualAmountDTO true "Actual amount"
// @Success 200 {object} AllocationDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 404 {string} string "Pay period or allocation not found"
// @Failure 409 {string} string "Pay period is already completed"
// @Router /api/payperiod/{id}/allocations/{allocationId}/actual [put]
// @Security XUserId
func (h *Handler) RecordAllocationActual(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := pathId(w, r, "id")
	if !ok {
		return
	}
	allocationId, ok := pathId(w, r, "allocationId")
	if !ok {
		return
	}

	var request ActualAmountDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	allocation, err := h.service.RecordAllocationActual(r.Context(), id, allocationId, request.Amount)
	if err != nil {
		if errors.Is(err, ErrAllocationNotFound) {
			http.Error(w, "Allocation not found", http.StatusNotFound)
			return
		}
		writePeriodError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(allocationToDTO(allocation)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Complete godoc
// @Summary Close a pay period
// @Tags PayPeriod
// @Produce json
// @Param id path int true "Pay period id"
// @Success 200 {object} PayPeriodDTO
// @Failure 404 {string} string "Pay period not found"
// @Failure 409 {string} string "Pay period is already completed"
// @Router /api/payperiod/{id}/complete [post]
// @Security XUserId
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := pathId(w, r, "id")
	if !ok {
		return
	}

	period, err := h.service.Complete(r.Context(), id)
	if err != nil {
		writePeriodError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(periodToDTO(period)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Reconciliation godoc
// @Summary Reconcile a pay period
// @Description Compare expected allocations against recorded actuals. Returns CSV when requested via the Accept header.
// @Tags PayPeriod
// @Produce json
// @Produce text/csv
// @Param id path int true "Pay period id"
// @Success 200 {object} ReconciliationReportDTO
// @Failure 403 {string} string "User not found"
// @Failure 404 {string} string "Pay period not found"
// @Router /api/payperiod/{id}/reconciliation [get]
// @Security XUserId
func (h *Handler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r, "id")
	if !ok {
		return
	}

	report, err := h.service.Reconciliation(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPeriodNotFound) {
			http.Error(w, "Pay period not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.csvRenderer.RenderReport(report)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reportToDTO(report)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pathId(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writePeriodError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPeriodNotFound):
		http.Error(w, "Pay period not found", http.StatusNotFound)
	case errors.Is(err, ErrPeriodCompleted):
		http.Error(w, "Pay period is already completed", http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func periodToDTO(period PayPeriod) PayPeriodDTO {
	return PayPeriodDTO{
		Id:          period.Id,
		StartDate:   period.StartDate.Format(dateLayout),
		EndDate:     period.EndDate.Format(dateLayout),
		ExpectedNet: period.ExpectedNet,
		ActualNet:   period.ActualNet,
		Status:      string(period.Status),
	}
}

func allocationToDTO(allocation Allocation) AllocationDTO {
	return AllocationDTO{
		Id:             allocation.Id,
		BudgetItemId:   allocation.BudgetItemId,
		BudgetItemName: allocation.BudgetItemName,
		ExpectedAmount: allocation.ExpectedAmount,
		ActualAmount:   allocation.ActualAmount,
		Status:         string(allocation.Status),
	}
}

func detailsToDTO(period PayPeriod, allocations []Allocation) PayPeriodDetailsDTO {
	allocationDTOs := make([]AllocationDTO, 0, len(allocations))
	for _, allocation := range allocations {
		allocationDTOs = append(allocationDTOs, allocationToDTO(allocation))
	}
	return PayPeriodDetailsDTO{
		PayPeriodDTO: periodToDTO(period),
		Allocations:  allocationDTOs,
	}
}

func reportToDTO(report ReconciliationReport) ReconciliationReportDTO {
	lines := make([]ReconciliationLineDTO, 0, len(report.Lines))
	for _, line := range report.Lines {
		lines = append(lines, ReconciliationLineDTO{
			BudgetItemId:       line.BudgetItemId,
			BudgetItemName:     line.BudgetItemName,
			ExpectedAmount:     line.ExpectedAmount,
			ActualAmount:       line.ActualAmount,
			Variance:           line.Variance,
			VariancePercentage: line.VariancePercentage,
			Status:             string(line.Status),
		})
	}
	return ReconciliationReportDTO{
		PayPeriodId:        report.PayPeriodId,
		Status:             string(report.Status),
		ExpectedNet:        report.ExpectedNet,
		ActualNet:          report.ActualNet,
		NetVariance:        report.NetVariance,
		NetVariancePercent: report.NetVariancePercent,
		Lines:              lines,
		UnallocatedAmount:  report.UnallocatedAmount,
	}
}
