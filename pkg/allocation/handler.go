package allocation

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

type ResultDTO struct {
	BudgetItemId    int             `json:"budgetItemId"`
	Name            string          `json:"name"`
	ExpectedAmount  decimal.Decimal `json:"expectedAmount"`
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	Percentage      decimal.Decimal `json:"percentage"`
	DependencyTotal decimal.Decimal `json:"dependencyTotal"`
}

type SummaryDTO struct {
	TotalAllocated   decimal.Decimal `json:"totalAllocated"`
	Remaining        decimal.Decimal `json:"remaining"`
	PercentAllocated decimal.Decimal `json:"percentAllocated"`
	HealthScore      int             `json:"healthScore"`
	Status           string          `json:"status"`
}

type PreviewDTO struct {
	IncomeSourceId int         `json:"incomeSourceId"`
	Results        []ResultDTO `json:"results"`
	Summary        SummaryDTO  `json:"summary"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Preview godoc
// @Summary Preview budget allocations
// @Description Compute expected allocations and budget health for the current user's active items
// @Tags Allocation
// @Produce json
// @Success 200 {object} PreviewDTO
// @Failure 403 {string} string "User not found"
// @Failure 409 {string} string "No active income source"
// @Router /api/allocation/preview [get]
// @Security XUserId
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	log.Debug("Computing allocation preview")
	w.Header().Set("Content-Type", "application/json")

	preview, err := h.service.Preview(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoIncomeSource) {
			http.Error(w, "No active income source", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(previewToDTO(preview)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func previewToDTO(preview Preview) PreviewDTO {
	namesById := make(map[int]string, len(preview.Ordered))
	for _, item := range preview.Ordered {
		namesById[item.Id] = item.Name
	}

	results := make([]ResultDTO, 0, len(preview.Results))
	for _, result := range preview.Results {
		results = append(results, ResultDTO{
			BudgetItemId:    result.BudgetItemId,
			Name:            namesById[result.BudgetItemId],
			ExpectedAmount:  result.ExpectedAmount,
			BaseAmount:      result.Details.BaseAmount,
			Percentage:      result.Details.Percentage,
			DependencyTotal: result.Details.DependencyTotal,
		})
	}

	return PreviewDTO{
		IncomeSourceId: preview.Source.Id,
		Results:        results,
		Summary: SummaryDTO{
			TotalAllocated:   preview.Summary.TotalAllocated,
			Remaining:        preview.Summary.Remaining,
			PercentAllocated: preview.Summary.PercentAllocated,
			HealthScore:      preview.Summary.HealthScore,
			Status:           string(preview.Summary.Status),
		},
	}
}
