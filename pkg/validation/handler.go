package validation

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

type IssueDTO struct {
	Id            string `json:"id"`
	Kind          string `json:"kind"`
	Severity      string `json:"severity"`
	Category      string `json:"category"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	AffectedItems []int  `json:"affectedItems,omitempty"`
	SuggestedFix  string `json:"suggestedFix,omitempty"`
	AutoFixable   bool   `json:"autoFixable"`
}

type SummaryDTO struct {
	Errors           int             `json:"errors"`
	Warnings         int             `json:"warnings"`
	Infos            int             `json:"infos"`
	TotalAllocated   decimal.Decimal `json:"totalAllocated"`
	Remaining        decimal.Decimal `json:"remaining"`
	PercentAllocated decimal.Decimal `json:"percentAllocated"`
}

type ResultDTO struct {
	IsValid bool       `json:"isValid"`
	Issues  []IssueDTO `json:"issues"`
	Summary SummaryDTO `json:"summary"`
}

type FieldChangeDTO struct {
	ItemId   int    `json:"itemId"`
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

type ResolutionDTO struct {
	IssueId     string           `json:"issueId"`
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Changes     []FieldChangeDTO `json:"changes"`
}

type ApplyRequestDTO struct {
	IssueIds []string `json:"issueIds"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Validate godoc
// @Summary Validate the budget
// @Description Run all validation checks over the current user's active budget items and income sources
// @Tags Validation
// @Produce json
// @Success 200 {object} ResultDTO
// @Failure 403 {string} string "User not found"
// @Router /api/validation [get]
// @Security XUserId
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Validating budget")
	w.Header().Set("Content-Type", "application/json")

	result, err := h.service.Validate(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Resolutions godoc
// @Summary List proposed fixes
// @Description Propose a concrete fix for every auto-fixable validation issue
// @Tags Validation
// @Produce json
// @Success 200 {array} ResolutionDTO
// @Failure 403 {string} string "User not found"
// @Router /api/validation/resolutions [get]
// @Security XUserId
func (h *Handler) Resolutions(w http.ResponseWriter, r *http.Request) {
	log.Debug("Generating conflict resolutions")
	w.Header().Set("Content-Type", "application/json")

	resolutions, err := h.service.Resolutions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ResolutionDTO, 0, len(resolutions))
	for _, resolution := range resolutions {
		dtos = append(dtos, resolutionToDTO(resolution))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ApplyResolutions godoc
// @Summary Apply proposed fixes
// @Description Apply the resolutions for the given issue ids, persist the fixed items and return the fresh validation result
// @Tags Validation
// @Accept json
// @Produce json
// @Param request body ApplyRequestDTO true "Issue ids to fix"
// @Success 200 {object} ResultDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 403 {string} string "User not found"
// @Router /api/validation/resolutions/apply [post]
// @Security XUserId
func (h *Handler) ApplyResolutions(w http.ResponseWriter, r *http.Request) {
	log.Debug("Applying conflict resolutions")
	w.Header().Set("Content-Type", "application/json")

	var request ApplyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(request.IssueIds) == 0 {
		http.Error(w, "No issue ids provided", http.StatusBadRequest)
		return
	}

	result, err := h.service.ApplyResolutions(r.Context(), request.IssueIds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func resultToDTO(result Result) ResultDTO {
	issues := make([]IssueDTO, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, IssueDTO{
			Id:            issue.Id,
			Kind:          string(issue.Kind),
			Severity:      string(issue.Severity),
			Category:      string(issue.Category),
			Title:         issue.Title,
			Message:       issue.Message,
			AffectedItems: issue.AffectedItems,
			SuggestedFix:  issue.SuggestedFix,
			AutoFixable:   issue.AutoFixable,
		})
	}
	return ResultDTO{
		IsValid: result.IsValid,
		Issues:  issues,
		Summary: SummaryDTO{
			Errors:           result.Summary.Errors,
			Warnings:         result.Summary.Warnings,
			Infos:            result.Summary.Infos,
			TotalAllocated:   result.Summary.TotalAllocated,
			Remaining:        result.Summary.Remaining,
			PercentAllocated: result.Summary.PercentAllocated,
		},
	}
}

func resolutionToDTO(resolution Resolution) ResolutionDTO {
	changes := make([]FieldChangeDTO, 0, len(resolution.Changes))
	for _, change := range resolution.Changes {
		changes = append(changes, FieldChangeDTO{
			ItemId:   change.ItemId,
			Field:    change.Field,
			OldValue: change.OldValue,
			NewValue: change.NewValue,
		})
	}
	return ResolutionDTO{
		IssueId:     resolution.IssueId,
		Type:        string(resolution.Type),
		Description: resolution.Description,
		Changes:     changes,
	}
}
