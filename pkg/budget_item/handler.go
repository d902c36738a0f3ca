package budget_item

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/centava/centava/pkg/cadence"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

type ItemDTO struct {
	Id        int             `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	CalcType  string          `json:"calcType"`
	Value     decimal.Decimal `json:"value"`
	Cadence   string          `json:"cadence"`
	DependsOn []int           `json:"dependsOn,omitempty"`
	Priority  int             `json:"priority"`
	IsActive  bool            `json:"isActive"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetAll godoc
// @Summary List budget items
// @Description Get all budget items for the current user
// @Tags BudgetItem
// @Produce json
// @Success 200 {array} ItemDTO
// @Failure 403 {string} string "User not found"
// @Router /api/item [get]
// @Security XUserId
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	includeInactive := r.URL.Query().Has("includeInactive")

	items, err := h.service.GetAll(r.Context(), includeInactive)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	itemsDTO := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		itemsDTO = append(itemsDTO, ItemToDTO(item))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(itemsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Create godoc
// @Summary Create a budget item
// @Description Create a budget item with its calculation rule and dependencies
// @Tags BudgetItem
// @Accept json
// @Produce json
// @Param item body ItemDTO true "Budget item"
// @Success 201 {object} ItemDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Router /api/item [post]
// @Security XUserId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new budget item")
	w.Header().Set("Content-Type", "application/json")

	var itemDTO ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&itemDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg, ok := validateDTO(itemDTO); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), DTOToItem(itemDTO))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ItemToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Update godoc
// @Summary Update a budget item
// @Tags BudgetItem
// @Accept json
// @Produce json
// @Param id path int true "Budget item ID"
// @Param item body ItemDTO true "Budget item"
// @Success 200 {object} ItemDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Budget item not found"
// @Router /api/item/{id} [put]
// @Security XUserId
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	itemId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var itemDTO ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&itemDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if itemDTO.Id == 0 || itemDTO.Id != itemId {
		http.Error(w, "Invalid budget item id in request body", http.StatusBadRequest)
		return
	}
	if msg, ok := validateDTO(itemDTO); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), DTOToItem(itemDTO))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			http.Error(w, "Budget item not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ItemToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Delete godoc
// @Summary Delete a budget item
// @Tags BudgetItem
// @Param id path int true "Budget item ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Budget item not found"
// @Router /api/item/{id} [delete]
// @Security XUserId
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	itemId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(r.Context(), itemId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Budget item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateDTO rejects values the storage layer should never see. Semantic
// problems (over-allocation, cycles, priority conflicts) are deliberately
// allowed through; the validation endpoint reports those as issues.
func validateDTO(dto ItemDTO) (string, bool) {
	if !Category(dto.Category).Valid() {
		return "Invalid category", false
	}
	if !CalcType(dto.CalcType).Valid() {
		return "Invalid calcType", false
	}
	if !cadence.Cadence(dto.Cadence).Valid() {
		return "Invalid cadence", false
	}
	return "", true
}

func ItemToDTO(item BudgetItem) ItemDTO {
	var endDate *time.Time
	if !item.EndDate.IsZero() {
		endDate = &item.EndDate
	}
	return ItemDTO{
		Id:        item.Id,
		Name:      item.Name,
		Category:  string(item.Category),
		CalcType:  string(item.CalcType),
		Value:     item.Value,
		Cadence:   string(item.Cadence),
		DependsOn: item.DependsOn,
		Priority:  item.Priority,
		IsActive:  item.IsActive,
		EndDate:   endDate,
	}
}

func DTOToItem(dto ItemDTO) BudgetItem {
	var endDate time.Time
	if dto.EndDate != nil {
		endDate = *dto.EndDate
	}
	return BudgetItem{
		Id:        dto.Id,
		Name:      dto.Name,
		Category:  Category(dto.Category),
		CalcType:  CalcType(dto.CalcType),
		Value:     dto.Value,
		Cadence:   cadence.Cadence(dto.Cadence),
		DependsOn: dto.DependsOn,
		Priority:  dto.Priority,
		IsActive:  dto.IsActive,
		EndDate:   endDate,
	}
}
