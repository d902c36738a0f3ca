package income

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/centava/centava/pkg/cadence"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

type SourceDTO struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	Cadence     string          `json:"cadence"`
	IsActive    bool            `json:"isActive"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetAll godoc
// @Summary List income sources
// @Description Get all income sources for the current user
// @Tags Income
// @Produce json
// @Success 200 {array} SourceDTO
// @Failure 403 {string} string "User not found"
// @Router /api/income [get]
// @Security XUserId
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	includeInactive := r.URL.Query().Has("includeInactive")

	sources, err := h.service.GetAll(r.Context(), includeInactive)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sourcesDTO := make([]SourceDTO, 0, len(sources))
	for _, source := range sources {
		sourcesDTO = append(sourcesDTO, sourceToDTO(source))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sourcesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Create godoc
// @Summary Register a new income source
// @Description Create an income source with gross and net amounts
// @Tags Income
// @Accept json
// @Produce json
// @Param source body SourceDTO true "Income source"
// @Success 201 {object} SourceDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Router /api/income [post]
// @Security XUserId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new income source")
	w.Header().Set("Content-Type", "application/json")

	var sourceDTO SourceDTO
	if err := json.NewDecoder(r.Body).Decode(&sourceDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !cadence.Cadence(sourceDTO.Cadence).Valid() {
		http.Error(w, "Invalid cadence", http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), dtoToSource(sourceDTO))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(sourceToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Update godoc
// @Summary Update an income source
// @Description Update an income source by ID
// @Tags Income
// @Accept json
// @Produce json
// @Param id path int true "Income source ID"
// @Param source body SourceDTO true "Income source"
// @Success 200 {object} SourceDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Income source not found"
// @Router /api/income/{id} [put]
// @Security XUserId
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	sourceId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var sourceDTO SourceDTO
	if err := json.NewDecoder(r.Body).Decode(&sourceDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sourceDTO.Id == 0 || sourceDTO.Id != sourceId {
		http.Error(w, "Invalid income source id in request body", http.StatusBadRequest)
		return
	}
	if !cadence.Cadence(sourceDTO.Cadence).Valid() {
		http.Error(w, "Invalid cadence", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), dtoToSource(sourceDTO))
	if err != nil {
		if errors.Is(err, ErrSourceNotFound) {
			http.Error(w, "Income source not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sourceToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Delete godoc
// @Summary Delete an income source
// @Tags Income
// @Param id path int true "Income source ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "Income source not found"
// @Router /api/income/{id} [delete]
// @Security XUserId
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sourceId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(r.Context(), sourceId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Income source not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sourceToDTO(source Source) SourceDTO {
	return SourceDTO{
		Id:          source.Id,
		Name:        source.Name,
		GrossAmount: source.GrossAmount,
		NetAmount:   source.NetAmount,
		Cadence:     string(source.Cadence),
		IsActive:    source.IsActive,
	}
}

func dtoToSource(dto SourceDTO) Source {
	return Source{
		Id:          dto.Id,
		Name:        dto.Name,
		GrossAmount: dto.GrossAmount,
		NetAmount:   dto.NetAmount,
		Cadence:     cadence.Cadence(dto.Cadence),
		IsActive:    dto.IsActive,
	}
}
