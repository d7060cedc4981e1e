package handler

import (
	"net/http"
	"strconv"

	"sleepcalc-api/internal/service"
	"sleepcalc-api/pkg/logger"
)

// ReferenceHandler serves the read-only game data endpoints
type ReferenceHandler struct {
	reference service.ReferenceService
	logger    *logger.Logger
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(reference service.ReferenceService, log *logger.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		reference: reference,
		logger:    log,
	}
}

// Pokedex handles GET /api/v1/pokedex?search=&page=&page_size=
func (h *ReferenceHandler) Pokedex(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page, pageSize := pageParams(r)

	result, err := h.reference.GetPokedex(r.Context(), search, page, pageSize)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Recipes handles GET /api/v1/recipes?type=&page=&page_size=
func (h *ReferenceHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	recipeType := r.URL.Query().Get("type")
	page, pageSize := pageParams(r)

	result, err := h.reference.GetRecipes(r.Context(), recipeType, page, pageSize)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Ingredients handles GET /api/v1/ingredients?page=&page_size=
func (h *ReferenceHandler) Ingredients(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	result, err := h.reference.GetIngredients(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Skills handles GET /api/v1/skills
func (h *ReferenceHandler) Skills(w http.ResponseWriter, r *http.Request) {
	result, err := h.reference.GetSkills(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Islands handles GET /api/v1/islands
func (h *ReferenceHandler) Islands(w http.ResponseWriter, r *http.Request) {
	result, err := h.reference.GetIslands(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"islands": result})
}

// Natures handles GET /api/v1/natures
func (h *ReferenceHandler) Natures(w http.ResponseWriter, r *http.Request) {
	result, err := h.reference.GetNatures(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"natures": result})
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}
