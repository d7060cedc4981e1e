package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/middleware"
	"sleepcalc-api/internal/service"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// TeamHandler serves the five-slot roster endpoints
type TeamHandler struct {
	teams  service.TeamService
	logger *logger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teams service.TeamService, log *logger.Logger) *TeamHandler {
	return &TeamHandler{
		teams:  teams,
		logger: log,
	}
}

// Get handles GET /api/v1/team
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	views, err := h.teams.GetTeam(r.Context(), user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"slots": views})
}

// SetSlot handles PUT /api/v1/team/slots/{slot}
func (h *TeamHandler) SetSlot(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid slot number", nil))
		return
	}

	var req domain.SetSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	if err := h.teams.SetSlot(r.Context(), user.ID, slot, req.PokemonBankID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ClearSlot handles DELETE /api/v1/team/slots/{slot}
func (h *TeamHandler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid slot number", nil))
		return
	}

	if err := h.teams.ClearSlot(r.Context(), user.ID, slot); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Swap handles POST /api/v1/team/swap
func (h *TeamHandler) Swap(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	var req domain.SwapSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	if err := h.teams.SwapSlots(r.Context(), user.ID, req.SlotA, req.SlotB); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "swapped"})
}
