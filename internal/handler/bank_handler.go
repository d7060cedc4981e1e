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

// BankHandler serves the pokemon collection endpoints
type BankHandler struct {
	bank   service.BankService
	logger *logger.Logger
}

// NewBankHandler creates a new bank handler
func NewBankHandler(bank service.BankService, log *logger.Logger) *BankHandler {
	return &BankHandler{
		bank:   bank,
		logger: log,
	}
}

// List handles GET /api/v1/bank
func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	entries, err := h.bank.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Create handles POST /api/v1/bank
func (h *BankHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	var req domain.SaveBankEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	id, err := h.bank.Create(r.Context(), user.ID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Update handles PUT /api/v1/bank/{id}
func (h *BankHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid entry id", nil))
		return
	}

	var req domain.SaveBankEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	if err := h.bank.Update(r.Context(), user.ID, id, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /api/v1/bank/{id}
func (h *BankHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid entry id", nil))
		return
	}

	if err := h.bank.Delete(r.Context(), user.ID, id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
