package handler

import (
	"encoding/json"
	"net/http"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/middleware"
	"sleepcalc-api/internal/service"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// RecommendationHandler serves the team recommendation endpoint
type RecommendationHandler struct {
	recommendations service.RecommendationService
	logger          *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendations service.RecommendationService, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		logger:          log,
	}
}

// Recommend handles POST /api/v1/recommendation
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	var req domain.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	rows, err := h.recommendations.Recommend(r.Context(), user.ID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"team": rows})
}
