package handler

import (
	"encoding/json"
	"net/http"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/middleware"
	"sleepcalc-api/internal/service"
	"sleepcalc-api/internal/session"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// ProfileHandler serves the settings page endpoints
type ProfileHandler struct {
	profiles service.ProfileService
	manager  *session.Manager
	logger   *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles service.ProfileService, manager *session.Manager, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		manager:  manager,
		logger:   log,
	}
}

// Get handles GET /api/v1/profile. A user without a row gets one seeded
// from provider metadata.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if profile == nil {
		profile, err = h.profiles.SeedFromMetadata(r.Context(), user)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, profile)
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	// The manager's cached copy is now stale.
	h.manager.RefreshProfile(r.Context())

	respondJSON(w, http.StatusOK, profile)
}

// Refresh handles POST /api/v1/profile/refresh. Always 202: a fetch failure
// degrades silently and the previous profile stays visible.
func (h *ProfileHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		respondError(w, h.logger, errors.NewAuthenticationError("Authentication required"))
		return
	}

	h.manager.RefreshProfile(r.Context())
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}
