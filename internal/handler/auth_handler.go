package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/provider"
	"sleepcalc-api/internal/session"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// AuthHandler exposes the session manager over HTTP
type AuthHandler struct {
	manager *session.Manager
	google  *provider.GoogleOAuth
	config  *config.Config
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(manager *session.Manager, google *provider.GoogleOAuth, cfg *config.Config, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		manager: manager,
		google:  google,
		config:  cfg,
		logger:  log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	Password string `json:"password"`
	// AccessToken is the recovery token carried by a reset-email link. A
	// visitor arriving from the link has no stored session; the token
	// authorizes the change instead.
	AccessToken string `json:"access_token"`
}

// sessionResponse is the snapshot shape returned to the frontend.
type sessionResponse struct {
	Authenticated  bool            `json:"authenticated"`
	Loading        bool            `json:"loading"`
	User           *domain.User    `json:"user,omitempty"`
	Profile        *domain.Profile `json:"profile,omitempty"`
	ProfileLoading bool            `json:"profile_loading"`
}

func snapshotResponse(snap session.Snapshot) sessionResponse {
	return sessionResponse{
		Authenticated:  snap.Authenticated(),
		Loading:        snap.Loading,
		User:           snap.User,
		Profile:        snap.Profile,
		ProfileLoading: snap.ProfileLoading,
	}
}

// GetSession handles GET /api/v1/auth/session
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, snapshotResponse(h.manager.Snapshot()))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, h.logger, errors.NewValidationError("Email and password are required", nil))
		return
	}

	if err := h.manager.SignInWithPassword(r.Context(), req.Email, req.Password); err != nil {
		// Auth failures surface the provider's message; anything else is a 500.
		if errors.IsAuthError(err) {
			respondError(w, h.logger, err)
			return
		}
		respondError(w, h.logger, errors.NewInternalError("Sign-in failed", err))
		return
	}

	respondJSON(w, http.StatusOK, snapshotResponse(h.manager.Snapshot()))
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, h.logger, errors.NewValidationError("Email and password are required", nil))
		return
	}

	if err := h.manager.SignUp(r.Context(), req.Email, req.Password); err != nil {
		if errors.IsAuthError(err) {
			respondError(w, h.logger, err)
			return
		}
		respondError(w, h.logger, errors.NewInternalError("Sign-up failed", err))
		return
	}

	respondJSON(w, http.StatusCreated, snapshotResponse(h.manager.Snapshot()))
}

// Logout handles POST /api/v1/auth/logout. Local state is cleared even when
// provider-side revocation fails; the failure is still reported.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.SignOut(r.Context()); err != nil {
		respondError(w, h.logger, errors.NewExternalError("Sign-out revocation failed", err))
		return
	}
	respondJSON(w, http.StatusOK, snapshotResponse(h.manager.Snapshot()))
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		respondError(w, h.logger, errors.NewValidationError("Email is required", nil))
		return
	}

	if err := h.manager.ResetPassword(r.Context(), req.Email, h.config.ResetPasswordURL()); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "email_sent"})
}

// UpdatePassword handles POST /api/v1/auth/update-password. The recovery
// session established by the reset link authorizes the change.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("Invalid request body", nil))
		return
	}
	if len(req.Password) < 6 {
		respondError(w, h.logger, errors.NewValidationError("Password must be at least 6 characters", nil))
		return
	}

	if req.AccessToken != "" {
		if _, err := h.manager.CompleteRecovery(r.Context(), req.AccessToken); err != nil {
			respondError(w, h.logger, err)
			return
		}
	}

	if err := h.manager.UpdatePassword(r.Context(), req.AccessToken, req.Password); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password_updated"})
}

// GoogleRedirect handles GET /api/v1/auth/google. The browser is sent to
// Google's consent page; redirectTo survives the round trip in state.
func (h *AuthHandler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	redirectTo := r.URL.Query().Get("redirectTo")
	if !safeRedirect(redirectTo) {
		redirectTo = config.DashboardPath
	}
	http.Redirect(w, r, h.google.AuthCodeURL(redirectTo), http.StatusFound)
}

// AuthCallback handles GET /auth/callback: the authorization code is traded
// for a Google ID token, which the identity provider then exchanges for its
// own session. The browser ends up back on the frontend.
func (h *AuthHandler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.logger.WithField("error", errMsg).Warn("OAuth callback returned an error")
		h.redirectToLogin(w, r, "oauth_denied")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectToLogin(w, r, "missing_code")
		return
	}

	idToken, info, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).Error("OAuth code exchange failed")
		h.redirectToLogin(w, r, "exchange_failed")
		return
	}

	if _, err := h.manager.CompleteOAuth(r.Context(), "google", idToken); err != nil {
		h.logger.WithError(err).WithField("email", info.Email).Error("Provider rejected Google ID token")
		h.redirectToLogin(w, r, "signin_failed")
		return
	}

	redirectTo := r.URL.Query().Get("state")
	if !safeRedirect(redirectTo) {
		redirectTo = config.DashboardPath
	}
	http.Redirect(w, r, h.config.FrontendURL+redirectTo, http.StatusFound)
}

// DashboardRedirect handles GET /dashboard: a browser entry point for email
// links and bookmarks aimed at the API host. Authenticated visitors bounce to
// the frontend dashboard; the guard in front of this route sends everyone
// else to the login page.
func (h *AuthHandler) DashboardRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.config.FrontendURL+config.DashboardPath, http.StatusFound)
}

func (h *AuthHandler) redirectToLogin(w http.ResponseWriter, r *http.Request, reason string) {
	target := fmt.Sprintf("%s%s?error=%s", h.config.FrontendURL, config.LoginPath, url.QueryEscape(reason))
	http.Redirect(w, r, target, http.StatusFound)
}

// safeRedirect accepts only same-site relative paths.
func safeRedirect(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//")
}
