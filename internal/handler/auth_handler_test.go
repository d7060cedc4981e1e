package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/middleware"
	"sleepcalc-api/internal/session"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// stubIdentityProvider drives the session manager for handler tests.
type stubIdentityProvider struct {
	mu              sync.Mutex
	resetSession    *domain.Session
	resetSessionErr error
	updatedToken    string
	updatedPassword string
	updateErr       error

	events chan domain.AuthEvent
}

func newStubIdentityProvider() *stubIdentityProvider {
	return &stubIdentityProvider{events: make(chan domain.AuthEvent, 16)}
}

func (p *stubIdentityProvider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return nil, nil
}

func (p *stubIdentityProvider) Subscribe() (<-chan domain.AuthEvent, func()) {
	var once sync.Once
	return p.events, func() {
		once.Do(func() { close(p.events) })
	}
}

func (p *stubIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, nil
}

func (p *stubIdentityProvider) SignInWithIDToken(ctx context.Context, oauthProvider, idToken string) (*domain.Session, error) {
	return nil, nil
}

func (p *stubIdentityProvider) AuthorizeURL(oauthProvider, redirectTo string) string {
	return "https://example.test/authorize"
}

func (p *stubIdentityProvider) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, nil
}

func (p *stubIdentityProvider) SignOut(ctx context.Context) error { return nil }

func (p *stubIdentityProvider) SendPasswordResetEmail(ctx context.Context, email, redirectTo string) error {
	return nil
}

func (p *stubIdentityProvider) RecoverSession(ctx context.Context, accessToken string) (*domain.Session, error) {
	p.mu.Lock()
	session, err := p.resetSession, p.resetSessionErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	p.events <- domain.AuthEvent{Type: domain.AuthEventPasswordRecovery, Session: session}
	return session, nil
}

func (p *stubIdentityProvider) UpdateCurrentUserPassword(ctx context.Context, accessToken, newPassword string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.updateErr != nil {
		return p.updateErr
	}
	p.updatedToken = accessToken
	p.updatedPassword = newPassword
	return nil
}

// nilProfileStore serves no rows; handler tests exercise auth flows only.
type nilProfileStore struct{}

func (nilProfileStore) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return nil, nil
}

type nilProfileCache struct{}

func (nilProfileCache) Load(ctx context.Context, userID string) *domain.Profile { return nil }
func (nilProfileCache) Save(ctx context.Context, profile *domain.Profile)       {}

func newAuthTestHandler(t *testing.T, p *stubIdentityProvider) *AuthHandler {
	t.Helper()
	cfg := &config.Config{FrontendURL: "https://app.example.com"}
	m := session.NewManager(p, nilProfileStore{}, nilProfileCache{}, logger.NewNop())
	m.Start(context.Background())
	t.Cleanup(m.Close)
	return NewAuthHandler(m, nil, cfg, logger.NewNop())
}

func recoverySession(id string) *domain.Session {
	return &domain.Session{
		AccessToken: "recovery-token",
		TokenType:   "bearer",
		User:        &domain.User{ID: id, Email: id + "@example.com"},
	}
}

func TestUpdatePassword_RecoveryTokenEstablishesSession(t *testing.T) {
	p := newStubIdentityProvider()
	p.resetSession = recoverySession("user-a")
	h := newAuthTestHandler(t, p)

	body := `{"password":"new-secret","access_token":"recovery-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/update-password", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdatePassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "password_updated")

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, "recovery-token", p.updatedToken)
	assert.Equal(t, "new-secret", p.updatedPassword)
}

func TestUpdatePassword_RejectedRecoveryTokenIs401(t *testing.T) {
	p := newStubIdentityProvider()
	p.resetSessionErr = errors.NewAuthenticationError("Recovery token is invalid or expired")
	h := newAuthTestHandler(t, p)

	body := `{"password":"new-secret","access_token":"expired-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/update-password", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdatePassword(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The rejected token must never reach the password update.
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Empty(t, p.updatedPassword)
}

func TestUpdatePassword_ShortPasswordIs400(t *testing.T) {
	h := newAuthTestHandler(t, newStubIdentityProvider())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/update-password", strings.NewReader(`{"password":"abc"}`))
	rec := httptest.NewRecorder()
	h.UpdatePassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// fakeClaimsValidator accepts exactly one token value.
type fakeClaimsValidator struct {
	accept string
}

func (f *fakeClaimsValidator) ValidateAccessToken(ctx context.Context, token string) (*domain.AuthClaims, error) {
	if token != f.accept {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}
	return &domain.AuthClaims{Sub: "user-a", Email: "a@example.com"}, nil
}

func dashboardRouter(t *testing.T) *chi.Mux {
	t.Helper()
	cfg := &config.Config{FrontendURL: "https://app.example.com"}
	h := newAuthTestHandler(t, newStubIdentityProvider())

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthRedirect(&fakeClaimsValidator{accept: "good-token"}, cfg, logger.NewNop()))
		r.Get(config.DashboardPath, h.DashboardRedirect)
	})
	return r
}

func TestDashboardRedirect_AuthenticatedVisitorLandsOnFrontend(t *testing.T) {
	r := dashboardRouter(t)

	req := httptest.NewRequest(http.MethodGet, config.DashboardPath, nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "good-token"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://app.example.com"+config.DashboardPath, rec.Header().Get("Location"))
}

func TestDashboardRedirect_AnonymousVisitorBouncesToLogin(t *testing.T) {
	r := dashboardRouter(t)

	req := httptest.NewRequest(http.MethodGet, config.DashboardPath, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "app.example.com", location.Host)
	assert.Equal(t, config.LoginPath, location.Path)
	assert.Equal(t, config.DashboardPath, location.Query().Get("redirectTo"))
}
