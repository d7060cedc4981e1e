package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

type fakeTokenService struct {
	claims *domain.AuthClaims
	err    error
}

func (f *fakeTokenService) ValidateAccessToken(ctx context.Context, token string) (*domain.AuthClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func validClaims() *domain.AuthClaims {
	return &domain.AuthClaims{Sub: "user-a", Email: "a@example.com", EmailVerified: true}
}

func echoUserHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User-ID", user.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := &fakeTokenService{claims: validClaims()}
	handler := Auth(tokens, logger.NewNop())(echoUserHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-a", rec.Header().Get("X-User-ID"))
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		tokens     *fakeTokenService
	}{
		{
			name:   "missing header",
			tokens: &fakeTokenService{claims: validClaims()},
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			tokens:     &fakeTokenService{claims: validClaims()},
		},
		{
			name:       "empty bearer token",
			authHeader: "Bearer ",
			tokens:     &fakeTokenService{claims: validClaims()},
		},
		{
			name:       "validation failure",
			authHeader: "Bearer expired-token",
			tokens:     &fakeTokenService{err: errors.NewAuthenticationError("Invalid or expired token")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(tt.tokens, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestRequireAuthRedirect_CookieAccepted(t *testing.T) {
	tokens := &fakeTokenService{claims: validClaims()}
	cfg := &config.Config{FrontendURL: "https://app.example.com"}
	handler := RequireAuthRedirect(tokens, cfg, logger.NewNop())(echoUserHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "cookie-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-a", rec.Header().Get("X-User-ID"))
}

func TestRequireAuthRedirect_RedirectsWithReturnPath(t *testing.T) {
	tokens := &fakeTokenService{err: errors.NewAuthenticationError("Invalid or expired token")}
	cfg := &config.Config{FrontendURL: "https://app.example.com"}
	handler := RequireAuthRedirect(tokens, cfg, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard?tab=team", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "app.example.com", location.Host)
	assert.Equal(t, config.LoginPath, location.Path)
	assert.Equal(t, "/dashboard?tab=team", location.Query().Get("redirectTo"))
}

func TestRequestID_SetsHeaderAndContext(t *testing.T) {
	var fromContext string
	handler := RequestID(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext, _ = r.Context().Value(RequestIDContextKey).(string)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), fromContext)
}

func TestUserFromContext_Missing(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
