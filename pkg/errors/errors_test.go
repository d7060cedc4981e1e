package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		errType    ErrorType
		statusCode int
	}{
		{"validation", NewValidationError("bad input", nil), ErrorTypeValidation, http.StatusBadRequest},
		{"authentication", NewAuthenticationError("bad token"), ErrorTypeAuthentication, http.StatusUnauthorized},
		{"authorization", NewAuthorizationError("forbidden"), ErrorTypeAuthorization, http.StatusForbidden},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"internal", NewInternalError("boom", nil), ErrorTypeInternal, http.StatusInternalServerError},
		{"external", NewExternalError("upstream down", nil), ErrorTypeExternal, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.statusCode, tt.err.StatusCode)
		})
	}
}

func TestErrorStringIncludesInternalCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("failed to load profile", cause)

	assert.Contains(t, err.Error(), "failed to load profile")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUnwrapExposesInternalError(t *testing.T) {
	cause := errors.New("row scan failed")
	err := NewInternalError("query failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(NewAuthenticationError("nope")))
	assert.True(t, IsAuthError(fmt.Errorf("login: %w", NewAuthenticationError("nope"))))
	assert.False(t, IsAuthError(NewAuthorizationError("nope")))
	assert.False(t, IsAuthError(errors.New("plain error")))
	assert.False(t, IsAuthError(nil))
}
