package domain

import "time"

// User represents an identity-provider principal.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	// Metadata is the provider's free-form bag. Used opportunistically to
	// seed profile fields (display name, avatar) on first login.
	Metadata  map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Session is the token bundle issued by the identity provider. The manager
// only holds a cached copy; the provider owns the lifecycle.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// Expired reports whether the access token's validity window has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthEventType tags events on the provider change stream.
type AuthEventType string

const (
	AuthEventSignedIn         AuthEventType = "SIGNED_IN"
	AuthEventSignedOut        AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed   AuthEventType = "TOKEN_REFRESHED"
	AuthEventPasswordRecovery AuthEventType = "PASSWORD_RECOVERY"
)

// AuthEvent is one provider-pushed session change. Session is nil for
// AuthEventSignedOut and non-nil for the other variants.
type AuthEvent struct {
	Type    AuthEventType
	Session *Session
}

// AuthClaims represents validated access-token JWT claims
type AuthClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Aud           string `json:"aud"`
	Iss           string `json:"iss"`
	Iat           int64  `json:"iat"`
	Exp           int64  `json:"exp"`
}
