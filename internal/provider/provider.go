package provider

import (
	"context"

	"sleepcalc-api/internal/domain"
)

// IdentityProvider is the surface the session manager consumes. All
// failure-capable calls return an authentication AppError carrying the
// provider's human-readable message.
type IdentityProvider interface {
	// CurrentSession recovers the persisted session, refreshing it when the
	// validity window has passed. A missing session is (nil, nil).
	CurrentSession(ctx context.Context) (*domain.Session, error)

	// Subscribe registers for provider-pushed auth change events. The
	// returned func unsubscribes and closes the channel.
	Subscribe() (<-chan domain.AuthEvent, func())

	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)

	// SignInWithIDToken completes a third-party OAuth flow with the ID token
	// obtained from the external provider.
	SignInWithIDToken(ctx context.Context, oauthProvider, idToken string) (*domain.Session, error)

	// AuthorizeURL builds the redirect URL that starts a third-party OAuth
	// flow; the browser navigates away and later returns to redirectTo.
	AuthorizeURL(oauthProvider, redirectTo string) string

	SignUp(ctx context.Context, email, password string) (*domain.Session, error)

	// SignOut revokes the current session provider-side.
	SignOut(ctx context.Context) error

	SendPasswordResetEmail(ctx context.Context, email, redirectTo string) error

	// RecoverSession exchanges the access token carried by a reset-email link
	// for a provisional session and emits a PasswordRecovery event.
	RecoverSession(ctx context.Context, accessToken string) (*domain.Session, error)

	// UpdateCurrentUserPassword changes credentials using accessToken, or the
	// stored session's token when accessToken is empty.
	UpdateCurrentUserPassword(ctx context.Context, accessToken, newPassword string) error
}
