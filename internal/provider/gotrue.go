package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// GoTrueClient talks to the Supabase auth endpoints. It owns the persisted
// session; the manager only mirrors it through the event stream.
type GoTrueClient struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logger.Logger

	mu          sync.Mutex
	session     *domain.Session
	subscribers map[int]chan domain.AuthEvent
	nextSubID   int
}

// NewGoTrueClient creates a new identity provider client
func NewGoTrueClient(cfg *config.Config, logger *logger.Logger) *GoTrueClient {
	return &GoTrueClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:      logger,
		subscribers: make(map[int]chan domain.AuthEvent),
	}
}

// sessionResponse is the token endpoint's wire format.
type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

func (r *sessionResponse) toSession() *domain.Session {
	// A token without a user is malformed; treat it as no session so callers
	// surface an auth error instead of dereferencing nil downstream.
	if r.AccessToken == "" || r.User == nil {
		return nil
	}
	expiresAt := time.Unix(r.ExpiresAt, 0)
	if r.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return &domain.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		ExpiresAt:    expiresAt,
		User:         r.User,
	}
}

// errorResponse covers the error shapes the auth endpoints return.
type errorResponse struct {
	Message          string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r *errorResponse) message() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.ErrorDescription != "":
		return r.ErrorDescription
	case r.Error != "":
		return r.Error
	}
	return "authentication failed"
}

// Subscribe registers a new event channel; the returned func unsubscribes.
func (c *GoTrueClient) Subscribe() (<-chan domain.AuthEvent, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++

	// Buffered so a slow consumer cannot block the emitting call path.
	ch := make(chan domain.AuthEvent, 16)
	c.subscribers[id] = ch

	unsubscribe := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// emit publishes an event to every subscriber. A full buffer evicts the
// oldest queued event so the newest one always lands; the consumer's reducer
// is last-write-wins, so losing stale intermediate events is safe. Callers
// must hold c.mu.
func (c *GoTrueClient) emit(event domain.AuthEvent) {
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
			continue
		default:
		}

		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
			c.logger.WithField("event", string(event.Type)).Warn("Subscriber buffer full, evicted oldest auth event")
		default:
		}
	}
}

// setSession swaps the stored session and notifies subscribers.
func (c *GoTrueClient) setSession(session *domain.Session, eventType domain.AuthEventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.emit(domain.AuthEvent{Type: eventType, Session: session})
}

// CurrentSession recovers the persisted session, refreshing an expired one.
// A missing session is not an error.
func (c *GoTrueClient) CurrentSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, nil
	}

	if !session.Expired(time.Now()) {
		return session, nil
	}

	refreshed, err := c.refreshSession(ctx, session.RefreshToken)
	if err != nil {
		return nil, err
	}
	c.setSession(refreshed, domain.AuthEventTokenRefreshed)
	return refreshed, nil
}

func (c *GoTrueClient) refreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := c.post(ctx, "/auth/v1/token?grant_type=refresh_token", body, "")
	if err != nil {
		return nil, err
	}
	session := resp.toSession()
	if session == nil {
		return nil, errors.NewAuthenticationError("Refresh returned no session")
	}
	return session, nil
}

// SignInWithPassword exchanges credentials for a session. Local state is
// updated through the pushed SignedIn event, not by the return value.
func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.post(ctx, "/auth/v1/token?grant_type=password", body, "")
	if err != nil {
		return nil, err
	}

	session := resp.toSession()
	if session == nil {
		return nil, errors.NewAuthenticationError("Sign-in returned no session")
	}

	c.setSession(session, domain.AuthEventSignedIn)
	c.logger.WithField("user_id", session.User.ID).Debug("Password sign-in completed")
	return session, nil
}

// SignInWithIDToken completes an OAuth flow with the external provider's
// ID token.
func (c *GoTrueClient) SignInWithIDToken(ctx context.Context, oauthProvider, idToken string) (*domain.Session, error) {
	body := map[string]string{"provider": oauthProvider, "id_token": idToken}
	resp, err := c.post(ctx, "/auth/v1/token?grant_type=id_token", body, "")
	if err != nil {
		return nil, err
	}

	session := resp.toSession()
	if session == nil {
		return nil, errors.NewAuthenticationError("OAuth sign-in returned no session")
	}

	c.setSession(session, domain.AuthEventSignedIn)
	c.logger.WithFields(map[string]interface{}{
		"user_id":  session.User.ID,
		"provider": oauthProvider,
	}).Debug("OAuth sign-in completed")
	return session, nil
}

// AuthorizeURL builds the redirect URL starting a third-party OAuth flow.
// prompt=select_account forces the account chooser on repeated logins.
func (c *GoTrueClient) AuthorizeURL(oauthProvider, redirectTo string) string {
	params := url.Values{}
	params.Set("provider", oauthProvider)
	params.Set("redirect_to", redirectTo)
	params.Set("prompt", "select_account")
	return fmt.Sprintf("%s/auth/v1/authorize?%s", c.config.SupabaseURL, params.Encode())
}

// SignUp delegates account creation. Providers with email confirmation
// enabled return a user without a session; no event is emitted until the
// first sign-in.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.post(ctx, "/auth/v1/signup", body, "")
	if err != nil {
		return nil, err
	}

	session := resp.toSession()
	if session != nil {
		c.setSession(session, domain.AuthEventSignedIn)
	}
	return session, nil
}

// SignOut revokes the current session provider-side. The SignedOut event is
// emitted even when revocation fails: the local session is gone either way.
func (c *GoTrueClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.emit(domain.AuthEvent{Type: domain.AuthEventSignedOut})
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	_, err := c.post(ctx, "/auth/v1/logout", map[string]string{}, session.AccessToken)
	if err != nil {
		c.logger.WithError(err).Warn("Provider-side session revocation failed")
		return err
	}
	return nil
}

// SendPasswordResetEmail requests a reset email whose link lands back on
// redirectTo.
func (c *GoTrueClient) SendPasswordResetEmail(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover?redirect_to=" + url.QueryEscape(redirectTo)
	_, err := c.post(ctx, path, map[string]string{"email": email}, "")
	return err
}

// RecoverSession exchanges the access token carried by a reset-email link
// for a provisional session. The token is validated against the user
// endpoint; a PasswordRecovery event carries the session into application
// state so the follow-up password update can complete.
func (c *GoTrueClient) RecoverSession(ctx context.Context, accessToken string) (*domain.Session, error) {
	if accessToken == "" {
		return nil, errors.NewAuthenticationError("Recovery token is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.SupabaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, errors.NewInternalError("Failed to create request", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("Failed to reach identity provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.NewInternalError("Failed to decode provider response", err)
	}
	if user.ID == "" {
		return nil, errors.NewAuthenticationError("Recovery token is invalid or expired")
	}

	// Recovery sessions carry no refresh token; they live only long enough
	// to set a new password.
	session := &domain.Session{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        &user,
	}
	c.setSession(session, domain.AuthEventPasswordRecovery)
	c.logger.WithField("user_id", user.ID).Debug("Recovery session established")
	return session, nil
}

// UpdateCurrentUserPassword updates credentials using accessToken, falling
// back to the stored session's token when none is given.
func (c *GoTrueClient) UpdateCurrentUserPassword(ctx context.Context, accessToken, newPassword string) error {
	if accessToken == "" {
		c.mu.Lock()
		if c.session != nil {
			accessToken = c.session.AccessToken
		}
		c.mu.Unlock()
	}
	if accessToken == "" {
		return errors.NewAuthenticationError("No active session")
	}

	body := map[string]string{"password": newPassword}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return errors.NewInternalError("Failed to marshal request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.config.SupabaseURL+"/auth/v1/user", bytes.NewBuffer(jsonBody))
	if err != nil {
		return errors.NewInternalError("Failed to create request", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewExternalError("Failed to reach identity provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}
	return nil
}

// post issues a JSON POST to an auth endpoint and decodes the session-shaped
// response. accessToken overrides the anon key when set.
func (c *GoTrueClient) post(ctx context.Context, path string, body interface{}, accessToken string) (*sessionResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewInternalError("Failed to marshal request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.SupabaseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, errors.NewInternalError("Failed to create request", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("Failed to reach identity provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.decodeError(resp)
	}

	// Some endpoints (logout, recover) answer with an empty body.
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewInternalError("Failed to read provider response", err)
	}
	sessionResp := &sessionResponse{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, sessionResp); err != nil {
			return nil, errors.NewInternalError("Failed to decode provider response", err)
		}
	}
	return sessionResp, nil
}

func (c *GoTrueClient) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.config.SupabaseAnonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.config.SupabaseAnonKey)
	}
}

func (c *GoTrueClient) decodeError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewAuthenticationError(fmt.Sprintf("Provider returned status %d", resp.StatusCode))
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"status_code":   resp.StatusCode,
			"response_body": string(body),
		}).Error("Unparseable provider error response")
		return errors.NewAuthenticationError(fmt.Sprintf("Provider returned status %d", resp.StatusCode))
	}

	if resp.StatusCode >= 500 {
		return errors.NewExternalError(errResp.message(), nil)
	}
	return errors.NewAuthenticationError(errResp.message())
}
