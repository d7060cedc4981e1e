package session

import (
	"context"
	"sync"
	"time"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/provider"
	"sleepcalc-api/pkg/logger"
)

// profileFetchTimeout bounds the background authoritative fetch.
const profileFetchTimeout = 10 * time.Second

// ProfileStore is the remote row store for profiles. Absence of a row is
// (nil, nil), not an error.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

// Snapshot is the read state exposed to the rest of the application.
type Snapshot struct {
	User           *domain.User    `json:"user"`
	Session        *domain.Session `json:"session"`
	Loading        bool            `json:"loading"`
	Profile        *domain.Profile `json:"profile"`
	ProfileLoading bool            `json:"profile_loading"`
}

// Authenticated reports whether a user is present.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// Manager is the single source of truth for who is logged in and what we
// know about them. It bridges the provider's asynchronous event stream into
// application state and keeps the profile cache coherent with the current
// user identity.
type Manager struct {
	provider provider.IdentityProvider
	store    ProfileStore
	cache    ProfileCache
	logger   *logger.Logger

	mu             sync.Mutex
	user           *domain.User
	session        *domain.Session
	loading        bool
	profile        *domain.Profile
	profileLoading bool

	// profileGen numbers each profile fetch issuance; only the latest
	// generation may apply its result.
	profileGen uint64

	// eventApplied guards the initial recovery result: once any pushed
	// event has landed, a later-resolving recovery must not clobber it.
	eventApplied bool
	closed       bool

	unsubscribe func()
	wg          sync.WaitGroup
}

// NewManager creates the session manager. Call Start to begin session
// restoration and event consumption.
func NewManager(idp provider.IdentityProvider, store ProfileStore, cache ProfileCache, logger *logger.Logger) *Manager {
	return &Manager{
		provider: idp,
		store:    store,
		cache:    cache,
		logger:   logger,
		loading:  true,
	}
}

// Start subscribes to the provider event stream and issues the one initial
// session recovery. Both paths funnel into the same reducer.
func (m *Manager) Start(ctx context.Context) {
	events, unsubscribe := m.provider.Subscribe()
	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for event := range events {
			m.applyEvent(event)
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		session, err := m.provider.CurrentSession(ctx)
		if err != nil {
			m.logger.WithError(err).Error("Initial session recovery failed")
			session = nil
		}
		m.applyRecovery(session)
	}()
}

// Close tears the manager down: unsubscribes from the event stream and
// abandons any in-flight recovery result.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	unsubscribe := m.unsubscribe
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	m.wg.Wait()
}

// applyEvent reduces one pushed provider event into (session, user).
func (m *Manager) applyEvent(event domain.AuthEvent) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.eventApplied = true

	switch event.Type {
	case domain.AuthEventSignedIn, domain.AuthEventTokenRefreshed, domain.AuthEventPasswordRecovery:
		m.applySessionLocked(event.Session)
	case domain.AuthEventSignedOut:
		m.applySessionLocked(nil)
	default:
		m.logger.WithField("event", string(event.Type)).Warn("Unknown auth event ignored")
		m.mu.Unlock()
	}
}

// applyRecovery is the initial-restoration half of the reducer. It no-ops
// when a pushed event already won or the manager was torn down.
func (m *Manager) applyRecovery(session *domain.Session) {
	m.mu.Lock()
	if m.closed || m.eventApplied {
		m.mu.Unlock()
		return
	}
	m.applySessionLocked(session)
}

// applySessionLocked is the shared last-write-wins reducer body. It replaces
// (session, user) wholesale, clears loading, and kicks profile revalidation
// when the user identity changed. Callers must hold m.mu; the lock is
// released here.
func (m *Manager) applySessionLocked(session *domain.Session) {
	prevID := userID(m.user)

	m.session = session
	if session != nil {
		m.user = session.User
	} else {
		m.user = nil
	}
	m.loading = false

	newID := userID(m.user)
	if newID == prevID {
		m.mu.Unlock()
		return
	}
	m.revalidateProfileLocked(newID)
}

// revalidateProfileLocked runs the cache-then-network protocol for a user
// identity change. Callers must hold m.mu; the lock is released here.
func (m *Manager) revalidateProfileLocked(newID string) {
	if newID == "" {
		m.profile = nil
		m.profileGen++ // invalidate any in-flight fetch
		m.profileLoading = false
		m.mu.Unlock()
		m.cache.Save(context.Background(), nil)
		return
	}

	gen := m.nextGenLocked()
	m.mu.Unlock()

	// Optimistic paint from the durable slot, never trusted as final.
	ctx, cancel := context.WithTimeout(context.Background(), profileFetchTimeout)
	cached := m.cache.Load(ctx, newID)
	cancel()
	if cached != nil {
		m.mu.Lock()
		if gen == m.profileGen {
			m.profile = cached
		}
		m.mu.Unlock()
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fetchCtx, fetchCancel := context.WithTimeout(context.Background(), profileFetchTimeout)
		defer fetchCancel()
		m.fetchProfile(fetchCtx, newID, gen)
	}()
}

// nextGenLocked issues a new fetch generation and marks loading.
func (m *Manager) nextGenLocked() uint64 {
	m.profileGen++
	m.profileLoading = true
	return m.profileGen
}

// fetchProfile is the authoritative fetch. A resolution applies only while
// its generation is still the latest; stale results touch nothing,
// including profileLoading.
func (m *Manager) fetchProfile(ctx context.Context, forUserID string, gen uint64) {
	profile, err := m.store.GetByUserID(ctx, forUserID)

	m.mu.Lock()
	if gen != m.profileGen || m.closed {
		m.mu.Unlock()
		return
	}

	if err != nil {
		// Silent-degrade policy: log only, keep the previous profile.
		m.profileLoading = false
		m.mu.Unlock()
		m.logger.WithError(err).WithField("user_id", forUserID).Error("Profile fetch failed")
		return
	}

	m.profile = profile
	m.profileLoading = false
	m.mu.Unlock()

	saveCtx, saveCancel := context.WithTimeout(context.Background(), profileFetchTimeout)
	defer saveCancel()
	m.cache.Save(saveCtx, profile)
}

// Snapshot returns the current read state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		User:           m.user,
		Session:        m.session,
		Loading:        m.loading,
		Profile:        m.profile,
		ProfileLoading: m.profileLoading,
	}
}

// RefreshProfile re-fetches the profile for the currently-known user. Fetch
// errors are logged, never surfaced: the profile is an enhancement, not a
// correctness-critical path.
func (m *Manager) RefreshProfile(ctx context.Context) {
	m.mu.Lock()
	id := userID(m.user)
	if id == "" {
		m.mu.Unlock()
		return
	}
	gen := m.nextGenLocked()
	m.mu.Unlock()

	m.fetchProfile(ctx, id, gen)
}

// ClearProfile clears the in-memory profile and evicts the durable slot.
func (m *Manager) ClearProfile() {
	m.mu.Lock()
	m.profile = nil
	m.profileGen++ // supersede any in-flight fetch
	m.profileLoading = false
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), profileFetchTimeout)
	defer cancel()
	m.cache.Save(ctx, nil)
}

// SignInWithPassword delegates the credential exchange. Local state is not
// set here: the provider's SignedIn event carries the update.
func (m *Manager) SignInWithPassword(ctx context.Context, email, password string) error {
	_, err := m.provider.SignInWithPassword(ctx, email, password)
	return err
}

// SignInWithGoogle returns the authorize URL the browser must navigate to;
// the flow completes on the callback route.
func (m *Manager) SignInWithGoogle(redirectTo string) string {
	return m.provider.AuthorizeURL("google", redirectTo)
}

// CompleteOAuth hands an external ID token to the provider to finish a
// redirect flow.
func (m *Manager) CompleteOAuth(ctx context.Context, oauthProvider, idToken string) (*domain.Session, error) {
	return m.provider.SignInWithIDToken(ctx, oauthProvider, idToken)
}

// SignUp delegates account creation.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	_, err := m.provider.SignUp(ctx, email, password)
	return err
}

// SignOut clears the profile, then requests provider-side revocation.
// Clear-then-revoke ordering avoids a flash of stale profile data even when
// revocation fails.
func (m *Manager) SignOut(ctx context.Context) error {
	m.ClearProfile()
	return m.provider.SignOut(ctx)
}

// ResetPassword requests a password-reset email landing on redirectTo.
func (m *Manager) ResetPassword(ctx context.Context, email, redirectTo string) error {
	return m.provider.SendPasswordResetEmail(ctx, email, redirectTo)
}

// CompleteRecovery establishes the provisional session carried by a
// reset-email link. The provider emits a PasswordRecovery event, so state
// lands through the usual reducer path.
func (m *Manager) CompleteRecovery(ctx context.Context, accessToken string) (*domain.Session, error) {
	return m.provider.RecoverSession(ctx, accessToken)
}

// UpdatePassword updates credentials for the current session, or for the
// recovery session identified by accessToken.
func (m *Manager) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return m.provider.UpdateCurrentUserPassword(ctx, accessToken, newPassword)
}

func userID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
