// File: internal/session/manager.go
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/common"
	"github.com/ldw80203/house-video/internal/shared"
)

var errSignedOut = common.ErrUnauthorized.WithDetails("No signed-in session.")

// State is a snapshot of the session container: the provider-issued
// identity, the locally stored profile, and the loading flag. Profile is nil
// while signed out.
type State struct {
	UID     string
	Profile *shared.Profile
	Loading bool
}

// SignedIn reports whether the snapshot carries an authenticated identity.
func (s State) SignedIn() bool {
	return s.UID != ""
}

// Manager owns the process-wide session state. All mutation goes through its
// operations; observers register with OnChange and receive a snapshot after
// every state transition, mirroring the auth provider's state-change events.
type Manager struct {
	verifier  shared.TokenVerifier
	profiles  shared.Service
	blocklist shared.TokenBlocklist
	logger    *zap.Logger

	mu        sync.RWMutex
	uid       string
	idToken   string
	expiresAt time.Time
	profile   *shared.Profile
	loading   bool

	nextSubID int
	subs      map[int]func(State)
}

// NewManager creates a session manager.
func NewManager(verifier shared.TokenVerifier, profiles shared.Service, blocklist shared.TokenBlocklist, logger *zap.Logger) *Manager {
	return &Manager{
		verifier:  verifier,
		profiles:  profiles,
		blocklist: blocklist,
		logger:    logger,
		subs:      make(map[int]func(State)),
	}
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{UID: m.uid, Profile: m.profile, Loading: m.loading}
}

// OnChange registers an observer invoked with a snapshot after every state
// transition. The returned cancel func must be called to stop observing.
func (m *Manager) OnChange(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// notifyLocked snapshots state and fires observers outside the lock.
func (m *Manager) notify() {
	m.mu.RLock()
	state := State{UID: m.uid, Profile: m.profile, Loading: m.loading}
	observers := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		observers = append(observers, fn)
	}
	m.mu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}

// SignIn verifies the provider-issued ID token and loads (creating on first
// sight) the local profile.
func (m *Manager) SignIn(ctx context.Context, idToken string) (*shared.Profile, error) {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	m.notify()

	token, err := m.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
		m.notify()
		return nil, err
	}

	profile, _, err := m.profiles.GetOrCreateProfileFromToken(ctx, token)
	if err != nil {
		m.logger.Error("Sign-in verified token but profile load failed",
			zap.String("uid", token.UID), zap.Error(err))
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
		m.notify()
		return nil, err
	}

	m.mu.Lock()
	m.uid = token.UID
	m.idToken = idToken
	m.expiresAt = time.Unix(token.Expires, 0)
	m.profile = profile
	m.loading = false
	m.mu.Unlock()
	m.notify()

	m.logger.Info("Signed in", zap.String("uid", token.UID))
	return profile, nil
}

// SignUp verifies a freshly issued token and creates the profile row with
// the chosen display name, then signs the session in.
func (m *Manager) SignUp(ctx context.Context, idToken string, displayName string) (*shared.Profile, error) {
	token, err := m.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	// Profile creation failure does not fail the sign-up; the row is
	// recreated lazily on the next authenticated request.
	if _, err := m.profiles.CreateProfile(ctx, token.UID, displayName); err != nil {
		m.logger.Warn("Profile creation at sign-up failed",
			zap.String("uid", token.UID), zap.Error(err))
	}

	return m.SignIn(ctx, idToken)
}

// SignOut revokes the current token and clears the session state.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	uid := m.uid
	idToken := m.idToken
	expiresAt := m.expiresAt
	m.uid = ""
	m.idToken = ""
	m.expiresAt = time.Time{}
	m.profile = nil
	m.loading = false
	m.mu.Unlock()
	m.notify()

	if uid == "" {
		return nil
	}

	if err := m.blocklist.Revoke(ctx, idToken, expiresAt); err != nil {
		m.logger.Error("Failed to blocklist token on sign-out", zap.Error(err))
	}
	if err := m.verifier.RevokeRefreshTokens(ctx, uid); err != nil {
		// Local state is already cleared; revocation failure only means the
		// provider may renew the session elsewhere.
		m.logger.Error("Failed to revoke refresh tokens on sign-out",
			zap.String("uid", uid), zap.Error(err))
		return err
	}

	m.logger.Info("Signed out", zap.String("uid", uid))
	return nil
}

// UpdateProfile applies a partial edit to the signed-in profile and merges
// the result into the session state.
func (m *Manager) UpdateProfile(ctx context.Context, updates shared.ProfileUpdate) (*shared.Profile, error) {
	m.mu.RLock()
	profile := m.profile
	m.mu.RUnlock()

	if profile == nil {
		return nil, errSignedOut
	}

	updated, err := m.profiles.UpdateProfile(ctx, profile.ID, updates)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.profile = updated
	m.mu.Unlock()
	m.notify()
	return updated, nil
}
