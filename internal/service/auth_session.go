// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-salon-keeper/internal/adapter"
	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/events"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// MaxSecurityLogLength is the number of most recent security events kept.
const MaxSecurityLogLength = 50

// Security log events.
const (
	EventLogin          = "login"
	EventLoginFailed    = "login_failed"
	EventSignUp         = "signup"
	EventSignUpFailed   = "signup_failed"
	EventLogout         = "logout"
	EventSessionExpired = "session_expired"
)

// AuthSessionManager signs users in and out against the identity provider,
// keeps the [SessionStore] in step with it and answers authorization
// queries from the claims snapshot of the current session.
type AuthSessionManager struct {
	provider adapter.IdentityProvider
	tokens   TokenCodec
	sessions *SessionStore
	records  RecordService
	activity *ActivityTracker

	cfg   config.Session
	clock Clock
	ids   *utils.UUIDGenerator

	mu          sync.Mutex
	generation  uint64
	securityLog []models.SecurityLogEntry

	authState         events.Broadcaster[models.AuthState]
	unsubscribeExpiry func()

	logger *logger.Logger
}

// NewAuthSessionManager wires a manager around sessions. records may be nil,
// in which case sign-up does not create a profile record.
func NewAuthSessionManager(
	provider adapter.IdentityProvider,
	tokens TokenCodec,
	sessions *SessionStore,
	records RecordService,
	cfg config.Session,
	clock Clock,
	logger *logger.Logger,
) *AuthSessionManager {
	m := &AuthSessionManager{
		provider: provider,
		tokens:   tokens,
		sessions: sessions,
		records:  records,
		cfg:      cfg,
		clock:    clock,
		ids:      utils.NewUUIDGenerator(),
		logger:   logger,
	}
	m.activity = NewActivityTracker(cfg.ActivityThrottle, clock, sessions.TrackActivity)
	m.unsubscribeExpiry = sessions.OnExpiration(m.onSessionExpired)

	return m
}

// Close detaches the manager from the session store.
func (m *AuthSessionManager) Close() {
	m.unsubscribeExpiry()
}

// SignIn implements [SessionManager].
func (m *AuthSessionManager) SignIn(ctx context.Context, email, password string, rememberMe bool, device models.DeviceInfo) (models.User, error) {
	log := logger.FromContext(ctx)

	if m.sessions.IsSessionValid(ctx) {
		m.appendSecurityLog(EventLoginFailed, map[string]any{"email": email, "error": ErrAlreadySignedIn.Error()}, device.UserAgent)
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthentication, ErrAlreadySignedIn)
	}

	providerSession, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		authErr := normalizeAuthError(err)
		log.Err(err).Str("func", "*AuthSessionManager.SignIn").Msg("identity provider rejected sign in")
		m.appendSecurityLog(EventLoginFailed, map[string]any{"email": email, "error": authErr.Error()}, device.UserAgent)
		return models.User{}, authErr
	}

	providerSession = m.freshClaims(ctx, providerSession)

	session, err := m.startSession(ctx, providerSession, rememberMe, device)
	if err != nil {
		log.Err(err).Str("func", "*AuthSessionManager.SignIn").Msg("failed to start session")
		m.appendSecurityLog(EventLoginFailed, map[string]any{"email": email, "error": err.Error()}, device.UserAgent)
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	m.appendSecurityLog(EventLogin, map[string]any{
		"user_id":     session.User.UID,
		"email":       session.User.Email,
		"remember_me": rememberMe,
	}, device.UserAgent)
	m.publishState()

	log.Info().Str("func", "*AuthSessionManager.SignIn").Str("user_id", session.User.UID).Msg("signed in")
	return session.User, nil
}

// SignUp implements [SessionManager]. New accounts get the "user" role with
// the default permissions and a regular, non-persistent session.
func (m *AuthSessionManager) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if m.sessions.IsSessionValid(ctx) {
		m.appendSecurityLog(EventSignUpFailed, map[string]any{"email": req.Email, "error": ErrAlreadySignedIn.Error()}, req.Device.UserAgent)
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthentication, ErrAlreadySignedIn)
	}

	providerSession, err := m.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		authErr := normalizeAuthError(err)
		log.Err(err).Str("func", "*AuthSessionManager.SignUp").Msg("identity provider rejected sign up")
		m.appendSecurityLog(EventSignUpFailed, map[string]any{"email": req.Email, "error": authErr.Error()}, req.Device.UserAgent)
		return models.User{}, authErr
	}

	if req.DisplayName != "" {
		user, err := m.provider.UpdateProfile(ctx, req.DisplayName)
		if err != nil {
			log.Err(err).Str("func", "*AuthSessionManager.SignUp").Msg("failed to set display name")
		} else {
			providerSession.User = user
		}
	}
	providerSession.User.Claims = withDefaultClaims(providerSession.User.Claims)

	session, err := m.startSession(ctx, providerSession, false, req.Device)
	if err != nil {
		log.Err(err).Str("func", "*AuthSessionManager.SignUp").Msg("failed to start session")
		m.appendSecurityLog(EventSignUpFailed, map[string]any{"email": req.Email, "error": err.Error()}, req.Device.UserAgent)
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	m.createProfile(ctx, session.User, req.BusinessName)

	m.appendSecurityLog(EventSignUp, map[string]any{
		"user_id": session.User.UID,
		"email":   session.User.Email,
	}, req.Device.UserAgent)
	m.publishState()

	log.Info().Str("func", "*AuthSessionManager.SignUp").Str("user_id", session.User.UID).Msg("signed up")
	return session.User, nil
}

// SignOut implements [SessionManager]. Local state is always cleared, even
// when the provider call fails; that failure is returned afterwards.
func (m *AuthSessionManager) SignOut(ctx context.Context) error {
	if session, ok := m.sessions.Current(); ok {
		m.appendSecurityLog(EventLogout, map[string]any{"user_id": session.User.UID}, session.DeviceInfo.UserAgent)
	}

	providerErr := m.provider.SignOut(ctx)

	m.mu.Lock()
	m.generation++
	m.mu.Unlock()

	m.sessions.ClearSession(ctx)
	m.publishState()

	if providerErr != nil {
		logger.FromContext(ctx).Err(providerErr).Str("func", "*AuthSessionManager.SignOut").Msg("identity provider sign out failed")
		return fmt.Errorf("%w: %w", ErrAuthentication, ErrSignOut)
	}
	return nil
}

// RefreshSession implements [SessionManager]. A result that arrives after
// the session was cleared or replaced is discarded.
func (m *AuthSessionManager) RefreshSession(ctx context.Context) bool {
	log := logger.FromContext(ctx)

	session, ok := m.sessions.Current()
	if !ok {
		return false
	}
	if _, ok = m.provider.CurrentUser(); !ok {
		return false
	}

	m.mu.Lock()
	generation := m.generation
	m.mu.Unlock()

	providerSession, err := m.provider.RefreshIDToken(ctx)
	if err != nil {
		log.Err(err).Str("func", "*AuthSessionManager.RefreshSession").Msg("failed to refresh provider claims")
		return false
	}

	ttl := session.ExpiresAt.Sub(m.clock.Now())
	if ttl <= 0 {
		return false
	}
	pair, err := m.tokens.MintPair(providerSession.User, session.ID, providerSession.IDToken, ttl)
	if err != nil {
		log.Err(err).Str("func", "*AuthSessionManager.RefreshSession").Msg("failed to mint tokens")
		return false
	}

	m.mu.Lock()
	current, ok := m.sessions.Current()
	if generation != m.generation || !ok || current.ID != session.ID {
		m.mu.Unlock()
		log.Info().Str("func", "*AuthSessionManager.RefreshSession").Msg("discarding refresh for a session that is gone")
		return false
	}
	refreshed := m.sessions.RefreshSession(ctx, pair, providerSession.User)
	m.mu.Unlock()

	if refreshed {
		m.publishState()
	}
	return refreshed
}

// ValidateSession implements [SessionManager]. Both the session timestamps
// and the session token must be valid. An access token that merely expired
// is reminted from a still valid refresh token; one that fails verification
// for any other reason ends the session.
func (m *AuthSessionManager) ValidateSession(ctx context.Context) bool {
	if !m.sessions.IsSessionValid(ctx) {
		return false
	}

	session, ok := m.sessions.Current()
	if !ok {
		return false
	}

	if claims, ok := m.tokens.Verify(session.Token); ok {
		if claims.Type == models.AccessToken && claims.SessionID == session.ID {
			return true
		}
	} else if claims, ok := m.tokens.VerifyExpired(session.Token); ok &&
		claims.Type == models.AccessToken && claims.SessionID == session.ID && m.remint(ctx, session) {
		return true
	}

	logger.FromContext(ctx).Info().
		Str("func", "*AuthSessionManager.ValidateSession").
		Str("session_id", session.ID).
		Msg("session token no longer verifies")

	m.mu.Lock()
	m.generation++
	m.mu.Unlock()

	m.sessions.ClearSession(ctx)
	m.publishState()

	return false
}

// Restore implements [SessionManager].
func (m *AuthSessionManager) Restore(ctx context.Context) bool {
	if !m.sessions.Restore(ctx) {
		return false
	}

	ok := m.ValidateSession(ctx)
	if ok {
		m.publishState()
	}
	return ok
}

// ExtendSession implements [SessionManager]. The refresh token is reminted
// so that it lives as long as the extended session.
func (m *AuthSessionManager) ExtendSession(ctx context.Context, additional time.Duration) (time.Time, bool) {
	expiresAt, ok := m.sessions.ExtendSession(ctx, additional)
	if !ok {
		return time.Time{}, false
	}

	if session, ok := m.sessions.Current(); ok {
		m.remint(ctx, session)
	}
	return expiresAt, true
}

// TrackActivity implements [SessionManager]. It reports whether a valid
// session exists; the activity itself is throttled.
func (m *AuthSessionManager) TrackActivity(ctx context.Context) bool {
	if !m.sessions.IsSessionValid(ctx) {
		return false
	}
	m.activity.Track(ctx)
	return true
}

// HasPermission implements [SessionManager].
func (m *AuthSessionManager) HasPermission(permission string) bool {
	user, ok := m.CurrentUser()
	return ok && user.Claims.HasPermission(permission)
}

// IsAdmin implements [SessionManager].
func (m *AuthSessionManager) IsAdmin() bool {
	user, ok := m.CurrentUser()
	return ok && user.Claims.Admin
}

// HasRole implements [SessionManager].
func (m *AuthSessionManager) HasRole(role models.Role) bool {
	user, ok := m.CurrentUser()
	return ok && user.Claims.Role == role
}

// Role implements [SessionManager]. It is empty without a session.
func (m *AuthSessionManager) Role() models.Role {
	user, ok := m.CurrentUser()
	if !ok {
		return ""
	}
	return user.Claims.Role
}

// CurrentUser implements [SessionManager].
func (m *AuthSessionManager) CurrentUser() (models.User, bool) {
	session, ok := m.sessions.Current()
	if !ok {
		return models.User{}, false
	}
	return session.User, true
}

// CurrentSession implements [SessionManager].
func (m *AuthSessionManager) CurrentSession() (models.Session, bool) {
	return m.sessions.Current()
}

// OnAuthStateChanged implements [SessionManager].
func (m *AuthSessionManager) OnAuthStateChanged(fn func(models.AuthState)) (unsubscribe func()) {
	unsubscribe = m.authState.Subscribe(fn)
	fn(m.state())
	return unsubscribe
}

// OnSessionWarning implements [SessionManager].
func (m *AuthSessionManager) OnSessionWarning(fn func(models.SessionWarning)) (unsubscribe func()) {
	return m.sessions.OnWarning(fn)
}

// OnSessionExpired implements [SessionManager].
func (m *AuthSessionManager) OnSessionExpired(fn func(models.SessionExpired)) (unsubscribe func()) {
	return m.sessions.OnExpiration(fn)
}

// SecurityLog implements [SessionManager]. Oldest entries come first.
func (m *AuthSessionManager) SecurityLog() []models.SecurityLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.SecurityLogEntry, len(m.securityLog))
	copy(out, m.securityLog)
	return out
}

func (m *AuthSessionManager) startSession(ctx context.Context, providerSession models.ProviderSession, rememberMe bool, device models.DeviceInfo) (models.Session, error) {
	sessionID := m.ids.Generate()

	pair, err := m.tokens.MintPair(providerSession.User, sessionID, providerSession.IDToken, m.lifetime(rememberMe))
	if err != nil {
		return models.Session{}, err
	}

	m.mu.Lock()
	m.generation++
	session := m.sessions.SetSession(ctx, sessionID, pair, providerSession.User, rememberMe, device)
	m.mu.Unlock()

	m.activity.Reset()
	return session, nil
}

// freshClaims asks the provider for a new ID token so the session starts
// from current claims. The sign-in result is kept if that fails.
func (m *AuthSessionManager) freshClaims(ctx context.Context, providerSession models.ProviderSession) models.ProviderSession {
	fresh, err := m.provider.RefreshIDToken(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "*AuthSessionManager.freshClaims").Msg("using claims from sign in")
		return providerSession
	}
	return fresh
}

// remint replaces both tokens of session, carrying over the provider token
// held by its refresh token. It fails when the refresh token no longer
// verifies.
func (m *AuthSessionManager) remint(ctx context.Context, session models.Session) bool {
	claims, ok := m.tokens.Verify(session.RefreshToken)
	if !ok || claims.Type != models.RefreshToken || claims.SessionID != session.ID {
		return false
	}

	ttl := session.ExpiresAt.Sub(m.clock.Now())
	if ttl <= 0 {
		return false
	}

	pair, err := m.tokens.MintPair(session.User, session.ID, claims.ProviderToken, ttl)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*AuthSessionManager.remint").Msg("failed to mint tokens")
		return false
	}
	return m.sessions.RefreshSession(ctx, pair, session.User)
}

func (m *AuthSessionManager) createProfile(ctx context.Context, user models.User, businessName string) {
	if m.records == nil {
		return
	}

	profile := map[string]any{
		"uid":          user.UID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	}
	if businessName != "" {
		profile["business_name"] = businessName
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return
	}

	actor := utils.ActorFromContext(ctx, user.UID, user.Claims.Role)
	if _, err = m.records.Create(ctx, actor, models.NewRecord{DataType: models.DataTypeUserProfile, Data: data}); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*AuthSessionManager.createProfile").
			Str("user_id", user.UID).
			Msg("failed to create user profile record")
	}
}

func (m *AuthSessionManager) onSessionExpired(evt models.SessionExpired) {
	m.mu.Lock()
	m.generation++
	m.mu.Unlock()

	m.appendSecurityLog(EventSessionExpired, map[string]any{
		"session_id": evt.SessionID,
		"reason":     string(evt.Reason),
	}, "")

	if err := m.provider.SignOut(context.Background()); err != nil {
		m.logger.Err(err).Str("func", "*AuthSessionManager.onSessionExpired").Msg("identity provider sign out failed")
	}

	m.publishState()
}

func (m *AuthSessionManager) appendSecurityLog(event string, data map[string]any, userAgent string) {
	entry := models.SecurityLogEntry{
		Event:     event,
		Data:      data,
		UserAgent: userAgent,
		Timestamp: m.clock.Now(),
	}

	m.mu.Lock()
	m.securityLog = append(m.securityLog, entry)
	if len(m.securityLog) > MaxSecurityLogLength {
		m.securityLog = append([]models.SecurityLogEntry(nil), m.securityLog[len(m.securityLog)-MaxSecurityLogLength:]...)
	}
	m.mu.Unlock()
}

func (m *AuthSessionManager) state() models.AuthState {
	session, ok := m.sessions.Current()
	if !ok {
		return models.AuthState{}
	}
	return models.AuthState{SignedIn: true, User: &session.User, Session: &session}
}

func (m *AuthSessionManager) publishState() {
	m.authState.Publish(m.state())
}

func (m *AuthSessionManager) lifetime(persistent bool) time.Duration {
	if persistent {
		return m.cfg.PersistentDuration
	}
	return m.cfg.Duration
}

// withDefaultClaims gives a plain account the default permissions when the
// provider did not assign any.
func withDefaultClaims(claims models.Claims) models.Claims {
	if claims.Role == "" {
		claims.Role = models.RoleUser
	}
	if claims.Role == models.RoleUser && len(claims.Permissions) == 0 {
		claims.Permissions = models.DefaultPermissions()
	}
	return claims
}

// normalizeAuthError turns a provider failure into one of the
// authentication reasons, always wrapped in [ErrAuthentication].
func normalizeAuthError(err error) error {
	var reason error
	switch {
	case errors.Is(err, adapter.ErrUnauthorized),
		errors.Is(err, adapter.ErrBadRequest),
		errors.Is(err, adapter.ErrForbidden),
		errors.Is(err, adapter.ErrNotFound):
		reason = ErrInvalidCredentials
	case errors.Is(err, adapter.ErrConflict):
		reason = ErrEmailAlreadyInUse
	default:
		reason = ErrProviderUnavailable
	}
	return fmt.Errorf("%w: %w", ErrAuthentication, reason)
}
