// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/events"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// Keys of the persisted session in the key-value tiers.
const (
	sessionKey      = "session"
	sessionTokenKey = "session_token"
)

// SessionStore owns the single active session of the process.
//
// A session is valid while now <= ExpiresAt and now-LastActivity <=
// MaxInactive. Two timers back this up: an expiry timer at whichever of the
// two deadlines comes first and a warning timer Warning before it. Both are
// recomputed from scratch by reschedule after every mutation.
//
// Persistent ("remember me") sessions are written to the persistent tier,
// all others to the ephemeral tier. Storage failures are logged and do not
// affect the in-memory session. Storage writes are applied in the order of
// the in-memory mutations they belong to; a write whose mutation has been
// superseded is skipped.
type SessionStore struct {
	cfg        config.Session
	clock      Clock
	persistent store.KeyValueStore
	ephemeral  store.KeyValueStore

	// writeMu serializes storage writes. It is taken before mu, never after.
	writeMu sync.Mutex

	mu       sync.Mutex
	session  *models.Session
	expiry   Timer
	warning  Timer
	timerGen uint64

	warnings    events.Broadcaster[models.SessionWarning]
	expirations events.Broadcaster[models.SessionExpired]

	logger *logger.Logger
}

// NewSessionStore constructs an empty SessionStore. Call Restore to pick up
// a session persisted by a previous run.
func NewSessionStore(cfg config.Session, clock Clock, persistent, ephemeral store.KeyValueStore, logger *logger.Logger) *SessionStore {
	return &SessionStore{
		cfg:        cfg,
		clock:      clock,
		persistent: persistent,
		ephemeral:  ephemeral,
		logger:     logger,
	}
}

// SetSession replaces any current session with a new one for user, valid
// for the regular or the persistent session length.
func (s *SessionStore) SetSession(ctx context.Context, id string, tokens models.TokenPair, user models.User, persistent bool, device models.DeviceInfo) models.Session {
	now := s.clock.Now()
	session := models.Session{
		ID:           id,
		User:         user,
		Token:        tokens.Access,
		RefreshToken: tokens.Refresh,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.lifetime(persistent)),
		Persistent:   persistent,
		DeviceInfo:   device,
	}

	s.mu.Lock()
	s.session = &session
	s.reschedule()
	gen := s.timerGen
	s.mu.Unlock()

	s.commit(gen, func() {
		s.persist(ctx, session)
		s.drop(ctx, s.otherTier(persistent))
	})

	return session
}

// TrackActivity moves LastActivity to now. It is a no-op without a session
// and expires the session instead if it is no longer valid.
func (s *SessionStore) TrackActivity(ctx context.Context) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return
	}

	now := s.clock.Now()
	if reason, expired := s.expiredAt(now); expired {
		evt, gen := s.evict(reason)
		s.mu.Unlock()
		s.finishExpiry(ctx, gen, evt)
		return
	}

	s.session.LastActivity = now
	s.reschedule()
	snapshot, gen := *s.session, s.timerGen
	s.mu.Unlock()

	s.commit(gen, func() { s.persist(ctx, snapshot) })
}

// IsSessionValid reports whether a valid session exists. An invalid session
// is evicted and expiration listeners are notified.
func (s *SessionStore) IsSessionValid(ctx context.Context) bool {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return false
	}

	reason, expired := s.expiredAt(s.clock.Now())
	if !expired {
		s.mu.Unlock()
		return true
	}

	evt, gen := s.evict(reason)
	s.mu.Unlock()
	s.finishExpiry(ctx, gen, evt)

	return false
}

// ValidateNow re-checks validity independently of the timers. It covers
// timers that did not fire, for example after the host slept.
func (s *SessionStore) ValidateNow(ctx context.Context) {
	s.IsSessionValid(ctx)
}

// ExtendSession pushes ExpiresAt forward by additional, or by a full session
// length when additional is not positive, but never past CreatedAt plus the
// maximum lifetime. It returns the resulting expiry.
func (s *SessionStore) ExtendSession(ctx context.Context, additional time.Duration) (time.Time, bool) {
	if !s.IsSessionValid(ctx) {
		return time.Time{}, false
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return time.Time{}, false
	}

	if additional <= 0 {
		additional = s.lifetime(s.session.Persistent)
	}

	ceiling := s.session.CreatedAt.Add(s.maxLifetime(s.session.Persistent))
	expiresAt := s.session.ExpiresAt.Add(additional)
	if expiresAt.After(ceiling) {
		expiresAt = ceiling
	}
	if expiresAt.After(s.session.ExpiresAt) {
		s.session.ExpiresAt = expiresAt
	}

	s.reschedule()
	snapshot, gen := *s.session, s.timerGen
	s.mu.Unlock()

	s.commit(gen, func() { s.persist(ctx, snapshot) })
	return snapshot.ExpiresAt, true
}

// RefreshSession swaps token and user of the current session while keeping
// its activity and expiry timestamps.
func (s *SessionStore) RefreshSession(ctx context.Context, tokens models.TokenPair, user models.User) bool {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return false
	}

	s.session.Token = tokens.Access
	if tokens.Refresh != "" {
		s.session.RefreshToken = tokens.Refresh
	}
	s.session.User = user
	s.reschedule()
	snapshot, gen := *s.session, s.timerGen
	s.mu.Unlock()

	s.commit(gen, func() { s.persist(ctx, snapshot) })
	return true
}

// ClearSession drops the session, its timers and its persisted copies.
// Expiration listeners are not notified.
func (s *SessionStore) ClearSession(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.reschedule()
	gen := s.timerGen
	s.mu.Unlock()

	s.commit(gen, func() {
		s.drop(ctx, s.persistent)
		s.drop(ctx, s.ephemeral)
	})
}

// Current returns a copy of the session, if any. It does not check validity.
func (s *SessionStore) Current() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

// Restore loads a session persisted by a previous run, looking at the
// persistent tier first. A missing, unreadable or no longer valid session is
// cleared and Restore reports false.
func (s *SessionStore) Restore(ctx context.Context) bool {
	log := logger.FromContext(ctx)

	if _, ok := s.Current(); ok {
		return s.IsSessionValid(ctx)
	}

	session, err := s.load(ctx, s.persistent)
	if errors.Is(err, store.ErrKeyNotFound) {
		session, err = s.load(ctx, s.ephemeral)
	}
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			log.Err(err).Str("func", "*SessionStore.Restore").Msg("discarding unreadable persisted session")
		}
		s.ClearSession(ctx)
		return false
	}

	s.mu.Lock()
	if _, expired := expiredAt(session, s.cfg.MaxInactive, s.clock.Now()); expired {
		s.mu.Unlock()
		log.Info().Str("func", "*SessionStore.Restore").Str("session_id", session.ID).Msg("persisted session is no longer valid")
		s.ClearSession(ctx)
		return false
	}

	s.session = &session
	s.reschedule()
	s.mu.Unlock()

	log.Info().Str("func", "*SessionStore.Restore").Str("session_id", session.ID).Msg("session restored")
	return true
}

// OnWarning subscribes fn to expiry warnings.
func (s *SessionStore) OnWarning(fn func(models.SessionWarning)) (unsubscribe func()) {
	return s.warnings.Subscribe(fn)
}

// OnExpiration subscribes fn to session expirations.
func (s *SessionStore) OnExpiration(fn func(models.SessionExpired)) (unsubscribe func()) {
	return s.expirations.Subscribe(fn)
}

// reschedule cancels both timers and, if there is a session, arms them
// again from its current state. s.mu must be held.
func (s *SessionStore) reschedule() {
	s.timerGen++
	if s.expiry != nil {
		s.expiry.Stop()
		s.expiry = nil
	}
	if s.warning != nil {
		s.warning.Stop()
		s.warning = nil
	}

	if s.session == nil {
		return
	}

	gen := s.timerGen
	now := s.clock.Now()
	deadline, _ := s.deadline()

	// The session is still valid at the deadline itself, so the expiry
	// timer targets the first instant after it.
	s.expiry = s.clock.AfterFunc(max(deadline.Sub(now), 0)+time.Nanosecond, func() { s.onExpiryTimer(gen) })

	if warnIn := deadline.Add(-s.cfg.Warning).Sub(now); warnIn > 0 && s.cfg.Warning > 0 {
		s.warning = s.clock.AfterFunc(warnIn, func() { s.onWarningTimer(gen) })
	}
}

func (s *SessionStore) onExpiryTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || s.session == nil {
		s.mu.Unlock()
		return
	}

	reason, expired := s.expiredAt(s.clock.Now())
	if !expired {
		// Fired early; arm again for the remaining time.
		s.reschedule()
		s.mu.Unlock()
		return
	}

	evt, evictGen := s.evict(reason)
	s.mu.Unlock()

	s.finishExpiry(context.Background(), evictGen, evt)
}

func (s *SessionStore) onWarningTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || s.session == nil {
		s.mu.Unlock()
		return
	}

	deadline, _ := s.deadline()
	remaining := deadline.Sub(s.clock.Now())
	s.mu.Unlock()

	s.warnings.Publish(models.SessionWarning{TimeRemaining: remaining})
}

// deadline is the earlier of the lifetime and inactivity deadlines. s.mu
// must be held and a session must exist.
func (s *SessionStore) deadline() (time.Time, models.ExpirationReason) {
	inactiveAt := s.session.LastActivity.Add(s.cfg.MaxInactive)
	if inactiveAt.Before(s.session.ExpiresAt) {
		return inactiveAt, models.ExpiredInactivity
	}
	return s.session.ExpiresAt, models.ExpiredLifetime
}

func (s *SessionStore) expiredAt(now time.Time) (models.ExpirationReason, bool) {
	return expiredAt(*s.session, s.cfg.MaxInactive, now)
}

func expiredAt(session models.Session, maxInactive time.Duration, now time.Time) (models.ExpirationReason, bool) {
	if now.After(session.ExpiresAt) {
		return models.ExpiredLifetime, true
	}
	if now.Sub(session.LastActivity) > maxInactive {
		return models.ExpiredInactivity, true
	}
	return "", false
}

// evict drops the in-memory session and its timers and returns the event to
// publish once s.mu is released, together with the generation of the
// eviction. s.mu must be held.
func (s *SessionStore) evict(reason models.ExpirationReason) (models.SessionExpired, uint64) {
	evt := models.SessionExpired{SessionID: s.session.ID, Reason: reason}
	s.session = nil
	s.reschedule()
	return evt, s.timerGen
}

func (s *SessionStore) finishExpiry(ctx context.Context, gen uint64, evt models.SessionExpired) {
	logger.FromContext(ctx).Info().
		Str("func", "*SessionStore.finishExpiry").
		Str("session_id", evt.SessionID).
		Str("reason", string(evt.Reason)).
		Msg("session expired")

	s.commit(gen, func() {
		s.drop(ctx, s.persistent)
		s.drop(ctx, s.ephemeral)
	})
	s.expirations.Publish(evt)
}

func (s *SessionStore) lifetime(persistent bool) time.Duration {
	if persistent {
		return s.cfg.PersistentDuration
	}
	return s.cfg.Duration
}

func (s *SessionStore) maxLifetime(persistent bool) time.Duration {
	if persistent {
		return s.cfg.PersistentMaxLifetime
	}
	return s.cfg.MaxLifetime
}

func (s *SessionStore) tier(persistent bool) store.KeyValueStore {
	if persistent {
		return s.persistent
	}
	return s.ephemeral
}

func (s *SessionStore) otherTier(persistent bool) store.KeyValueStore {
	return s.tier(!persistent)
}

// commit runs write against the storage tiers unless another mutation has
// happened since the one that produced gen. That later mutation commits its
// own state, and holding writeMu for the whole write keeps it from landing
// before this one.
func (s *SessionStore) commit(gen uint64, write func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	current := gen == s.timerGen
	s.mu.Unlock()

	if current {
		write()
	}
}

func (s *SessionStore) persist(ctx context.Context, session models.Session) {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(session)
	if err != nil {
		log.Err(err).Str("func", "*SessionStore.persist").Msg("failed to encode session")
		return
	}

	ttl := session.ExpiresAt.Sub(s.clock.Now())
	kv := s.tier(session.Persistent)
	if err = kv.Set(ctx, sessionKey, string(payload), ttl); err != nil {
		log.Err(err).Str("func", "*SessionStore.persist").Str("session_id", session.ID).Msg("failed to persist session")
		return
	}
	if err = kv.Set(ctx, sessionTokenKey, session.Token, ttl); err != nil {
		log.Err(err).Str("func", "*SessionStore.persist").Str("session_id", session.ID).Msg("failed to persist session token")
	}
}

func (s *SessionStore) load(ctx context.Context, kv store.KeyValueStore) (models.Session, error) {
	payload, err := kv.Get(ctx, sessionKey)
	if err != nil {
		return models.Session{}, err
	}

	var session models.Session
	if err = json.Unmarshal([]byte(payload), &session); err != nil {
		return models.Session{}, err
	}

	token, err := kv.Get(ctx, sessionTokenKey)
	if err != nil {
		return models.Session{}, err
	}
	if token != session.Token {
		return models.Session{}, errors.New("persisted session token does not match session")
	}

	return session, nil
}

func (s *SessionStore) drop(ctx context.Context, kv store.KeyValueStore) {
	if err := kv.Delete(ctx, sessionKey, sessionTokenKey); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*SessionStore.drop").Msg("failed to delete persisted session")
	}
}
