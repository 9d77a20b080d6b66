// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-salon-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// TokenCodec mints and verifies signed, time-bounded session tokens.
type TokenCodec interface {
	// Mint signs claims, stamping issuer, audience, issued-at and an expiry
	// of now+ttl.
	Mint(claims models.TokenClaims, ttl time.Duration) (string, error)

	// MintPair mints a short-lived access token and a refresh token that
	// lives for refreshTTL, both bound to sessionID.
	MintPair(user models.User, sessionID, providerToken string, refreshTTL time.Duration) (models.TokenPair, error)

	// Verify returns the claims of a well-formed, correctly signed, unexpired
	// token issued for this application. It never fails loudly: any problem
	// yields (nil, false).
	Verify(token string) (*models.TokenClaims, bool)

	// VerifyExpired returns the claims of a token whose only defect is that
	// it expired: signature, issuer and audience all check out. Tampered or
	// foreign tokens yield (nil, false), as do tokens that are still valid.
	VerifyExpired(token string) (*models.TokenClaims, bool)
}

// SessionManager bridges the identity provider to the local session and
// answers authorization queries from the last known claims.
type SessionManager interface {
	SignIn(ctx context.Context, email, password string, rememberMe bool, device models.DeviceInfo) (models.User, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error)
	SignOut(ctx context.Context) error

	// RefreshSession re-fetches provider claims and remints the tokens.
	// It reports false instead of failing when there is nothing to refresh.
	RefreshSession(ctx context.Context) bool

	// ValidateSession reports whether the session is valid and its token
	// verifies.
	ValidateSession(ctx context.Context) bool

	// Restore reloads a persisted session at startup.
	Restore(ctx context.Context) bool

	ExtendSession(ctx context.Context, additional time.Duration) (time.Time, bool)
	TrackActivity(ctx context.Context) bool

	HasPermission(permission string) bool
	IsAdmin() bool
	HasRole(role models.Role) bool
	Role() models.Role
	CurrentUser() (models.User, bool)
	CurrentSession() (models.Session, bool)

	// OnAuthStateChanged calls fn with the current state right away and on
	// every later transition until the returned function is called.
	OnAuthStateChanged(fn func(models.AuthState)) (unsubscribe func())
	OnSessionWarning(fn func(models.SessionWarning)) (unsubscribe func())
	OnSessionExpired(fn func(models.SessionExpired)) (unsubscribe func())

	SecurityLog() []models.SecurityLogEntry
}

// RecordService is the only write path to the centralized record collection.
// Every call acts on behalf of actor and is checked against the record's
// role-based permissions.
type RecordService interface {
	Create(ctx context.Context, actor models.Actor, rec models.NewRecord) (string, error)
	Read(ctx context.Context, actor models.Actor, dataType models.DataType, filter models.RecordFilter) ([]models.Record, error)
	Get(ctx context.Context, actor models.Actor, id string) (models.Record, error)
	Update(ctx context.Context, actor models.Actor, id string, updates models.RecordData) (models.Record, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	BulkImport(ctx context.Context, actor models.Actor, recs []models.NewRecord) ([]string, error)
	Export(ctx context.Context, actor models.Actor, dataType models.DataType) ([]models.Record, error)
	GetAuditTrail(ctx context.Context, actor models.Actor, id string) ([]models.AuditEntry, error)
}

// IdentityService is the account authority served by cmd/identity.
type IdentityService interface {
	SignUp(ctx context.Context, creds models.Credentials) (models.ProviderSession, error)
	SignIn(ctx context.Context, creds models.Credentials) (models.ProviderSession, error)

	// IDToken mints a fresh ID token carrying the account's current claims.
	IDToken(ctx context.Context, uid string) (models.ProviderSession, error)

	// VerifyIDToken returns the uid an ID token was issued to.
	VerifyIDToken(ctx context.Context, token string) (string, error)

	User(ctx context.Context, uid string) (models.User, error)
	UpdateProfile(ctx context.Context, uid, displayName string) (models.User, error)

	// SetClaims replaces the claims of targetUID. Only admins may call it.
	SetClaims(ctx context.Context, callerUID, targetUID string, claims models.RawClaims) (models.User, error)
}

// AppInfoService reports the configured application version.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string

	// GetVersionInfo combines the version with the linked build metadata.
	GetVersionInfo(ctx context.Context) models.VersionResponse
}
