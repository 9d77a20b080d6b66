// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the identity provider.
//
// The primary abstraction is [IdentityProvider], which decouples the session
// core from the provider's transport. The package ships an HTTP/REST
// implementation ([NewHTTPIdentityProvider]) talking to cmd/identity.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-salon-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/identity_provider_mock.go -package=mock

// IdentityProvider is the external account authority. Like a provider SDK it
// keeps its own "current user" state: a successful SignIn or SignUp makes that
// account current until SignOut.
type IdentityProvider interface {
	// SignIn authenticates with email and password and makes the account the
	// provider's current user. Returns [ErrUnauthorized] for bad credentials.
	SignIn(ctx context.Context, email, password string) (models.ProviderSession, error)

	// SignUp creates a new account and signs it in. Returns [ErrConflict]
	// (wrapped) if the email is already registered.
	SignUp(ctx context.Context, email, password string) (models.ProviderSession, error)

	// SignOut ends the provider session. The local provider state is dropped
	// even when the request fails.
	SignOut(ctx context.Context) error

	// CurrentUser returns the provider's current user, if any.
	CurrentUser() (models.User, bool)

	// RefreshIDToken fetches a fresh ID token and claims for the current user.
	// Returns [ErrNoCurrentUser] if nobody is signed in to the provider.
	RefreshIDToken(ctx context.Context) (models.ProviderSession, error)

	// UpdateProfile changes the display name of the current user.
	UpdateProfile(ctx context.Context, displayName string) (models.User, error)
}
