// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// HTTP response writing, HTTP client initialization, JWT token signing
// and validation, and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-salon-keeper/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated account UID in the
// context of identity provider requests.
var UserIDCtxKey = contextKey("userID")

// ClientMetaCtxKey is the key under which the caller's address and user agent
// are stored for audit entries.
var ClientMetaCtxKey = contextKey("clientMeta")

// ClientMeta describes where a request came from.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// WithUserID returns a copy of ctx carrying uid.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UserIDCtxKey, uid)
}

// GetUserIDFromContext retrieves the account UID from the context.
//
// Returns ok == false when the value is missing, empty or of an unexpected
// type.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// WithClientMeta returns a copy of ctx carrying meta.
func WithClientMeta(ctx context.Context, meta ClientMeta) context.Context {
	return context.WithValue(ctx, ClientMetaCtxKey, meta)
}

// GetClientMetaFromContext returns the request origin stored in ctx, or the
// zero value.
func GetClientMetaFromContext(ctx context.Context) ClientMeta {
	meta, _ := ctx.Value(ClientMetaCtxKey).(ClientMeta)
	return meta
}

// ActorFromContext builds the audit actor for userID and role, enriched with
// the request origin found in ctx.
func ActorFromContext(ctx context.Context, userID string, role models.Role) models.Actor {
	meta := GetClientMetaFromContext(ctx)
	return models.Actor{
		UserID:    userID,
		Role:      role,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
}
