// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/golang-jwt/jwt/v5"

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"

	// IDToken is issued by the identity provider, not by the session core.
	IDToken TokenType = "id"
)

// TokenClaims is the payload of a session token.
//
// It embeds [jwt.RegisteredClaims] for subject, issuer, audience, issued-at
// and expiry. The remaining fields mirror the identity and claims snapshot
// of the user the token was minted for.
type TokenClaims struct {
	jwt.RegisteredClaims

	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	Role        Role      `json:"role,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	Admin       bool      `json:"admin"`
	SessionID   string    `json:"sid,omitempty"`
	Type        TokenType `json:"type,omitempty"`

	// ProviderToken is the identity provider's own ID token at mint time.
	ProviderToken string `json:"provider_token,omitempty"`
}

// TokenPair is an access token together with its refresh token.
type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}
