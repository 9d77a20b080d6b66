// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Account is the identity provider's persisted view of a user.
// It carries credential data and must never be exposed outside the
// identity service; [Account.User] produces the public projection.
type Account struct {
	// UID is the provider-assigned unique identifier.
	UID string `json:"uid"`

	// Email is the unique sign-in identifier, stored lower-cased.
	Email string `json:"email"`

	// PasswordHash is the keyed hash of the account password.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`

	// Claims holds role and permission metadata. Absent fields are
	// defaulted by [NormalizeClaims].
	Claims RawClaims `json:"claims"`

	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// User returns the public projection of the account with normalized claims.
func (a Account) User() User {
	claims := a.Claims
	return User{
		UID:           a.UID,
		Email:         a.Email,
		DisplayName:   a.DisplayName,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
		LastSignInAt:  a.LastSignInAt,
		Claims:        NormalizeClaims(&claims),
	}
}
