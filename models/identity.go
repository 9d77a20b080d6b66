// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role is a named authorization level attached to a user through its claims.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleStaff    Role = "staff"

	// RoleUser is assigned to every freshly registered account.
	RoleUser Role = "user"
)

// Permissions granted to a freshly registered account.
const (
	PermissionReadOwnData  = "read:own_data"
	PermissionWriteOwnData = "write:own_data"
)

// DefaultPermissions returns a new slice with the permissions every new
// account starts with.
func DefaultPermissions() []string {
	return []string{PermissionReadOwnData, PermissionWriteOwnData}
}

// RawClaims is the claims bag exactly as the identity provider returns it.
// Every field is optional; use [NormalizeClaims] before reading it.
type RawClaims struct {
	Admin       *bool    `json:"admin,omitempty"`
	Role        *string  `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Claims is the normalized role/permission snapshot of an identity.
type Claims struct {
	// Admin grants every administrative capability.
	Admin bool `json:"admin"`

	// Role is the single role name of the identity ("user" by default).
	Role Role `json:"role"`

	// Permissions is the list of fine-grained permission keys. Never nil.
	Permissions []string `json:"permissions"`
}

// NormalizeClaims applies the defaults (role "user", no permissions, not
// admin) to the optional fields of raw. A nil raw yields the default claims.
func NormalizeClaims(raw *RawClaims) Claims {
	claims := Claims{
		Role:        RoleUser,
		Permissions: []string{},
	}
	if raw == nil {
		return claims
	}

	if raw.Admin != nil {
		claims.Admin = *raw.Admin
	}
	if raw.Role != nil && *raw.Role != "" {
		claims.Role = Role(*raw.Role)
	}
	if raw.Permissions != nil {
		claims.Permissions = append(claims.Permissions, raw.Permissions...)
	}

	return claims
}

// Raw converts normalized claims back into the provider representation.
func (c Claims) Raw() RawClaims {
	admin := c.Admin
	role := string(c.Role)
	perms := append([]string{}, c.Permissions...)
	return RawClaims{Admin: &admin, Role: &role, Permissions: perms}
}

// HasPermission reports whether permission is listed in the claims.
func (c Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// User is the identity of an authenticated account as mirrored from the
// identity provider. It is read-only from the session's point of view.
type User struct {
	// UID is the provider-assigned user identifier.
	UID string `json:"uid"`

	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`

	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`

	// Claims is the claims snapshot taken at the last sign-in or refresh.
	Claims Claims `json:"claims"`
}

// Credentials is the email/password pair used against the identity provider.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProviderSession is what the identity provider hands back after a
// successful sign-in or sign-up: the account plus its own ID token.
type ProviderSession struct {
	User    User   `json:"user"`
	IDToken string `json:"id_token"`
}
