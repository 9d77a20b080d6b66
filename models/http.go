// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"required"`
	RememberMe bool       `json:"remember_me"`
	Device     DeviceInfo `json:"device"`
}

// SignUpRequest is the body of POST /api/auth/signup.
type SignUpRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=6"`
	DisplayName  string     `json:"display_name" validate:"required,max=128"`
	BusinessName string     `json:"business_name,omitempty" validate:"max=256"`
	Device       DeviceInfo `json:"device"`
}

// ExtendSessionRequest is the body of POST /api/session/extend. A zero
// AdditionalTime extends by a full session length.
type ExtendSessionRequest struct {
	AdditionalTime Duration `json:"additional_time"`
}

// SessionResponse describes the current session to the UI.
type SessionResponse struct {
	SignedIn     bool      `json:"signed_in"`
	User         *User     `json:"user,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	LastActivity time.Time `json:"last_activity,omitempty"`
	Persistent   bool      `json:"persistent"`

	// Tokens is only filled by sign-in and sign-up.
	Tokens *TokenPair `json:"tokens,omitempty"`
}

// UpdateRecordRequest is the body of PATCH /api/records/id/{id}.
type UpdateRecordRequest struct {
	Updates RecordData `json:"updates" validate:"required"`
}

// CreateRecordRequest is the body of POST /api/records/{dataType}.
type CreateRecordRequest struct {
	Data       json.RawMessage `json:"data" validate:"required"`
	BusinessID *string         `json:"business_id,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
}

// BulkImportRequest is the body of POST /api/records/{dataType}/import.
type BulkImportRequest struct {
	Records []NewRecord `json:"records" validate:"required,min=1,dive"`
}

// IDsResponse carries the identifiers of created records.
type IDsResponse struct {
	IDs []string `json:"ids"`
}

// SetClaimsRequest is the body of PUT /api/identity/users/{uid}/claims.
type SetClaimsRequest struct {
	Admin       bool     `json:"admin"`
	Role        string   `json:"role" validate:"required"`
	Permissions []string `json:"permissions"`
}

// UpdateProfileRequest is the body of PATCH /api/identity/profile.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=128"`
}

// Duration is a time.Duration that travels over JSON either as a Go duration
// string ("15m") or as a number of milliseconds.
type Duration time.Duration

// UnmarshalJSON implements [json.Unmarshaler].
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value) * time.Millisecond)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	case nil:
		*d = 0
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// MarshalJSON implements [json.Marshaler].
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
