// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DeviceInfo describes the client the session was opened from.
type DeviceInfo struct {
	UserAgent string `json:"user_agent"`
	Platform  string `json:"platform"`
	Language  string `json:"language"`
}

// Session is the local record of who is signed in and until when.
//
// A session is valid while LastActivity <= now <= ExpiresAt and the user has
// not been inactive for longer than the configured inactivity limit.
type Session struct {
	ID           string     `json:"id"`
	User         User       `json:"user"`
	Token        string     `json:"token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
	ExpiresAt    time.Time  `json:"expires_at"`
	Persistent   bool       `json:"persistent"`
	DeviceInfo   DeviceInfo `json:"device_info"`
}

// AuthState is broadcast to auth state listeners on every transition.
type AuthState struct {
	SignedIn bool     `json:"signed_in"`
	User     *User    `json:"user,omitempty"`
	Session  *Session `json:"session,omitempty"`
}

// SessionWarning is emitted shortly before the session expires so that the
// UI can offer to extend it.
type SessionWarning struct {
	TimeRemaining time.Duration `json:"-"`
}

// TimeRemainingMillis returns TimeRemaining in milliseconds, the unit the UI
// event channel carries.
func (w SessionWarning) TimeRemainingMillis() int64 {
	return w.TimeRemaining.Milliseconds()
}

// ExpirationReason tells why a session stopped being valid.
type ExpirationReason string

const (
	ExpiredLifetime   ExpirationReason = "lifetime"
	ExpiredInactivity ExpirationReason = "inactivity"
)

// SessionExpired is emitted once when a session is evicted because it is no
// longer valid.
type SessionExpired struct {
	SessionID string           `json:"session_id"`
	Reason    ExpirationReason `json:"reason"`
}
