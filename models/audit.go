// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuditAction is the kind of operation recorded in an [AuditEntry].
type AuditAction string

const (
	AuditCreate     AuditAction = "create"
	AuditRead       AuditAction = "read"
	AuditUpdate     AuditAction = "update"
	AuditDelete     AuditAction = "delete"
	AuditBulkImport AuditAction = "bulk_import"
	AuditExport     AuditAction = "export"
	AuditLogin      AuditAction = "login"
	AuditLogout     AuditAction = "logout"
)

// MaxAuditTrailLength is the number of most recent entries a record keeps.
const MaxAuditTrailLength = 100

// FieldChange is a single top-level field modification.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// AuditEntry documents one action taken against a record.
type AuditEntry struct {
	Action    AuditAction   `json:"action"`
	UserID    string        `json:"user_id"`
	Timestamp time.Time     `json:"timestamp"`
	Changes   []FieldChange `json:"changes,omitempty"`
	IPAddress string        `json:"ip_address,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
}

// AppendAuditEntry appends entry to trail and drops the oldest entries so
// that at most [MaxAuditTrailLength] remain. The input slice is not modified.
func AppendAuditEntry(trail []AuditEntry, entry AuditEntry) []AuditEntry {
	out := make([]AuditEntry, 0, len(trail)+1)
	out = append(out, trail...)
	out = append(out, entry)
	if len(out) > MaxAuditTrailLength {
		out = out[len(out)-MaxAuditTrailLength:]
	}
	return out
}

// SecurityLogEntry is one authentication-related event.
type SecurityLogEntry struct {
	Event     string         `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Actor identifies who performs a record operation and from where.
type Actor struct {
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// AuditEntry builds an entry for action performed by the actor at ts.
func (a Actor) AuditEntry(action AuditAction, ts time.Time, changes []FieldChange) AuditEntry {
	return AuditEntry{
		Action:    action,
		UserID:    a.UserID,
		Timestamp: ts,
		Changes:   changes,
		IPAddress: a.IPAddress,
		UserAgent: a.UserAgent,
	}
}
