// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuditTrailResponse is returned by GET /api/records/id/{id}/audit.
type AuditTrailResponse struct {
	RecordID   string       `json:"record_id"`
	AuditTrail []AuditEntry `json:"audit_trail"`
	Length     int          `json:"length"`
}

// RecordsResponse is returned by record listing and export endpoints.
type RecordsResponse struct {
	Records []Record `json:"records"`
	Length  int      `json:"length"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
	Build   string `json:"build_version"`
	Date    string `json:"build_date"`
	Commit  string `json:"build_commit"`
}

// NewVersionResponse combines the configured application version with the
// build metadata linked into the binary.
func NewVersionResponse(version string, info AppBuildInfo) VersionResponse {
	return VersionResponse{
		Version: version,
		Build:   info.BuildVersion(),
		Date:    info.BuildDate(),
		Commit:  info.BuildCommit(),
	}
}

// AccessResponse is returned by GET /api/auth/access. Permissions and Roles
// answer the permission and role names asked for in the query string.
type AccessResponse struct {
	Role        Role            `json:"role"`
	Admin       bool            `json:"admin"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	Roles       map[string]bool `json:"roles,omitempty"`
}

// SecurityLogResponse is returned by GET /api/auth/security-log.
type SecurityLogResponse struct {
	Entries []SecurityLogEntry `json:"entries"`
	Length  int                `json:"length"`
}

// WarningEvent is the payload of a "warning" server-sent event.
type WarningEvent struct {
	TimeRemaining int64 `json:"timeRemaining"`
}
