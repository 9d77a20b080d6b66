// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// DataType is the kind of domain entity a [Record] envelopes.
type DataType string

const (
	DataTypeClient           DataType = "client"
	DataTypeService          DataType = "service"
	DataTypeTransaction      DataType = "transaction"
	DataTypeAppointment      DataType = "appointment"
	DataTypeStaff            DataType = "staff"
	DataTypeSettings         DataType = "settings"
	DataTypeTheme            DataType = "theme"
	DataTypeUserProfile      DataType = "user_profile"
	DataTypeSecurityLog      DataType = "security_log"
	DataTypeBusinessSettings DataType = "business_settings"
)

// DataTypes lists every supported [DataType].
var DataTypes = []DataType{
	DataTypeClient,
	DataTypeService,
	DataTypeTransaction,
	DataTypeAppointment,
	DataTypeStaff,
	DataTypeSettings,
	DataTypeTheme,
	DataTypeUserProfile,
	DataTypeSecurityLog,
	DataTypeBusinessSettings,
}

// Valid reports whether d is one of [DataTypes].
func (d DataType) Valid() bool {
	for _, t := range DataTypes {
		if d == t {
			return true
		}
	}
	return false
}

// RecordData is the decrypted, decoded body of a record.
type RecordData map[string]any

// RecordMetadata carries the bookkeeping fields of a record.
type RecordMetadata struct {
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedBy   string    `json:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
	IsEncrypted bool      `json:"is_encrypted"`
	Tags        []string  `json:"tags,omitempty"`
	BusinessID  *string   `json:"business_id,omitempty"`
}

// RecordPermissions lists the roles allowed to perform each action.
type RecordPermissions struct {
	Read   []Role `json:"read"`
	Write  []Role `json:"write"`
	Delete []Role `json:"delete"`
}

// CanRead reports whether role is listed in Read.
func (p RecordPermissions) CanRead(role Role) bool { return containsRole(p.Read, role) }

// CanWrite reports whether role is listed in Write.
func (p RecordPermissions) CanWrite(role Role) bool { return containsRole(p.Write, role) }

// CanDelete reports whether role is listed in Delete.
func (p RecordPermissions) CanDelete(role Role) bool { return containsRole(p.Delete, role) }

func containsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// StoredRecord is a record exactly as it is persisted: the body is either
// plain JSON or an encrypted blob, depending on Metadata.IsEncrypted.
type StoredRecord struct {
	ID          string            `json:"id"`
	DataType    DataType          `json:"data_type"`
	Data        string            `json:"data"`
	Metadata    RecordMetadata    `json:"metadata"`
	Permissions RecordPermissions `json:"permissions"`
	AuditTrail  []AuditEntry      `json:"audit_trail"`
}

// Record is the decrypted view of a [StoredRecord] handed to callers.
type Record struct {
	ID          string            `json:"id"`
	DataType    DataType          `json:"data_type"`
	Data        RecordData        `json:"data"`
	Metadata    RecordMetadata    `json:"metadata"`
	Permissions RecordPermissions `json:"permissions"`
	AuditTrail  []AuditEntry      `json:"audit_trail"`
}

// RecordFilter narrows a record query. Zero-valued fields are ignored.
type RecordFilter struct {
	BusinessID  *string    `json:"business_id,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedFrom *time.Time `json:"created_from,omitempty"`
	CreatedTo   *time.Time `json:"created_to,omitempty"`
	Limit       uint64     `json:"limit,omitempty"`
}

// NewRecord is one entry of a bulk import.
type NewRecord struct {
	DataType   DataType        `json:"data_type" validate:"required"`
	Data       json.RawMessage `json:"data" validate:"required"`
	BusinessID *string         `json:"business_id,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
}
