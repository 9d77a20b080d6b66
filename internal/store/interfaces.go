// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-salon-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository persists centralized records. It is the only writer of
// the records collection.
type RecordRepository interface {
	// InsertRecords stores all records atomically: either every record is
	// persisted or none is.
	InsertRecords(ctx context.Context, records []models.StoredRecord) error

	// GetRecord returns the record with the given id or [ErrRecordNotFound].
	GetRecord(ctx context.Context, id string) (models.StoredRecord, error)

	// FindRecords returns records of dataType matching filter, newest first.
	FindRecords(ctx context.Context, dataType models.DataType, filter models.RecordFilter) ([]models.StoredRecord, error)

	// UpdateRecord replaces the mutable fields of record and appends entry
	// to its stored audit trail if the stored version still equals
	// expectedVersion, otherwise it returns [ErrVersionConflict]. The audit
	// trail carried by record is ignored. It returns the resulting trail.
	UpdateRecord(ctx context.Context, record models.StoredRecord, expectedVersion int64, entry models.AuditEntry) ([]models.AuditEntry, error)

	// AppendAuditEntry atomically appends entry to the stored audit trail of
	// a record and returns the resulting trail.
	AppendAuditEntry(ctx context.Context, id string, entry models.AuditEntry) ([]models.AuditEntry, error)

	// DeleteRecord physically removes a record.
	DeleteRecord(ctx context.Context, id string) error
}

// UserRepository persists identity provider accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, account models.Account) (models.Account, error)
	FindUserByEmail(ctx context.Context, email string) (models.Account, error)
	FindUserByUID(ctx context.Context, uid string) (models.Account, error)

	// UpdateUser overwrites display name, verification flag, claims and
	// last sign-in time of an existing account.
	UpdateUser(ctx context.Context, account models.Account) error
}

// KeyValueStore is one tier of durable session storage.
type KeyValueStore interface {
	// Get returns the value for key or [ErrKeyNotFound].
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A positive ttl makes the entry expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
