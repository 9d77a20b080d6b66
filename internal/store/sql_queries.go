// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-salon-keeper/models"
)

const (
	recordsTable  = "records"
	accountsTable = "accounts"
	kvTable       = "kv_entries"
)

var recordColumns = []string{
	"id", "data_type", "data",
	"created_by", "created_at", "updated_by", "updated_at",
	"version", "is_encrypted", "tags", "business_id",
	"permissions", "audit_trail",
}

var accountColumns = []string{
	"uid", "email", "password_hash", "display_name", "email_verified",
	"claims", "created_at", "last_sign_in_at",
}

// recordRow is the column-level representation of a [models.StoredRecord].
type recordRow struct {
	id          string
	dataType    string
	data        string
	createdBy   string
	createdAt   time.Time
	updatedBy   string
	updatedAt   time.Time
	version     int64
	isEncrypted bool
	tags        string
	businessID  sql.NullString
	permissions string
	auditTrail  string
}

func newRecordRow(r models.StoredRecord) (recordRow, error) {
	tags, err := encodeJSONColumn(r.Metadata.Tags)
	if err != nil {
		return recordRow{}, err
	}
	perms, err := encodeJSONColumn(r.Permissions)
	if err != nil {
		return recordRow{}, err
	}
	trail, err := encodeJSONColumn(r.AuditTrail)
	if err != nil {
		return recordRow{}, err
	}

	row := recordRow{
		id:          r.ID,
		dataType:    string(r.DataType),
		data:        r.Data,
		createdBy:   r.Metadata.CreatedBy,
		createdAt:   r.Metadata.CreatedAt.UTC(),
		updatedBy:   r.Metadata.UpdatedBy,
		updatedAt:   r.Metadata.UpdatedAt.UTC(),
		version:     r.Metadata.Version,
		isEncrypted: r.Metadata.IsEncrypted,
		tags:        tags,
		permissions: perms,
		auditTrail:  trail,
	}
	if r.Metadata.BusinessID != nil {
		row.businessID = sql.NullString{String: *r.Metadata.BusinessID, Valid: true}
	}

	return row, nil
}

func (r recordRow) values() []any {
	return []any{
		r.id, r.dataType, r.data,
		r.createdBy, r.createdAt, r.updatedBy, r.updatedAt,
		r.version, r.isEncrypted, r.tags, r.businessID,
		r.permissions, r.auditTrail,
	}
}

func (r *recordRow) scanDest() []any {
	return []any{
		&r.id, &r.dataType, &r.data,
		&r.createdBy, &r.createdAt, &r.updatedBy, &r.updatedAt,
		&r.version, &r.isEncrypted, &r.tags, &r.businessID,
		&r.permissions, &r.auditTrail,
	}
}

func (r recordRow) toModel() (models.StoredRecord, error) {
	rec := models.StoredRecord{
		ID:       r.id,
		DataType: models.DataType(r.dataType),
		Data:     r.data,
		Metadata: models.RecordMetadata{
			CreatedBy:   r.createdBy,
			CreatedAt:   r.createdAt,
			UpdatedBy:   r.updatedBy,
			UpdatedAt:   r.updatedAt,
			Version:     r.version,
			IsEncrypted: r.isEncrypted,
		},
	}
	if r.businessID.Valid {
		businessID := r.businessID.String
		rec.Metadata.BusinessID = &businessID
	}

	if err := decodeJSONColumn(r.tags, &rec.Metadata.Tags); err != nil {
		return models.StoredRecord{}, err
	}
	if err := decodeJSONColumn(r.permissions, &rec.Permissions); err != nil {
		return models.StoredRecord{}, err
	}
	if err := decodeJSONColumn(r.auditTrail, &rec.AuditTrail); err != nil {
		return models.StoredRecord{}, err
	}

	return rec, nil
}

func encodeJSONColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	return string(b), nil
}

func decodeJSONColumn(s string, dst any) error {
	if s == "" || s == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	return nil
}

func buildInsertRecordsQuery(b sq.StatementBuilderType, rows []recordRow) (string, []any, error) {
	insert := b.Insert(recordsTable).Columns(recordColumns...)
	for _, row := range rows {
		insert = insert.Values(row.values()...)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetRecordQuery(b sq.StatementBuilderType, id string) (string, []any, error) {
	query, args, err := b.Select(recordColumns...).
		From(recordsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildFindRecordsQuery(b sq.StatementBuilderType, dataType models.DataType, filter models.RecordFilter) (string, []any, error) {
	sel := b.Select(recordColumns...).
		From(recordsTable).
		Where(sq.Eq{"data_type": string(dataType)})

	if filter.BusinessID != nil {
		sel = sel.Where(sq.Eq{"business_id": *filter.BusinessID})
	}
	if filter.CreatedBy != "" {
		sel = sel.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if filter.CreatedFrom != nil {
		sel = sel.Where(sq.GtOrEq{"created_at": filter.CreatedFrom.UTC()})
	}
	if filter.CreatedTo != nil {
		sel = sel.Where(sq.LtOrEq{"created_at": filter.CreatedTo.UTC()})
	}

	sel = sel.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		sel = sel.Limit(filter.Limit)
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectAuditTrailQuery reads the audit trail of one record. lock
// appends FOR UPDATE for dialects with row locks.
func buildSelectAuditTrailQuery(b sq.StatementBuilderType, id string, lock bool) (string, []any, error) {
	sel := b.Select("audit_trail").
		From(recordsTable).
		Where(sq.Eq{"id": id})
	if lock {
		sel = sel.Suffix("FOR UPDATE")
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateRecordQuery(b sq.StatementBuilderType, row recordRow, expectedVersion int64) (string, []any, error) {
	query, args, err := b.Update(recordsTable).
		Set("data", row.data).
		Set("updated_by", row.updatedBy).
		Set("updated_at", row.updatedAt).
		Set("version", row.version).
		Set("is_encrypted", row.isEncrypted).
		Set("tags", row.tags).
		Set("business_id", row.businessID).
		Set("permissions", row.permissions).
		Set("audit_trail", row.auditTrail).
		Where(sq.Eq{"id": row.id, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
