// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-salon-keeper/internal/crypto"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/internal/validators"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// sensitiveDataTypes are always stored encrypted.
var sensitiveDataTypes = map[models.DataType]bool{
	models.DataTypeClient:      true,
	models.DataTypeStaff:       true,
	models.DataTypeSettings:    true,
	models.DataTypeUserProfile: true,
	models.DataTypeSecurityLog: true,
}

// sensitiveKeywords make any payload mentioning them encrypted. Matching is
// case-insensitive.
var sensitiveKeywords = []string{"email", "phone", "mobile", "password", "apikey", "secret", "token"}

var (
	rolesAll        = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleEmployee, models.RoleStaff}
	rolesOffice     = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleEmployee}
	rolesManagement = []models.Role{models.RoleAdmin, models.RoleManager}
	rolesAdmin      = []models.Role{models.RoleAdmin}
)

var defaultRecordPermissions = map[models.DataType]models.RecordPermissions{
	models.DataTypeClient:           {Read: rolesOffice, Write: rolesOffice, Delete: rolesManagement},
	models.DataTypeService:          {Read: rolesAll, Write: rolesManagement, Delete: rolesAdmin},
	models.DataTypeTransaction:      {Read: rolesOffice, Write: rolesOffice, Delete: rolesAdmin},
	models.DataTypeAppointment:      {Read: rolesAll, Write: rolesOffice, Delete: rolesManagement},
	models.DataTypeStaff:            {Read: rolesManagement, Write: rolesAdmin, Delete: rolesAdmin},
	models.DataTypeSettings:         {Read: rolesManagement, Write: rolesAdmin, Delete: rolesAdmin},
	models.DataTypeBusinessSettings: {Read: rolesManagement, Write: rolesAdmin, Delete: rolesAdmin},
	models.DataTypeTheme:            {Read: rolesAll, Write: rolesManagement, Delete: rolesAdmin},
	models.DataTypeUserProfile:      {Read: rolesAll, Write: rolesAll, Delete: rolesAdmin},
	models.DataTypeSecurityLog:      {Read: rolesAdmin, Write: rolesAdmin, Delete: rolesAdmin},
}

// DefaultRecordPermissions returns the role sets a new record of dataType
// starts with. Unknown types are admin-only.
func DefaultRecordPermissions(dataType models.DataType) models.RecordPermissions {
	p, ok := defaultRecordPermissions[dataType]
	if !ok {
		p = models.RecordPermissions{Read: rolesAdmin, Write: rolesAdmin, Delete: rolesAdmin}
	}
	return models.RecordPermissions{
		Read:   slices.Clone(p.Read),
		Write:  slices.Clone(p.Write),
		Delete: slices.Clone(p.Delete),
	}
}

// ShouldEncrypt reports whether a record of dataType with the serialized
// payload has to be stored encrypted.
func ShouldEncrypt(dataType models.DataType, payload []byte) bool {
	if sensitiveDataTypes[dataType] {
		return true
	}

	text := strings.ToLower(string(payload))
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// recordStore is the permissioned, audited [RecordService] over a
// [store.RecordRepository].
type recordStore struct {
	records   store.RecordRepository
	cipher    crypto.DataCipher
	validator validators.Validator

	clock Clock
	ids   *utils.UUIDGenerator

	logger *logger.Logger
}

// NewRecordStore returns the [RecordService] backed by records.
func NewRecordStore(records store.RecordRepository, cipher crypto.DataCipher, validator validators.Validator, clock Clock, logger *logger.Logger) RecordService {
	return &recordStore{
		records:   records,
		cipher:    cipher,
		validator: validator,
		clock:     clock,
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// Create implements [RecordService].
func (s *recordStore) Create(ctx context.Context, actor models.Actor, rec models.NewRecord) (string, error) {
	if err := s.validate(ctx, actor, rec); err != nil {
		return "", err
	}

	stored, err := s.newStoredRecord(actor, rec, models.AuditCreate)
	if err != nil {
		return "", err
	}

	if err = s.records.InsertRecords(ctx, []models.StoredRecord{stored}); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*recordStore.Create").
			Str("data_type", string(rec.DataType)).
			Str("user_id", actor.UserID).
			Msg("failed to insert record")
		return "", err
	}

	return stored.ID, nil
}

// Read implements [RecordService]. Records the actor may not read and
// records that fail to decrypt are skipped.
func (s *recordStore) Read(ctx context.Context, actor models.Actor, dataType models.DataType, filter models.RecordFilter) ([]models.Record, error) {
	if err := s.validate(ctx, actor, filter); err != nil {
		return nil, err
	}
	return s.list(ctx, actor, dataType, filter, models.AuditRead)
}

// Export implements [RecordService]. It is Read without a filter, audited
// as an export.
func (s *recordStore) Export(ctx context.Context, actor models.Actor, dataType models.DataType) ([]models.Record, error) {
	if err := s.validate(ctx, actor); err != nil {
		return nil, err
	}
	return s.list(ctx, actor, dataType, models.RecordFilter{}, models.AuditExport)
}

// Get implements [RecordService].
func (s *recordStore) Get(ctx context.Context, actor models.Actor, id string) (models.Record, error) {
	if err := s.validate(ctx, actor); err != nil {
		return models.Record{}, err
	}

	stored, err := s.records.GetRecord(ctx, id)
	if err != nil {
		return models.Record{}, err
	}
	if !stored.Permissions.CanRead(actor.Role) {
		return models.Record{}, ErrPermissionDenied
	}

	record, err := s.open(stored)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recordStore.Get").Str("record_id", id).Msg("failed to decrypt record")
		return models.Record{}, err
	}

	s.appendAudit(ctx, &stored, actor.AuditEntry(models.AuditRead, s.now(), nil))
	record.AuditTrail = stored.AuditTrail

	return record, nil
}

// Update implements [RecordService]. updates is merged shallowly into the
// current data and the version check happens at write time.
func (s *recordStore) Update(ctx context.Context, actor models.Actor, id string, updates models.RecordData) (models.Record, error) {
	log := logger.FromContext(ctx)

	if err := s.validate(ctx, actor, updates); err != nil {
		return models.Record{}, err
	}

	stored, err := s.records.GetRecord(ctx, id)
	if err != nil {
		return models.Record{}, err
	}
	if !stored.Permissions.CanWrite(actor.Role) {
		return models.Record{}, ErrPermissionDenied
	}

	current, err := s.open(stored)
	if err != nil {
		log.Err(err).Str("func", "*recordStore.Update").Str("record_id", id).Msg("failed to decrypt record")
		return models.Record{}, err
	}

	normalized, err := normalizeRecordData(updates)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidRecordData, err)
	}

	merged := make(models.RecordData, len(current.Data)+len(normalized))
	for k, v := range current.Data {
		merged[k] = v
	}
	for k, v := range normalized {
		merged[k] = v
	}
	changes := diffRecordData(current.Data, merged)

	data, err := s.seal(merged, stored.Metadata.IsEncrypted)
	if err != nil {
		return models.Record{}, err
	}

	now := s.now()
	expectedVersion := stored.Metadata.Version

	stored.Data = data
	stored.Metadata.UpdatedBy = actor.UserID
	stored.Metadata.UpdatedAt = now
	stored.Metadata.Version = expectedVersion + 1

	trail, err := s.records.UpdateRecord(ctx, stored, expectedVersion, actor.AuditEntry(models.AuditUpdate, now, changes))
	if err != nil {
		log.Err(err).Str("func", "*recordStore.Update").Str("record_id", id).Int64("version", expectedVersion).Msg("failed to update record")
		return models.Record{}, err
	}

	current.Data = merged
	current.Metadata = stored.Metadata
	current.AuditTrail = trail
	return current, nil
}

// Delete implements [RecordService]. The delete entry is appended to the
// trail right before the record, trail included, is removed.
func (s *recordStore) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := s.validate(ctx, actor); err != nil {
		return err
	}

	stored, err := s.records.GetRecord(ctx, id)
	if err != nil {
		return err
	}
	if !stored.Permissions.CanDelete(actor.Role) {
		return ErrPermissionDenied
	}

	s.appendAudit(ctx, &stored, actor.AuditEntry(models.AuditDelete, s.now(), nil))

	if err = s.records.DeleteRecord(ctx, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recordStore.Delete").Str("record_id", id).Msg("failed to delete record")
		return err
	}
	return nil
}

// BulkImport implements [RecordService]. Either every record is created or
// none is.
func (s *recordStore) BulkImport(ctx context.Context, actor models.Actor, recs []models.NewRecord) ([]string, error) {
	if err := s.validate(ctx, actor); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoRecordsProvided
	}
	if err := s.validator.Validate(ctx, recs); err != nil {
		return nil, validationError(err)
	}

	batch := make([]models.StoredRecord, 0, len(recs))
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		stored, err := s.newStoredRecord(actor, rec, models.AuditBulkImport)
		if err != nil {
			return nil, err
		}
		batch = append(batch, stored)
		ids = append(ids, stored.ID)
	}

	if err := s.records.InsertRecords(ctx, batch); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*recordStore.BulkImport").
			Str("user_id", actor.UserID).
			Int("count", len(batch)).
			Msg("failed to import records")
		return nil, err
	}

	return ids, nil
}

// GetAuditTrail implements [RecordService].
func (s *recordStore) GetAuditTrail(ctx context.Context, actor models.Actor, id string) ([]models.AuditEntry, error) {
	if err := s.validate(ctx, actor); err != nil {
		return nil, err
	}

	stored, err := s.records.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if !stored.Permissions.CanRead(actor.Role) {
		return nil, ErrPermissionDenied
	}

	return slices.Clone(stored.AuditTrail), nil
}

func (s *recordStore) list(ctx context.Context, actor models.Actor, dataType models.DataType, filter models.RecordFilter, action models.AuditAction) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	if !dataType.Valid() {
		return nil, ErrInvalidDataType
	}

	found, err := s.records.FindRecords(ctx, dataType, filter)
	if err != nil {
		log.Err(err).Str("func", "*recordStore.list").Str("data_type", string(dataType)).Msg("failed to query records")
		return nil, err
	}

	now := s.now()
	out := make([]models.Record, 0, len(found))
	for i := range found {
		stored := found[i]
		if !stored.Permissions.CanRead(actor.Role) {
			continue
		}

		record, err := s.open(stored)
		if err != nil {
			log.Err(err).Str("func", "*recordStore.list").Str("record_id", stored.ID).Msg("skipping record that failed to decrypt")
			continue
		}

		s.appendAudit(ctx, &stored, actor.AuditEntry(action, now, nil))
		record.AuditTrail = stored.AuditTrail
		out = append(out, record)
	}

	return out, nil
}

func (s *recordStore) newStoredRecord(actor models.Actor, rec models.NewRecord, action models.AuditAction) (models.StoredRecord, error) {
	var data models.RecordData
	if err := json.Unmarshal(rec.Data, &data); err != nil || data == nil {
		return models.StoredRecord{}, ErrInvalidRecordData
	}

	encrypted := ShouldEncrypt(rec.DataType, rec.Data)
	body, err := s.seal(data, encrypted)
	if err != nil {
		return models.StoredRecord{}, err
	}

	now := s.now()
	return models.StoredRecord{
		ID:       s.ids.Generate(),
		DataType: rec.DataType,
		Data:     body,
		Metadata: models.RecordMetadata{
			CreatedBy:   actor.UserID,
			CreatedAt:   now,
			UpdatedBy:   actor.UserID,
			UpdatedAt:   now,
			Version:     1,
			IsEncrypted: encrypted,
			Tags:        slices.Clone(rec.Tags),
			BusinessID:  rec.BusinessID,
		},
		Permissions: DefaultRecordPermissions(rec.DataType),
		AuditTrail:  []models.AuditEntry{actor.AuditEntry(action, now, nil)},
	}, nil
}

// open decodes the body of stored, decrypting it when needed.
func (s *recordStore) open(stored models.StoredRecord) (models.Record, error) {
	var data models.RecordData
	if stored.Metadata.IsEncrypted {
		if err := s.cipher.Decrypt(stored.Data, &data); err != nil {
			return models.Record{}, err
		}
	} else if err := json.Unmarshal([]byte(stored.Data), &data); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", crypto.ErrDecryption, err)
	}

	return models.Record{
		ID:          stored.ID,
		DataType:    stored.DataType,
		Data:        data,
		Metadata:    stored.Metadata,
		Permissions: stored.Permissions,
		AuditTrail:  slices.Clone(stored.AuditTrail),
	}, nil
}

func (s *recordStore) seal(data models.RecordData, encrypt bool) (string, error) {
	if encrypt {
		return s.cipher.Encrypt(data)
	}

	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRecordData, err)
	}
	return string(body), nil
}

// appendAudit appends entry to the persisted trail of stored. The storage
// layer extends whatever trail it holds, so entries written by concurrent
// calls since stored was loaded are kept. Failures are logged and otherwise
// ignored; stored is only changed on success.
func (s *recordStore) appendAudit(ctx context.Context, stored *models.StoredRecord, entry models.AuditEntry) {
	trail, err := s.records.AppendAuditEntry(ctx, stored.ID, entry)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*recordStore.appendAudit").
			Str("record_id", stored.ID).
			Str("action", string(entry.Action)).
			Msg("failed to append audit entry")
		return
	}
	stored.AuditTrail = trail
}

func (s *recordStore) validate(ctx context.Context, actor models.Actor, values ...any) error {
	if err := s.validator.Validate(ctx, actor); err != nil {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	for _, v := range values {
		if err := s.validator.Validate(ctx, v); err != nil {
			return validationError(err)
		}
	}
	return nil
}

func (s *recordStore) now() time.Time {
	return s.clock.Now().UTC()
}

func validationError(err error) error {
	if errors.Is(err, validators.ErrInvalidDataType) {
		return fmt.Errorf("%w: %w", ErrInvalidDataType, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidRecordData, err)
}

// normalizeRecordData round-trips data through JSON so that its values
// have the same Go types as data decoded from storage.
func normalizeRecordData(data models.RecordData) (models.RecordData, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out models.RecordData
	if err = json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// diffRecordData lists the top-level fields of after that are new or differ
// from before, sorted by field name.
func diffRecordData(before, after models.RecordData) []models.FieldChange {
	var changes []models.FieldChange
	for field, newValue := range after {
		oldValue, existed := before[field]
		if existed && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		changes = append(changes, models.FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
	}

	slices.SortFunc(changes, func(a, b models.FieldChange) int {
		return strings.Compare(a.Field, b.Field)
	})
	return changes
}
