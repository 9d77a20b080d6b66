// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"fmt"

	"github.com/MKhiriev/go-salon-keeper/models"
)

// Field names understood by [RecordValidator].
const (
	FieldDataType   = "data_type"
	FieldData       = "data"
	FieldBusinessID = "business_id"
	FieldRecords    = "records"
	FieldUserID     = "user_id"
	FieldRole       = "role"
	FieldDateRange  = "date_range"
	FieldUpdates    = "updates"
)

// RecordValidator validates [models.NewRecord], bulk imports
// ([]models.NewRecord), [models.RecordData] updates, [models.RecordFilter]
// and [models.Actor].
type RecordValidator struct{}

// NewRecordValidator returns a [Validator] for record store input.
func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate implements [Validator].
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.NewRecord:
		return v.validateNewRecord(ctx, value, fields...)
	case *models.NewRecord:
		return v.validateNewRecord(ctx, *value, fields...)

	case []models.NewRecord:
		return v.validateBulk(ctx, value, fields...)

	case models.RecordData:
		return v.validateUpdates(ctx, value, fields...)

	case models.RecordFilter:
		return v.validateFilter(ctx, value, fields...)
	case *models.RecordFilter:
		return v.validateFilter(ctx, *value, fields...)

	case models.Actor:
		return v.validateActor(ctx, value, fields...)
	case *models.Actor:
		return v.validateActor(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateNewRecord(_ context.Context, rec models.NewRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDataType, FieldData, FieldBusinessID}
	}

	for _, f := range fields {
		switch f {
		case FieldDataType:
			if !rec.DataType.Valid() {
				return ErrInvalidDataType
			}
		case FieldData:
			data := bytes.TrimSpace(rec.Data)
			if len(data) == 0 {
				return ErrEmptyData
			}
			if data[0] != '{' {
				return ErrDataNotObject
			}
		case FieldBusinessID:
			if rec.BusinessID != nil && *rec.BusinessID == "" {
				return ErrInvalidBusinessID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateBulk(ctx context.Context, recs []models.NewRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecords}
	}

	for _, f := range fields {
		switch f {
		case FieldRecords:
			if len(recs) == 0 {
				return ErrEmptyRecords
			}
			for i, rec := range recs {
				if err := v.validateNewRecord(ctx, rec); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateUpdates(_ context.Context, updates models.RecordData, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUpdates}
	}

	for _, f := range fields {
		switch f {
		case FieldUpdates:
			if len(updates) == 0 {
				return ErrNoFieldsToUpdate
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateFilter(_ context.Context, filter models.RecordFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBusinessID, FieldDateRange}
	}

	for _, f := range fields {
		switch f {
		case FieldBusinessID:
			if filter.BusinessID != nil && *filter.BusinessID == "" {
				return ErrInvalidBusinessID
			}
		case FieldDateRange:
			if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedFrom.After(*filter.CreatedTo) {
				return ErrInvalidDateRange
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateActor(_ context.Context, actor models.Actor, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldRole}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if actor.UserID == "" {
				return ErrInvalidActor
			}
		case FieldRole:
			if actor.Role == "" {
				return ErrInvalidRole
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
