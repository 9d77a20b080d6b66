// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-keeper/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

func validNewRecord() models.NewRecord {
	return models.NewRecord{
		DataType: models.DataTypeService,
		Data:     json.RawMessage(`{"name":"Haircut","price":30}`),
	}
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestValidate_Dispatch(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		require.ErrorIs(t, v.Validate(ctx, "a string"), ErrUnsupportedType)
	})

	t.Run("NewRecord value and pointer", func(t *testing.T) {
		rec := validNewRecord()
		require.NoError(t, v.Validate(ctx, rec))
		require.NoError(t, v.Validate(ctx, &rec))
	})

	t.Run("Actor value and pointer", func(t *testing.T) {
		actor := models.Actor{UserID: "u1", Role: models.RoleAdmin}
		require.NoError(t, v.Validate(ctx, actor))
		require.NoError(t, v.Validate(ctx, &actor))
	})

	t.Run("filter pointer", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, &models.RecordFilter{}))
	})
}

// ---------------------------------------------------------------------------
// NewRecord
// ---------------------------------------------------------------------------

func TestValidate_NewRecord(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(r *models.NewRecord)
		wantErr error
	}{
		{name: "valid", mutate: func(r *models.NewRecord) {}},
		{name: "unknown data type", mutate: func(r *models.NewRecord) { r.DataType = "invoice" }, wantErr: ErrInvalidDataType},
		{name: "empty data", mutate: func(r *models.NewRecord) { r.Data = nil }, wantErr: ErrEmptyData},
		{name: "whitespace data", mutate: func(r *models.NewRecord) { r.Data = json.RawMessage("  ") }, wantErr: ErrEmptyData},
		{name: "array data", mutate: func(r *models.NewRecord) { r.Data = json.RawMessage(`[1,2]`) }, wantErr: ErrDataNotObject},
		{name: "empty business id", mutate: func(r *models.NewRecord) { r.BusinessID = ptr("") }, wantErr: ErrInvalidBusinessID},
		{name: "business id", mutate: func(r *models.NewRecord) { r.BusinessID = ptr("biz-1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validNewRecord()
			tt.mutate(&rec)

			err := v.Validate(ctx, rec)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_NewRecord_FieldScoping(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	rec := validNewRecord()
	rec.DataType = "invoice"

	assert.NoError(t, v.Validate(ctx, rec, FieldData))
	assert.ErrorIs(t, v.Validate(ctx, rec, FieldDataType), ErrInvalidDataType)
	assert.ErrorIs(t, v.Validate(ctx, rec, "bogus"), ErrUnknownField)
}

// ---------------------------------------------------------------------------
// Bulk import
// ---------------------------------------------------------------------------

func TestValidate_Bulk(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, v.Validate(ctx, []models.NewRecord{}), ErrEmptyRecords)
	})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, []models.NewRecord{validNewRecord(), validNewRecord()}))
	})

	t.Run("reports index of invalid entry", func(t *testing.T) {
		bad := validNewRecord()
		bad.DataType = ""

		err := v.Validate(ctx, []models.NewRecord{validNewRecord(), bad})
		require.ErrorIs(t, err, ErrInvalidDataType)
		assert.Contains(t, err.Error(), "index 1")
	})
}

// ---------------------------------------------------------------------------
// Updates, filter, actor
// ---------------------------------------------------------------------------

func TestValidate_Updates(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.RecordData{}), ErrNoFieldsToUpdate)
	assert.NoError(t, v.Validate(ctx, models.RecordData{"price": 40}))
}

func TestValidate_Filter(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	assert.NoError(t, v.Validate(ctx, models.RecordFilter{CreatedFrom: &from}))
	assert.ErrorIs(t, v.Validate(ctx, models.RecordFilter{CreatedFrom: &from, CreatedTo: &to}), ErrInvalidDateRange)
	assert.ErrorIs(t, v.Validate(ctx, models.RecordFilter{BusinessID: ptr("")}), ErrInvalidBusinessID)
}

func TestValidate_Actor(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.Actor{Role: models.RoleAdmin}), ErrInvalidActor)
	assert.ErrorIs(t, v.Validate(ctx, models.Actor{UserID: "u1"}), ErrInvalidRole)
	assert.NoError(t, v.Validate(ctx, models.Actor{UserID: "u1"}, FieldUserID))
}
