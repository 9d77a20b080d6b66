// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
)

func newTestSQLKV(t *testing.T, now time.Time) (*sqlKeyValueStore, sqlmock.Sqlmock) {
	db, mock := newTestDB(t, config.DriverSQLite)
	return &sqlKeyValueStore{db: db, now: func() time.Time { return now }}, mock
}

func TestSQLKeyValueStore_Get(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		want    string
		wantErr error
	}{
		{
			name: "no expiry",
			rows: sqlmock.NewRows([]string{"value", "expires_at"}).AddRow("v", nil),
			want: "v",
		},
		{
			name: "not yet expired",
			rows: sqlmock.NewRows([]string{"value", "expires_at"}).AddRow("v", now.Add(time.Minute)),
			want: "v",
		},
		{
			name:    "expired",
			rows:    sqlmock.NewRows([]string{"value", "expires_at"}).AddRow("v", now),
			wantErr: ErrKeyNotFound,
		},
		{
			name:    "missing",
			rows:    sqlmock.NewRows([]string{"value", "expires_at"}),
			wantErr: ErrKeyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, mock := newTestSQLKV(t, now)
			mock.ExpectQuery(regexp.QuoteMeta("SELECT value, expires_at FROM kv_entries WHERE name = ?")).
				WithArgs("session").
				WillReturnRows(tt.rows)

			got, err := kv.Get(context.Background(), "session")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLKeyValueStore_SetUpserts(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	kv, mock := newTestSQLKV(t, now)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries (name,value,expires_at) VALUES (?,?,?) ON CONFLICT (name) DO UPDATE")).
		WithArgs("session", "payload", now.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
		WithArgs("user", "u", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kv.Set(context.Background(), "session", "payload", time.Hour))
	require.NoError(t, kv.Set(context.Background(), "user", "u", 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKeyValueStore_Delete(t *testing.T) {
	kv, mock := newTestSQLKV(t, time.Now())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE name IN (?,?)")).
		WithArgs("a", "b").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, kv.Delete(context.Background(), "a", "b"))
	require.NoError(t, kv.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
