// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-salon-keeper/internal/logger"
)

// sqlKeyValueStore is the long-lived session tier kept in the
// "kv_entries" table.
type sqlKeyValueStore struct {
	db  *DB
	now func() time.Time
}

// NewSQLKeyValueStore returns a [KeyValueStore] backed by db.
func NewSQLKeyValueStore(db *DB) KeyValueStore {
	return &sqlKeyValueStore{db: db, now: time.Now}
}

// Get returns the value of a non-expired entry. Expired entries are
// reported as missing and left for the next Set or Delete to overwrite.
func (s *sqlKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.db.builder.Select("value", "expires_at").
		From(kvTable).
		Where(sq.Eq{"name": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		value     string
		expiresAt sql.NullTime
	)
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		log.Err(err).Str("func", "sqlKeyValueStore.Get").Str("key", key).Msg("failed to read entry")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if expiresAt.Valid && !s.now().Before(expiresAt.Time) {
		return "", ErrKeyNotFound
	}

	return value, nil
}

// Set upserts key. Both PostgreSQL and SQLite understand ON CONFLICT.
func (s *sqlKeyValueStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: s.now().Add(ttl).UTC(), Valid: true}
	}

	query, args, err := s.db.builder.Insert(kvTable).
		Columns("name", "value", "expires_at").
		Values(key, value, expiresAt).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sqlKeyValueStore.Set").
			Str("key", key).
			Str("error_class", s.db.classify(err)).
			Msg("failed to write entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Delete removes keys.
func (s *sqlKeyValueStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := s.db.builder.Delete(kvTable).
		Where(sq.Eq{"name": keys}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlKeyValueStore.Delete").
			Strs("keys", keys).
			Msg("failed to delete entries")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
