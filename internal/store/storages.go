// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
)

// Storages groups every repository the salon service layer depends on.
type Storages struct {
	// RecordRepository is the centralized record collection.
	RecordRepository RecordRepository

	// PersistentKV survives restarts and backs "remember me" sessions.
	PersistentKV KeyValueStore

	// EphemeralKV lives as long as the browser/app session.
	EphemeralKV KeyValueStore

	closers []func() error
}

// NewStorages opens the configured database and ephemeral tier, runs
// migrations and wires the repositories.
//
// With the "memory" database driver nothing is opened; every repository is
// process-local.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("db_driver", cfg.DB.Driver).Str("ephemeral_driver", cfg.Ephemeral.Driver).Msg("creating new storages...")

	s := &Storages{}

	if cfg.DB.Driver == config.DriverMemory {
		s.RecordRepository = NewMemoryRecordRepository()
		s.PersistentKV = NewMemoryKeyValueStore()
	} else {
		db, err := openMigratedDB(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		s.RecordRepository = NewRecordRepository(db, log)
		s.PersistentKV = NewSQLKeyValueStore(db)
	}

	ephemeral, err := newEphemeralStore(ctx, cfg.Ephemeral, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.EphemeralKV = ephemeral

	return s, nil
}

// IdentityStorages groups the repositories of the identity provider.
type IdentityStorages struct {
	UserRepository UserRepository

	closers []func() error
}

// NewIdentityStorages opens the account database.
func NewIdentityStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*IdentityStorages, error) {
	log.Info().Str("db_driver", cfg.DB.Driver).Msg("creating identity storages...")

	if cfg.DB.Driver == config.DriverMemory {
		return &IdentityStorages{UserRepository: NewMemoryUserRepository()}, nil
	}

	db, err := openMigratedDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	return &IdentityStorages{
		UserRepository: NewUserRepository(db, log),
		closers:        []func() error{db.Close},
	}, nil
}

// Close releases the underlying connections.
func (s *IdentityStorages) Close() error {
	return closeAll(s.closers)
}

// Close releases the underlying connections.
func (s *Storages) Close() error {
	return closeAll(s.closers)
}

func openMigratedDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	db, err := NewConnectDB(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

func newEphemeralStore(ctx context.Context, cfg config.Ephemeral, s *Storages) (KeyValueStore, error) {
	switch cfg.Driver {
	case "", config.EphemeralMemory:
		return NewMemoryKeyValueStore(), nil
	case config.EphemeralRedis:
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		return NewRedisKeyValueStore(client), nil
	default:
		return nil, fmt.Errorf("%w: ephemeral %q", ErrUnknownDriver, cfg.Driver)
	}
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
