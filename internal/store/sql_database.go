// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/migrations"
)

// DB is a database/sql pool together with the dialect specifics the
// repositories need.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, driver string, log *logger.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: driver,
		logger:  log,
	}

	switch driver {
	case config.DriverPostgres:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		db.errorClassificator = NewPostgresErrorClassifier()
	default:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
		db.errorClassificator = nopErrorClassifier{}
	}

	return db
}

// NewConnectDB opens the database selected by cfg.Driver.
func NewConnectDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Migrate applies all pending schema migrations for the connection dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// Dialect returns the driver name the connection was opened with.
func (db *DB) Dialect() string {
	return db.dialect
}

func (db *DB) classify(err error) string {
	return db.errorClassificator.Classify(err).String()
}

type nopErrorClassifier struct{}

func (nopErrorClassifier) Classify(error) ErrorClassification { return NonRetryable }
