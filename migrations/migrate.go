// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the SQL schema and applies it with goose.
// The same scripts run on PostgreSQL and SQLite.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

var errNilDB = errors.New("db is nil")

// gooseDialect maps a store driver name onto a goose dialect.
func gooseDialect(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "pgx", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

// Migrate applies every pending migration to db using the dialect of driver
// ("postgres" or "sqlite").
func Migrate(db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	dialect, err := gooseDialect(driver)
	if err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err = goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err = goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
