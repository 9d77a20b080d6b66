// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles identity provider accounts in the "accounts" table.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account. Emails are stored lower-cased.
//
// Error handling:
//   - unique violation on email (PostgreSQL 23505 or SQLite constraint) → [ErrEmailAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	account.Email = strings.ToLower(account.Email)
	claims, err := encodeJSONColumn(account.Claims)
	if err != nil {
		return models.Account{}, err
	}

	query, args, err := r.db.builder.Insert(accountsTable).
		Columns(accountColumns...).
		Values(
			account.UID, account.Email, account.PasswordHash, account.DisplayName, account.EmailVerified,
			claims, account.CreatedAt.UTC(), nullTime(account.LastSignInAt),
		).
		ToSql()
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, ErrEmailAlreadyExists
		}
		log.Err(err).
			Str("func", "*userRepository.CreateUser").
			Str("error_class", r.db.classify(err)).
			Msg("error creating account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return account, nil
}

// FindUserByEmail looks an account up by its (case-insensitive) email.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": strings.ToLower(email)})
}

// FindUserByUID looks an account up by its uid.
func (r *userRepository) FindUserByUID(ctx context.Context, uid string) (models.Account, error) {
	return r.findOne(ctx, "*userRepository.FindUserByUID", sq.Eq{"uid": uid})
}

func (r *userRepository) findOne(ctx context.Context, funcName string, where sq.Eq) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(accountColumns...).
		From(accountsTable).
		Where(where).
		ToSql()
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		account    models.Account
		claims     string
		lastSignIn sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&account.UID, &account.Email, &account.PasswordHash, &account.DisplayName, &account.EmailVerified,
		&claims, &account.CreatedAt, &lastSignIn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = decodeJSONColumn(claims, &account.Claims); err != nil {
		log.Err(err).Str("func", funcName).Str("user_id", account.UID).Msg("corrupt claims column")
		return models.Account{}, err
	}
	if lastSignIn.Valid {
		account.LastSignInAt = lastSignIn.Time
	}

	return account, nil
}

// UpdateUser overwrites the mutable profile fields of an account.
func (r *userRepository) UpdateUser(ctx context.Context, account models.Account) error {
	log := logger.FromContext(ctx)

	claims, err := encodeJSONColumn(account.Claims)
	if err != nil {
		return err
	}

	query, args, err := r.db.builder.Update(accountsTable).
		Set("display_name", account.DisplayName).
		Set("email_verified", account.EmailVerified).
		Set("claims", claims).
		Set("last_sign_in_at", nullTime(account.LastSignInAt)).
		Where(sq.Eq{"uid": account.UID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.UpdateUser").
			Str("user_id", account.UID).
			Str("error_class", r.db.classify(err)).
			Msg("error updating account")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	if postgresError(err) == pgerrcode.UniqueViolation {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
