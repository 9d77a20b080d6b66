// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// account fails because the email is already taken.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match exactly
	// one account produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRecordNotFound is returned when a record id does not exist.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordsNotSaved is returned when a batch INSERT completes without
	// error but fewer rows than requested were persisted.
	ErrRecordsNotSaved = errors.New("records were not saved")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the record was modified by another writer after it was loaded.
	ErrVersionConflict = errors.New("record version conflict occurred")

	// ErrKeyNotFound is returned by a [KeyValueStore] for a missing or
	// expired key.
	ErrKeyNotFound = errors.New("key was not found")

	// ErrUnknownDriver is returned for an unsupported storage driver name.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingColumn is returned when a JSON column cannot be encoded or
	// decoded.
	ErrEncodingColumn = errors.New("failed to encode json column")
)
