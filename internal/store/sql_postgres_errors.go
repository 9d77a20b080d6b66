// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells whether a failed database operation should be
// retried or abandoned.
type ErrorClassification int

const (
	// NonRetryable is the default for unknown errors, constraint violations,
	// syntax errors and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable marks transient failures: lost connections, serialization
	// failures, deadlocks and a server that is still starting up.
	Retryable
)

// String implements fmt.Stringer.
func (c ErrorClassification) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "non-retryable"
}

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL
// errors surfaced by the pgx driver.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier].
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Network timeouts are retryable,
// a cancelled context is not.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil || errors.Is(err, context.Canceled) {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Retryable
	}

	return NonRetryable
}

// ClassifyPgError maps a PostgreSQL SQLSTATE to an [ErrorClassification]
// by error class:
//   - Class 08 connection exceptions: retryable
//   - Class 40 transaction rollback (serialization failure, deadlock): retryable
//   - 57P03 cannot_connect_now: retryable
//   - everything else (22, 23, 42, ...): non-retryable
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch {
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsTransactionRollback(pgErr.Code),
		pgErr.Code == pgerrcode.CannotConnectNow:
		return Retryable
	default:
		return NonRetryable
	}
}
